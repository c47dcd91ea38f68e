package handler

import "github.com/google/wire"

// ProviderSet is the Wire provider set for the handler package.
var ProviderSet = wire.NewSet(
	NewAccessHandler,
	NewRoleHandler,
	NewAuditHandler,
	NewLocationHandler,
)
