package service

import "github.com/google/wire"

// ProviderSet is the Wire provider set for the service package.
var ProviderSet = wire.NewSet(
	NewAuditService,
	wire.Bind(new(AccessAuditor), new(*AuditService)),
	wire.Bind(new(ChangeAuditor), new(*AuditService)),
	NewAccessService,
	NewScopeService,
	NewRoleAdminService,
)
