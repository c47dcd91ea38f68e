package repo

import "github.com/google/wire"

// ProviderSet is the Wire provider set for the repo package.
var ProviderSet = wire.NewSet(
	NewUserRepo,
	NewRoleRepo,
	NewPermissionRepo,
	NewRolePermissionRepo,
	NewOverrideRepo,
	NewScopeRepo,
	NewProjectRepo,
	NewLocationRepo,
	NewAssetRepo,
	NewAuditRepo,
)
