// Copyright 2025 Assetdesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

// Closed status enumerations. These are persisted as strings but every
// consumer switches over the constants below, never over raw column values.

// RoleStatus is the lifecycle state of a role.
type RoleStatus string

const (
	RoleActive   RoleStatus = "ACTIVE"
	RoleInactive RoleStatus = "INACTIVE"
)

// PermissionStatus is the lifecycle state of a permission definition.
type PermissionStatus string

const (
	PermissionActive   PermissionStatus = "ACTIVE"
	PermissionInactive PermissionStatus = "INACTIVE"
)

// GrantStatus is the lifecycle state of a role-permission grant row. History
// is preserved by flipping status, never by deleting rows.
type GrantStatus string

const (
	GrantActive  GrantStatus = "ACTIVE"
	GrantRevoked GrantStatus = "REVOKED"
)

// OverrideStatus is the lifecycle state of a per-user override row.
type OverrideStatus string

const (
	OverrideActive  OverrideStatus = "ACTIVE"
	OverrideRevoked OverrideStatus = "REVOKED"
	OverrideExpired OverrideStatus = "EXPIRED"
)

// ScopeType distinguishes global from project-confined access.
type ScopeType string

const (
	ScopeGlobal  ScopeType = "GLOBAL"
	ScopeProject ScopeType = "PROJECT"
)

// ResolutionMethod tags why a resolution decision was reached.
type ResolutionMethod string

const (
	MethodUserOverride     ResolutionMethod = "UserOverride"
	MethodRolePermission   ResolutionMethod = "RolePermission"
	MethodScopeViolation   ResolutionMethod = "ScopeViolation"
	MethodResourceInactive ResolutionMethod = "ResourceInactive"
	MethodUserInactive     ResolutionMethod = "UserInactive"
	MethodDefaultDeny      ResolutionMethod = "DefaultDeny"
)

// ChangeAction tags an administrative mutation in the audit trail.
type ChangeAction string

const (
	ActionGrant          ChangeAction = "GRANT"
	ActionRevoke         ChangeAction = "REVOKE"
	ActionRoleCreate     ChangeAction = "ROLE_CREATE"
	ActionRoleUpdate     ChangeAction = "ROLE_UPDATE"
	ActionRoleDeactivate ChangeAction = "ROLE_DEACTIVATE"
	ActionRoleReactivate ChangeAction = "ROLE_REACTIVATE"
)

// AssetStatus is the lifecycle state of an asset (the resource registry).
type AssetStatus string

const (
	AssetActive         AssetStatus = "ACTIVE"
	AssetInactive       AssetStatus = "INACTIVE"
	AssetDecommissioned AssetStatus = "DECOMMISSIONED"
)

const (
	UserDisabled = 0
	UserEnabled  = 1
)

// SuperAdminRoleName is the designated role that bypasses every scope and
// location check.
const SuperAdminRoleName = "SUPER_ADMIN"
