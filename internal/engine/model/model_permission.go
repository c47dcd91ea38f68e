package model

import "time"

// Permission is a protected action, identified by a stable human-readable
// code (e.g. ASSET_TRANSFER) and grouped by module.
type Permission struct {
	BaseModel
	PermissionId string           `gorm:"column:permission_id;not null;uniqueIndex" json:"permissionId"`
	Code         string           `gorm:"column:code;not null;uniqueIndex" json:"code"`
	Name         string           `gorm:"column:name" json:"name"`
	Module       string           `gorm:"column:module;index" json:"module"`
	Status       PermissionStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
}

func (Permission) TableName() string {
	return "t_permission"
}

// RolePermission is a versioned grant: at most one ACTIVE row exists per
// (role, permission) pair; revocation flips status instead of deleting.
type RolePermission struct {
	BaseModel
	RoleId       string      `gorm:"column:role_id;not null;index:idx_role_perm" json:"roleId"`
	PermissionId string      `gorm:"column:permission_id;not null;index:idx_role_perm" json:"permissionId"`
	Allowed      bool        `gorm:"column:allowed;not null" json:"allowed"`
	Status       GrantStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
	GrantedBy    string      `gorm:"column:granted_by" json:"grantedBy"`
	GrantedAt    time.Time   `gorm:"column:granted_at" json:"grantedAt"`
	RevokedBy    *string     `gorm:"column:revoked_by" json:"revokedBy,omitempty"`
	RevokedAt    *time.Time  `gorm:"column:revoked_at" json:"revokedAt,omitempty"`
}

func (RolePermission) TableName() string {
	return "t_role_permission"
}

// UserPermissionOverride supersedes role grants for one user. An override
// whose expiry has passed is treated as absent regardless of stored status.
type UserPermissionOverride struct {
	BaseModel
	OverrideId   string         `gorm:"column:override_id;not null;uniqueIndex" json:"overrideId"`
	UserId       string         `gorm:"column:user_id;not null;index:idx_user_perm" json:"userId"`
	PermissionId string         `gorm:"column:permission_id;not null;index:idx_user_perm" json:"permissionId"`
	Allowed      bool           `gorm:"column:allowed;not null" json:"allowed"`
	Status       OverrideStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
	Reason       string         `gorm:"column:reason" json:"reason"`
	GrantedBy    string         `gorm:"column:granted_by" json:"grantedBy"`
	ExpiresAt    *time.Time     `gorm:"column:expires_at" json:"expiresAt,omitempty"`
}

func (UserPermissionOverride) TableName() string {
	return "t_user_permission_override"
}

// Expired reports whether the override's expiry is in the past.
func (o *UserPermissionOverride) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && o.ExpiresAt.Before(now)
}

// PermissionUpdate is one entry of an UpdatePermissions batch.
type PermissionUpdate struct {
	PermissionId string `json:"permissionId" binding:"required"`
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason"`
}

// PermissionMatrixEntry joins one active permission against a role's grant
// state. IsExplicitlySet distinguishes "never considered" from "explicitly
// denied".
type PermissionMatrixEntry struct {
	PermissionId    string `json:"permissionId"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Module          string `json:"module"`
	Allowed         bool   `json:"allowed"`
	IsExplicitlySet bool   `json:"isExplicitlySet"`
}
