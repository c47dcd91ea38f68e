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

import "time"

// Role is the single role entity. System roles are immutable and cannot be
// deactivated.
type Role struct {
	BaseModel
	RoleId        string     `gorm:"column:role_id;not null;uniqueIndex" json:"roleId"`
	Name          string     `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description   string     `gorm:"column:description" json:"description"`
	IsSystemRole  bool       `gorm:"column:is_system_role;not null;default:0" json:"isSystemRole"`
	Status        RoleStatus `gorm:"column:status;not null;default:ACTIVE" json:"status"`
	CreatedBy     string     `gorm:"column:created_by" json:"createdBy"`
	DeactivatedBy *string    `gorm:"column:deactivated_by" json:"deactivatedBy,omitempty"`
	DeactivatedAt *time.Time `gorm:"column:deactivated_at" json:"deactivatedAt,omitempty"`
}

func (Role) TableName() string {
	return "t_role"
}

// CreateRoleReq is the request body for creating a role.
type CreateRoleReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateRoleReq is the request body for updating a role.
type UpdateRoleReq struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
