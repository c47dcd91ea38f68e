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

package repo

import (
	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/pkg/ctx"
)

type IRolePermissionRepository interface {
	// GetActiveGrantByCode returns the ACTIVE grant row for (role, permission
	// code), or gorm.ErrRecordNotFound.
	GetActiveGrantByCode(roleId, permissionCode string) (*model.RolePermission, error)
	// ListActiveByRole returns every ACTIVE grant row of the role.
	ListActiveByRole(roleId string) ([]model.RolePermission, error)
	// ListAllowedCodesByRole returns the codes of active permissions the role
	// is granted (allowed=true, grant ACTIVE).
	ListAllowedCodesByRole(roleId string) ([]string, error)
}

type RolePermissionRepo struct {
	Ctx *ctx.Context
}

func NewRolePermissionRepo(ctx *ctx.Context) IRolePermissionRepository {
	return &RolePermissionRepo{Ctx: ctx}
}

func (r *RolePermissionRepo) GetActiveGrantByCode(roleId, permissionCode string) (*model.RolePermission, error) {
	var grant model.RolePermission
	err := r.Ctx.DB.Table("t_role_permission rp").
		Select("rp.*").
		Joins("JOIN t_permission p ON rp.permission_id = p.permission_id").
		Where("rp.role_id = ? AND rp.status = ? AND p.code = ? AND p.status = ?",
			roleId, model.GrantActive, permissionCode, model.PermissionActive).
		First(&grant).Error
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (r *RolePermissionRepo) ListActiveByRole(roleId string) ([]model.RolePermission, error) {
	var grants []model.RolePermission
	err := r.Ctx.DB.Where("role_id = ? AND status = ?", roleId, model.GrantActive).
		Find(&grants).Error
	return grants, err
}

func (r *RolePermissionRepo) ListAllowedCodesByRole(roleId string) ([]string, error) {
	var codes []string
	err := r.Ctx.DB.Table("t_role_permission rp").
		Joins("JOIN t_permission p ON rp.permission_id = p.permission_id").
		Where("rp.role_id = ? AND rp.status = ? AND rp.allowed = ? AND p.status = ?",
			roleId, model.GrantActive, true, model.PermissionActive).
		Order("p.code ASC").
		Pluck("p.code", &codes).Error
	return codes, err
}
