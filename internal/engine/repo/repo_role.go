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

// IRoleRepository reads roles. Mutations run through the admin service's
// transactions so the change record commits with the row it describes.
type IRoleRepository interface {
	GetByRoleId(roleId string) (*model.Role, error)
	GetByName(name string) (*model.Role, error)
	ListRoles(pageNum, pageSize int) ([]model.Role, int64, error)
}

type RoleRepo struct {
	Ctx *ctx.Context
}

func NewRoleRepo(ctx *ctx.Context) IRoleRepository {
	return &RoleRepo{Ctx: ctx}
}

func (r *RoleRepo) GetByRoleId(roleId string) (*model.Role, error) {
	var role model.Role
	err := r.Ctx.DB.Where("role_id = ?", roleId).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName matches the role name exactly, case sensitive.
func (r *RoleRepo) GetByName(name string) (*model.Role, error) {
	var role model.Role
	err := r.Ctx.DB.Where("name = BINARY ?", name).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepo) ListRoles(pageNum, pageSize int) ([]model.Role, int64, error) {
	var roles []model.Role
	var count int64
	offset := (pageNum - 1) * pageSize

	if err := r.Ctx.DB.Model(&model.Role{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := r.Ctx.DB.Offset(offset).Limit(pageSize).
		Order("created_at DESC").
		Find(&roles).Error; err != nil {
		return nil, 0, err
	}
	return roles, count, nil
}
