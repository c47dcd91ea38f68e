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

type IPermissionRepository interface {
	GetByPermissionId(permissionId string) (*model.Permission, error)
	GetByCode(code string) (*model.Permission, error)
	ListActive() ([]model.Permission, error)
}

type PermissionRepo struct {
	Ctx *ctx.Context
}

func NewPermissionRepo(ctx *ctx.Context) IPermissionRepository {
	return &PermissionRepo{Ctx: ctx}
}

func (r *PermissionRepo) GetByPermissionId(permissionId string) (*model.Permission, error) {
	var permission model.Permission
	err := r.Ctx.DB.Where("permission_id = ?", permissionId).First(&permission).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *PermissionRepo) GetByCode(code string) (*model.Permission, error) {
	var permission model.Permission
	err := r.Ctx.DB.Where("code = ?", code).First(&permission).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// ListActive returns every active permission, ordered for the matrix view.
func (r *PermissionRepo) ListActive() ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.Ctx.DB.Where("status = ?", model.PermissionActive).
		Order("module ASC, code ASC").
		Find(&permissions).Error
	return permissions, err
}
