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

// OverrideDetail joins an override row with its permission code.
type OverrideDetail struct {
	model.UserPermissionOverride
	PermissionCode string `gorm:"column:permission_code" json:"permissionCode"`
}

type IOverrideRepository interface {
	// GetActiveByCode returns the ACTIVE override row for (user, permission
	// code), or gorm.ErrRecordNotFound. Expiry is evaluated by the caller.
	GetActiveByCode(userId, permissionCode string) (*model.UserPermissionOverride, error)
	// ListActiveByUser returns the user's ACTIVE override rows with codes.
	ListActiveByUser(userId string) ([]OverrideDetail, error)
}

type OverrideRepo struct {
	Ctx *ctx.Context
}

func NewOverrideRepo(ctx *ctx.Context) IOverrideRepository {
	return &OverrideRepo{Ctx: ctx}
}

func (r *OverrideRepo) GetActiveByCode(userId, permissionCode string) (*model.UserPermissionOverride, error) {
	var override model.UserPermissionOverride
	err := r.Ctx.DB.Table("t_user_permission_override o").
		Select("o.*").
		Joins("JOIN t_permission p ON o.permission_id = p.permission_id").
		Where("o.user_id = ? AND o.status = ? AND p.code = ?",
			userId, model.OverrideActive, permissionCode).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *OverrideRepo) ListActiveByUser(userId string) ([]OverrideDetail, error) {
	var details []OverrideDetail
	err := r.Ctx.DB.Table("t_user_permission_override o").
		Select("o.*, p.code AS permission_code").
		Joins("JOIN t_permission p ON o.permission_id = p.permission_id").
		Where("o.user_id = ? AND o.status = ?", userId, model.OverrideActive).
		Order("p.code ASC").
		Find(&details).Error
	return details, err
}
