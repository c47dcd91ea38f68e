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

type IUserRepository interface {
	GetByUserId(userId string) (*model.User, error)
	CountActiveByRole(roleId string) (int64, error)
}

type UserRepo struct {
	Ctx *ctx.Context
}

func NewUserRepo(ctx *ctx.Context) IUserRepository {
	return &UserRepo{Ctx: ctx}
}

// GetByUserId returns the user regardless of enabled state; callers decide
// how an inactive user is treated.
func (r *UserRepo) GetByUserId(userId string) (*model.User, error) {
	var user model.User
	err := r.Ctx.DB.Where("user_id = ?", userId).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CountActiveByRole counts enabled users currently holding the role.
func (r *UserRepo) CountActiveByRole(roleId string) (int64, error) {
	var count int64
	err := r.Ctx.DB.Model(&model.User{}).
		Where("role_id = ? AND is_enabled = ?", roleId, model.UserEnabled).
		Count(&count).Error
	return count, err
}
