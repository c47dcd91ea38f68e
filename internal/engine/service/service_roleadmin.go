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

package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"github.com/assetdesk/assetdesk/pkg/cache"
	ctxpkg "github.com/assetdesk/assetdesk/pkg/ctx"
	"github.com/assetdesk/assetdesk/pkg/id"
	"github.com/assetdesk/assetdesk/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChangeAuditor records administrative mutations inside the caller's
// transaction. Unlike access logging, a failure here aborts the mutation.
type ChangeAuditor interface {
	LogPermissionChange(tx *gorm.DB, record *model.PermissionChangeRecord) error
}

// RoleAdminService mutates roles and their permission grants. Every mutation
// writes its change record through the same transaction as the mutation
// itself, so state and audit trail never diverge, and bumps the decision
// cache generation after commit.
type RoleAdminService struct {
	ctx         *ctxpkg.Context
	roles       repo.IRoleRepository
	permissions repo.IPermissionRepository
	grants      repo.IRolePermissionRepository
	users       repo.IUserRepository
	audit       ChangeAuditor
	cache       *cache.DecisionCache
	log         *zap.SugaredLogger
}

func NewRoleAdminService(
	appCtx *ctxpkg.Context,
	roles repo.IRoleRepository,
	permissions repo.IPermissionRepository,
	grants repo.IRolePermissionRepository,
	users repo.IUserRepository,
	audit ChangeAuditor,
	decisionCache *cache.DecisionCache,
	log *zap.SugaredLogger,
) *RoleAdminService {
	return &RoleAdminService{
		ctx:         appCtx,
		roles:       roles,
		permissions: permissions,
		grants:      grants,
		users:       users,
		audit:       audit,
		cache:       decisionCache,
		log:         log,
	}
}

// CreateRole creates an ACTIVE custom role. Names are unique, matched case
// sensitively.
func (s *RoleAdminService) CreateRole(ctx context.Context, actorId string, req model.CreateRoleReq) (*model.Role, error) {
	if req.Name == "" {
		return nil, invalidOpf("role name is required")
	}
	existing, err := s.roles.GetByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, invalidOpf("role name %s already exists", req.Name)
	}

	role := &model.Role{
		RoleId:      id.GetUUID(),
		Name:        req.Name,
		Description: req.Description,
		Status:      model.RoleActive,
		CreatedBy:   actorId,
	}
	err = s.ctx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return s.audit.LogPermissionChange(tx, &model.PermissionChangeRecord{
			RecordId: id.GetULID(),
			ActorId:  actorId,
			RoleId:   &role.RoleId,
			Action:   model.ActionRoleCreate,
			NewValue: role.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.PermissionChanges.WithLabelValues(string(model.ActionRoleCreate)).Inc()
	s.cache.Bump()
	return role, nil
}

// UpdateRole renames or re-describes a role. System roles are immutable.
func (s *RoleAdminService) UpdateRole(ctx context.Context, actorId, roleId string, req model.UpdateRoleReq) (*model.Role, error) {
	role, err := s.roles.GetByRoleId(roleId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("role %s", roleId)
		}
		return nil, err
	}
	if role.IsSystemRole {
		return nil, invalidOpf("role %s is a system role", role.Name)
	}

	updates := map[string]any{}
	oldName := role.Name
	if req.Name != nil && *req.Name != role.Name {
		other, err := s.roles.GetByName(*req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if other != nil {
			return nil, invalidOpf("role name %s already exists", *req.Name)
		}
		updates["name"] = *req.Name
		role.Name = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		role.Description = *req.Description
	}
	if len(updates) == 0 {
		return role, nil
	}

	err = s.ctx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Role{}).Where("role_id = ?", roleId).Updates(updates).Error
		if err != nil {
			return err
		}
		return s.audit.LogPermissionChange(tx, &model.PermissionChangeRecord{
			RecordId: id.GetULID(),
			ActorId:  actorId,
			RoleId:   &role.RoleId,
			Action:   model.ActionRoleUpdate,
			OldValue: oldName,
			NewValue: role.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.PermissionChanges.WithLabelValues(string(model.ActionRoleUpdate)).Inc()
	s.cache.Bump()
	return role, nil
}

// DeactivateRole flips a role to INACTIVE. Refused for system roles and for
// roles still held by enabled users. Deactivation changes live decisions, so
// the cache generation is bumped.
func (s *RoleAdminService) DeactivateRole(ctx context.Context, actorId, roleId string) error {
	role, err := s.roles.GetByRoleId(roleId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("role %s", roleId)
		}
		return err
	}
	if role.IsSystemRole {
		return invalidOpf("role %s is a system role", role.Name)
	}
	if role.Status == model.RoleInactive {
		return invalidOpf("role %s is already inactive", role.Name)
	}
	active, err := s.users.CountActiveByRole(roleId)
	if err != nil {
		return err
	}
	if active > 0 {
		return invalidOpf("role %s still has %d active users", role.Name, active)
	}

	now := time.Now()
	err = s.ctx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Role{}).Where("role_id = ?", roleId).Updates(map[string]any{
			"status":         model.RoleInactive,
			"deactivated_by": actorId,
			"deactivated_at": now,
		}).Error
		if err != nil {
			return err
		}
		return s.audit.LogPermissionChange(tx, &model.PermissionChangeRecord{
			RecordId: id.GetULID(),
			ActorId:  actorId,
			RoleId:   &role.RoleId,
			Action:   model.ActionRoleDeactivate,
			OldValue: string(model.RoleActive),
			NewValue: string(model.RoleInactive),
		})
	})
	if err != nil {
		return err
	}
	metrics.PermissionChanges.WithLabelValues(string(model.ActionRoleDeactivate)).Inc()
	s.cache.Bump()
	return nil
}

// ReactivateRole flips an INACTIVE role back to ACTIVE.
func (s *RoleAdminService) ReactivateRole(ctx context.Context, actorId, roleId string) error {
	role, err := s.roles.GetByRoleId(roleId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("role %s", roleId)
		}
		return err
	}
	if role.Status == model.RoleActive {
		return invalidOpf("role %s is already active", role.Name)
	}

	err = s.ctx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Role{}).Where("role_id = ?", roleId).Updates(map[string]any{
			"status":         model.RoleActive,
			"deactivated_by": nil,
			"deactivated_at": nil,
		}).Error
		if err != nil {
			return err
		}
		return s.audit.LogPermissionChange(tx, &model.PermissionChangeRecord{
			RecordId: id.GetULID(),
			ActorId:  actorId,
			RoleId:   &role.RoleId,
			Action:   model.ActionRoleReactivate,
			OldValue: string(model.RoleInactive),
			NewValue: string(model.RoleActive),
		})
	})
	if err != nil {
		return err
	}
	metrics.PermissionChanges.WithLabelValues(string(model.ActionRoleReactivate)).Inc()
	s.cache.Bump()
	return nil
}

// ListRoles pages through all roles, newest first.
func (s *RoleAdminService) ListRoles(ctx context.Context, pageNum, pageSize int) ([]model.Role, int64, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}
	return s.roles.ListRoles(pageNum, pageSize)
}

// GetRole returns one role by id.
func (s *RoleAdminService) GetRole(ctx context.Context, roleId string) (*model.Role, error) {
	role, err := s.roles.GetByRoleId(roleId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("role %s", roleId)
		}
		return nil, err
	}
	return role, nil
}

// GetPermissionMatrix returns every active permission crossed with the
// role's grant state. Entries without an active grant row report
// IsExplicitlySet=false, distinguishing them from explicit denials.
func (s *RoleAdminService) GetPermissionMatrix(ctx context.Context, roleId string) ([]model.PermissionMatrixEntry, error) {
	if _, err := s.GetRole(ctx, roleId); err != nil {
		return nil, err
	}
	permissions, err := s.permissions.ListActive()
	if err != nil {
		return nil, err
	}
	grants, err := s.grants.ListActiveByRole(roleId)
	if err != nil {
		return nil, err
	}
	byPermission := make(map[string]model.RolePermission, len(grants))
	for _, grantRow := range grants {
		byPermission[grantRow.PermissionId] = grantRow
	}

	matrix := make([]model.PermissionMatrixEntry, 0, len(permissions))
	for _, permission := range permissions {
		entry := model.PermissionMatrixEntry{
			PermissionId: permission.PermissionId,
			Code:         permission.Code,
			Name:         permission.Name,
			Module:       permission.Module,
		}
		if grantRow, ok := byPermission[permission.PermissionId]; ok {
			entry.Allowed = grantRow.Allowed
			entry.IsExplicitlySet = true
		}
		matrix = append(matrix, entry)
	}
	return matrix, nil
}

// UpdatePermissions applies a batch of grant changes to one role atomically.
// The role row is locked for the duration so concurrent batches serialize.
// Each update supersedes any ACTIVE row for the pair (flip to REVOKED, then
// insert), keeping at most one ACTIVE row per (role, permission). A no-op
// update (same allowed value) is skipped. Any failure rolls the whole batch
// back, change records included; metrics and the cache generation bump only
// happen once the batch has committed.
func (s *RoleAdminService) UpdatePermissions(ctx context.Context, actorId, roleId string, updates []model.PermissionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	var appliedActions []model.ChangeAction
	err := s.ctx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role model.Role
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("role_id = ?", roleId).
			First(&role).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("role %s", roleId)
			}
			return err
		}
		if role.IsSystemRole {
			return invalidOpf("role %s is a system role", role.Name)
		}

		now := time.Now()
		for _, update := range updates {
			var permission model.Permission
			err := tx.Where("permission_id = ?", update.PermissionId).First(&permission).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFoundf("permission %s", update.PermissionId)
				}
				return err
			}
			if permission.Status != model.PermissionActive {
				return invalidOpf("permission %s is inactive", permission.Code)
			}

			var current model.RolePermission
			err = tx.Where("role_id = ? AND permission_id = ? AND status = ?",
				roleId, update.PermissionId, model.GrantActive).
				First(&current).Error
			hasCurrent := err == nil
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if hasCurrent && current.Allowed == update.Allowed {
				continue
			}

			oldValue := ""
			if hasCurrent {
				oldValue = strconv.FormatBool(current.Allowed)
				err = tx.Model(&model.RolePermission{}).
					Where("id = ?", current.ID).
					Updates(map[string]any{
						"status":     model.GrantRevoked,
						"revoked_by": actorId,
						"revoked_at": now,
					}).Error
				if err != nil {
					return err
				}
			}

			err = tx.Create(&model.RolePermission{
				RoleId:       roleId,
				PermissionId: update.PermissionId,
				Allowed:      update.Allowed,
				Status:       model.GrantActive,
				GrantedBy:    actorId,
				GrantedAt:    now,
			}).Error
			if err != nil {
				return err
			}

			action := model.ActionRevoke
			if update.Allowed {
				action = model.ActionGrant
			}
			permissionId := update.PermissionId
			err = s.audit.LogPermissionChange(tx, &model.PermissionChangeRecord{
				RecordId:     id.GetULID(),
				ActorId:      actorId,
				RoleId:       &role.RoleId,
				PermissionId: &permissionId,
				Action:       action,
				OldValue:     oldValue,
				NewValue:     strconv.FormatBool(update.Allowed),
				Reason:       update.Reason,
			})
			if err != nil {
				return err
			}
			appliedActions = append(appliedActions, action)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, action := range appliedActions {
		metrics.PermissionChanges.WithLabelValues(string(action)).Inc()
	}
	if len(appliedActions) > 0 {
		s.cache.Bump()
		s.log.Infow("role permissions updated",
			"roleId", roleId, "actorId", actorId, "applied", len(appliedActions))
	}
	return nil
}
