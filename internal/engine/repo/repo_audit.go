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
	"time"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/pkg/ctx"
	"gorm.io/gorm"
)

type IAuditRepository interface {
	InsertAccessAttempt(record *model.AccessAttemptRecord) error
	// InsertPermissionChange writes through tx when given, so the change
	// record commits or rolls back with the mutation it describes.
	InsertPermissionChange(tx *gorm.DB, record *model.PermissionChangeRecord) error

	QueryAccessAttempts(filter model.AccessAttemptFilter) ([]model.AccessAttemptRecord, int64, error)
	QueryPermissionChanges(filter model.ChangeRecordFilter) ([]model.PermissionChangeRecord, int64, error)

	CountChangesByAction(from, to time.Time) (map[model.ChangeAction]int64, error)
	CountDenials(from, to time.Time) (int64, error)
	TopDenialReason(from, to time.Time) (string, int64, error)
	ListChangesByActorRoles(from, to time.Time, roleNames []string) ([]model.PermissionChangeRecord, error)

	CountOrphanedOverrides() (int64, error)
	CountActiveUsersWithoutRole() (int64, error)
	CountOverdueOverrides(now time.Time) (int64, error)
	MarkExpiredOverrides(now time.Time) (int64, error)
}

type AuditRepo struct {
	Ctx *ctx.Context
}

func NewAuditRepo(ctx *ctx.Context) IAuditRepository {
	return &AuditRepo{Ctx: ctx}
}

func (r *AuditRepo) InsertAccessAttempt(record *model.AccessAttemptRecord) error {
	return r.Ctx.DB.Create(record).Error
}

func (r *AuditRepo) InsertPermissionChange(tx *gorm.DB, record *model.PermissionChangeRecord) error {
	db := tx
	if db == nil {
		db = r.Ctx.DB
	}
	return db.Create(record).Error
}

func (r *AuditRepo) QueryAccessAttempts(filter model.AccessAttemptFilter) ([]model.AccessAttemptRecord, int64, error) {
	q := r.Ctx.DB.Model(&model.AccessAttemptRecord{})
	if filter.UserId != "" {
		q = q.Where("user_id = ?", filter.UserId)
	}
	if filter.PermissionCode != "" {
		q = q.Where("permission_code = ?", filter.PermissionCode)
	}
	if filter.Granted != nil {
		q = q.Where("granted = ?", *filter.Granted)
	}
	if filter.Method != "" {
		q = q.Where("method = ?", filter.Method)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var records []model.AccessAttemptRecord
	pageNum, pageSize := normalizePage(filter.PageNum, filter.PageSize)
	err := q.Offset((pageNum - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error
	return records, count, err
}

func (r *AuditRepo) QueryPermissionChanges(filter model.ChangeRecordFilter) ([]model.PermissionChangeRecord, int64, error) {
	q := r.Ctx.DB.Model(&model.PermissionChangeRecord{})
	if filter.ActorId != "" {
		q = q.Where("actor_id = ?", filter.ActorId)
	}
	if filter.RoleId != "" {
		q = q.Where("role_id = ?", filter.RoleId)
	}
	if filter.PermissionId != "" {
		q = q.Where("permission_id = ?", filter.PermissionId)
	}
	if filter.TargetUserId != "" {
		q = q.Where("target_user_id = ?", filter.TargetUserId)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var records []model.PermissionChangeRecord
	pageNum, pageSize := normalizePage(filter.PageNum, filter.PageSize)
	err := q.Offset((pageNum - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").
		Find(&records).Error
	return records, count, err
}

func (r *AuditRepo) CountChangesByAction(from, to time.Time) (map[model.ChangeAction]int64, error) {
	type row struct {
		Action model.ChangeAction
		Total  int64
	}
	var rows []row
	err := r.Ctx.DB.Model(&model.PermissionChangeRecord{}).
		Select("action, COUNT(*) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.ChangeAction]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Action] = rw.Total
	}
	return counts, nil
}

func (r *AuditRepo) CountDenials(from, to time.Time) (int64, error) {
	var count int64
	err := r.Ctx.DB.Model(&model.AccessAttemptRecord{}).
		Where("granted = ? AND created_at >= ? AND created_at < ?", false, from, to).
		Count(&count).Error
	return count, err
}

// TopDenialReason returns the most common denial reason in the period and
// its occurrence count. An empty reason means there were no denials.
func (r *AuditRepo) TopDenialReason(from, to time.Time) (string, int64, error) {
	type row struct {
		Reason string
		Total  int64
	}
	var rw row
	err := r.Ctx.DB.Model(&model.AccessAttemptRecord{}).
		Select("reason, COUNT(*) AS total").
		Where("granted = ? AND created_at >= ? AND created_at < ?", false, from, to).
		Group("reason").
		Order("total DESC").
		Limit(1).
		Scan(&rw).Error
	if err != nil {
		return "", 0, err
	}
	return rw.Reason, rw.Total, nil
}

// ListChangesByActorRoles returns change records whose actor currently holds
// one of the given roles.
func (r *AuditRepo) ListChangesByActorRoles(from, to time.Time, roleNames []string) ([]model.PermissionChangeRecord, error) {
	if len(roleNames) == 0 {
		return []model.PermissionChangeRecord{}, nil
	}
	var records []model.PermissionChangeRecord
	err := r.Ctx.DB.Table("t_permission_change_record c").
		Select("c.*").
		Joins("JOIN t_user u ON c.actor_id = u.user_id").
		Joins("JOIN t_role r ON u.role_id = r.role_id").
		Where("r.name IN ? AND c.created_at >= ? AND c.created_at < ?", roleNames, from, to).
		Order("c.created_at DESC").
		Find(&records).Error
	return records, err
}

// CountOrphanedOverrides counts ACTIVE override rows referencing a missing
// user or permission.
func (r *AuditRepo) CountOrphanedOverrides() (int64, error) {
	var count int64
	err := r.Ctx.DB.Table("t_user_permission_override o").
		Joins("LEFT JOIN t_user u ON o.user_id = u.user_id").
		Joins("LEFT JOIN t_permission p ON o.permission_id = p.permission_id").
		Where("o.status = ? AND (u.id IS NULL OR p.id IS NULL)", model.OverrideActive).
		Count(&count).Error
	return count, err
}

// CountActiveUsersWithoutRole counts enabled users whose role_id does not
// resolve to an existing role.
func (r *AuditRepo) CountActiveUsersWithoutRole() (int64, error) {
	var count int64
	err := r.Ctx.DB.Table("t_user u").
		Joins("LEFT JOIN t_role r ON u.role_id = r.role_id").
		Where("u.is_enabled = ? AND r.id IS NULL", model.UserEnabled).
		Count(&count).Error
	return count, err
}

// CountOverdueOverrides counts overrides past expiry but still ACTIVE.
func (r *AuditRepo) CountOverdueOverrides(now time.Time) (int64, error) {
	var count int64
	err := r.Ctx.DB.Model(&model.UserPermissionOverride{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.OverrideActive, now).
		Count(&count).Error
	return count, err
}

// MarkExpiredOverrides flips overdue ACTIVE overrides to EXPIRED and returns
// the number of rows changed.
func (r *AuditRepo) MarkExpiredOverrides(now time.Time) (int64, error) {
	res := r.Ctx.DB.Model(&model.UserPermissionOverride{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.OverrideActive, now).
		Update("status", model.OverrideExpired)
	return res.RowsAffected, res.Error
}

func normalizePage(pageNum, pageSize int) (int, int) {
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}
	return pageNum, pageSize
}
