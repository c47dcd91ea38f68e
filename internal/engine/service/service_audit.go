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
	"time"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ComplianceReport aggregates audit activity over a period.
type ComplianceReport struct {
	From              time.Time                      `json:"from"`
	To                time.Time                      `json:"to"`
	ChangesByAction   map[model.ChangeAction]int64   `json:"changesByAction"`
	TotalDenials      int64                          `json:"totalDenials"`
	TopDenialReason   string                         `json:"topDenialReason"`
	TopDenialCount    int64                          `json:"topDenialCount"`
	AdminActions      []model.PermissionChangeRecord `json:"adminActions"`
	IntegrityFindings IntegrityFindings              `json:"integrityFindings"`
}

// IntegrityFindings reports data inconsistencies worth operator attention.
type IntegrityFindings struct {
	OrphanedOverrides      int64 `json:"orphanedOverrides"`
	ActiveUsersWithoutRole int64 `json:"activeUsersWithoutRole"`
	OverdueOverrides       int64 `json:"overdueOverrides"`
}

// Healthy reports whether the scan found nothing.
func (f IntegrityFindings) Healthy() bool {
	return f.OrphanedOverrides == 0 && f.ActiveUsersWithoutRole == 0 && f.OverdueOverrides == 0
}

// AuditService owns both audit streams. Access logging is best effort and
// never fails the caller; change logging participates in the caller's
// transaction and propagates its error so the mutation rolls back with it.
type AuditService struct {
	audit repo.IAuditRepository
	log   *zap.SugaredLogger
}

func NewAuditService(audit repo.IAuditRepository, log *zap.SugaredLogger) *AuditService {
	return &AuditService{audit: audit, log: log}
}

var _ AccessAuditor = (*AuditService)(nil)
var _ ChangeAuditor = (*AuditService)(nil)

// LogAccessAttempt records one resolution decision. Failures are logged and
// swallowed; an unavailable audit store must not block access decisions.
func (s *AuditService) LogAccessAttempt(ctx context.Context, record *model.AccessAttemptRecord) {
	if err := s.audit.InsertAccessAttempt(record); err != nil {
		s.log.Errorw("failed to record access attempt",
			"userId", record.UserId, "permission", record.PermissionCode, "error", err)
	}
}

// LogPermissionChange records one administrative mutation through tx.
func (s *AuditService) LogPermissionChange(tx *gorm.DB, record *model.PermissionChangeRecord) error {
	return s.audit.InsertPermissionChange(tx, record)
}

// QueryAccessAttempts pages through the access stream, newest first.
func (s *AuditService) QueryAccessAttempts(ctx context.Context, filter model.AccessAttemptFilter) ([]model.AccessAttemptRecord, int64, error) {
	return s.audit.QueryAccessAttempts(filter)
}

// QueryPermissionChanges pages through the change stream, newest first.
func (s *AuditService) QueryPermissionChanges(ctx context.Context, filter model.ChangeRecordFilter) ([]model.PermissionChangeRecord, int64, error) {
	return s.audit.QueryPermissionChanges(filter)
}

// GenerateComplianceReport summarizes the period: change counts by action,
// denial statistics, every mutation by privileged actors, and integrity
// findings as of now.
func (s *AuditService) GenerateComplianceReport(ctx context.Context, from, to time.Time) (*ComplianceReport, error) {
	changes, err := s.audit.CountChangesByAction(from, to)
	if err != nil {
		return nil, err
	}
	denials, err := s.audit.CountDenials(from, to)
	if err != nil {
		return nil, err
	}
	reason, reasonCount, err := s.audit.TopDenialReason(from, to)
	if err != nil {
		return nil, err
	}
	adminActions, err := s.audit.ListChangesByActorRoles(from, to, []string{model.SuperAdminRoleName})
	if err != nil {
		return nil, err
	}
	findings, err := s.ScanIntegrity(ctx)
	if err != nil {
		return nil, err
	}

	return &ComplianceReport{
		From:              from,
		To:                to,
		ChangesByAction:   changes,
		TotalDenials:      denials,
		TopDenialReason:   reason,
		TopDenialCount:    reasonCount,
		AdminActions:      adminActions,
		IntegrityFindings: *findings,
	}, nil
}

// ScanIntegrity checks referential consistency across the permission tables.
func (s *AuditService) ScanIntegrity(ctx context.Context) (*IntegrityFindings, error) {
	orphaned, err := s.audit.CountOrphanedOverrides()
	if err != nil {
		return nil, err
	}
	roleless, err := s.audit.CountActiveUsersWithoutRole()
	if err != nil {
		return nil, err
	}
	overdue, err := s.audit.CountOverdueOverrides(time.Now())
	if err != nil {
		return nil, err
	}
	findings := &IntegrityFindings{
		OrphanedOverrides:      orphaned,
		ActiveUsersWithoutRole: roleless,
		OverdueOverrides:       overdue,
	}
	if !findings.Healthy() {
		s.log.Warnw("integrity scan found inconsistencies",
			"orphanedOverrides", orphaned,
			"activeUsersWithoutRole", roleless,
			"overdueOverrides", overdue)
	}
	return findings, nil
}

// SweepExpiredOverrides flips overdue ACTIVE overrides to EXPIRED. Run on a
// schedule; resolution already treats overdue overrides as absent, so the
// sweep is bookkeeping, not correctness.
func (s *AuditService) SweepExpiredOverrides(ctx context.Context) (int64, error) {
	swept, err := s.audit.MarkExpiredOverrides(time.Now())
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.log.Infow("expired overrides swept", "count", swept)
	}
	return swept, nil
}
