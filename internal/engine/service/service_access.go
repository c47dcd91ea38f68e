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
	"fmt"
	"strconv"
	"time"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"github.com/assetdesk/assetdesk/pkg/cache"
	"github.com/assetdesk/assetdesk/pkg/id"
	"github.com/assetdesk/assetdesk/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResolveRequest identifies one access check.
type ResolveRequest struct {
	UserId         string  `json:"userId"`
	PermissionCode string  `json:"permissionCode"`
	ResourceId     *string `json:"resourceId,omitempty"`
	ProjectId      *string `json:"projectId,omitempty"`
}

// Decision is a resolution outcome. Denials are values, not errors.
type Decision struct {
	Granted bool                   `json:"granted"`
	Method  model.ResolutionMethod `json:"method"`
	Reason  string                 `json:"reason"`
}

// BulkDecision is the result of resolving several codes in one call.
type BulkDecision struct {
	Results    map[string]Decision `json:"results"`
	AllGranted bool                `json:"allGranted"`
	AnyGranted bool                `json:"anyGranted"`
}

// OverrideSummary describes one active override in a permission summary.
type OverrideSummary struct {
	PermissionCode string     `json:"permissionCode"`
	Allowed        bool       `json:"allowed"`
	Reason         string     `json:"reason"`
	GrantedBy      string     `json:"grantedBy"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// ScopeSummary describes one scope assignment in a permission summary.
type ScopeSummary struct {
	ScopeType   model.ScopeType `json:"scopeType"`
	ProjectId   *string         `json:"projectId,omitempty"`
	ProjectName string          `json:"projectName,omitempty"`
}

// PermissionSummary is the full effective-permission view of one user.
type PermissionSummary struct {
	UserId     string            `json:"userId"`
	RoleId     string            `json:"roleId"`
	RoleName   string            `json:"roleName"`
	RoleGrants []string          `json:"roleGrants"`
	Overrides  []OverrideSummary `json:"overrides"`
	Scopes     []ScopeSummary    `json:"scopes"`
}

// AccessAuditor records access attempts. Implementations must never return;
// audit failures on the hot path are logged and swallowed.
type AccessAuditor interface {
	LogAccessAttempt(ctx context.Context, record *model.AccessAttemptRecord)
}

// AccessService is the permission resolution engine. Decisions follow a
// strict precedence: cache, user validity, user override, role permission,
// resource liveness, default deny. Any failure inside resolution converts to
// a DefaultDeny decision; this boundary never throws.
type AccessService struct {
	users     repo.IUserRepository
	roles     repo.IRoleRepository
	grants    repo.IRolePermissionRepository
	overrides repo.IOverrideRepository
	scopes    repo.IScopeRepository
	projects  repo.IProjectRepository
	assets    repo.IAssetRepository
	audit     AccessAuditor
	cache     *cache.DecisionCache
	log       *zap.SugaredLogger
}

func NewAccessService(
	users repo.IUserRepository,
	roles repo.IRoleRepository,
	grants repo.IRolePermissionRepository,
	overrides repo.IOverrideRepository,
	scopes repo.IScopeRepository,
	projects repo.IProjectRepository,
	assets repo.IAssetRepository,
	audit AccessAuditor,
	decisionCache *cache.DecisionCache,
	log *zap.SugaredLogger,
) *AccessService {
	return &AccessService{
		users:     users,
		roles:     roles,
		grants:    grants,
		overrides: overrides,
		scopes:    scopes,
		projects:  projects,
		assets:    assets,
		audit:     audit,
		cache:     decisionCache,
		log:       log,
	}
}

// Resolve decides whether the user may perform the permission, optionally
// against a resource and project. Cache hits short-circuit without writing
// an audit record; every resolved decision is audited, and only grants
// populate the cache (denials are never cached).
func (s *AccessService) Resolve(ctx context.Context, req ResolveRequest) Decision {
	key := decisionKey(req)

	var cached Decision
	if s.cache.Get(key, &cached) {
		metrics.DecisionCacheHits.Inc()
		return cached
	}

	dec := s.resolveFailClosed(ctx, req)
	metrics.AccessDecisions.WithLabelValues(string(dec.Method), strconv.FormatBool(dec.Granted)).Inc()

	if dec.Granted {
		s.cache.Set(key, dec)
	}

	resourceId := req.ResourceId
	projectId := req.ProjectId
	s.audit.LogAccessAttempt(ctx, &model.AccessAttemptRecord{
		RecordId:       id.GetULID(),
		UserId:         req.UserId,
		PermissionCode: req.PermissionCode,
		ResourceId:     resourceId,
		ProjectId:      projectId,
		Granted:        dec.Granted,
		Method:         dec.Method,
		Reason:         dec.Reason,
	})

	return dec
}

// ResolveMany evaluates each code independently through Resolve.
func (s *AccessService) ResolveMany(ctx context.Context, userId string, codes []string, resourceId, projectId *string) BulkDecision {
	bulk := BulkDecision{
		Results:    make(map[string]Decision, len(codes)),
		AllGranted: true,
	}
	for _, code := range codes {
		dec := s.Resolve(ctx, ResolveRequest{
			UserId:         userId,
			PermissionCode: code,
			ResourceId:     resourceId,
			ProjectId:      projectId,
		})
		bulk.Results[code] = dec
		if dec.Granted {
			bulk.AnyGranted = true
		} else {
			bulk.AllGranted = false
		}
	}
	return bulk
}

// Summarize returns the user's role grants, active overrides and scope
// assignments. It fails with ErrNotFound when the user or its role cannot be
// resolved.
func (s *AccessService) Summarize(ctx context.Context, userId string) (*PermissionSummary, error) {
	user, err := s.users.GetByUserId(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("user %s", userId)
		}
		return nil, err
	}

	role, err := s.roles.GetByRoleId(user.RoleId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("role %s of user %s", user.RoleId, userId)
		}
		return nil, err
	}

	grants, err := s.grants.ListAllowedCodesByRole(role.RoleId)
	if err != nil {
		return nil, err
	}

	overrideRows, err := s.overrides.ListActiveByUser(userId)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	overrides := make([]OverrideSummary, 0, len(overrideRows))
	for _, row := range overrideRows {
		if row.Expired(now) {
			continue
		}
		overrides = append(overrides, OverrideSummary{
			PermissionCode: row.PermissionCode,
			Allowed:        row.Allowed,
			Reason:         row.Reason,
			GrantedBy:      row.GrantedBy,
			ExpiresAt:      row.ExpiresAt,
		})
	}

	scopeRows, err := s.scopes.ListByUser(userId)
	if err != nil {
		return nil, err
	}
	scopes := make([]ScopeSummary, 0, len(scopeRows))
	for _, row := range scopeRows {
		summary := ScopeSummary{ScopeType: row.ScopeType, ProjectId: row.ProjectId}
		if row.ProjectId != nil {
			if project, err := s.projects.GetByProjectId(*row.ProjectId); err == nil {
				summary.ProjectName = project.Name
			}
		}
		scopes = append(scopes, summary)
	}

	return &PermissionSummary{
		UserId:     userId,
		RoleId:     role.RoleId,
		RoleName:   role.Name,
		RoleGrants: grants,
		Overrides:  overrides,
		Scopes:     scopes,
	}, nil
}

// resolveFailClosed runs the precedence chain and converts every failure,
// panic included, into a DefaultDeny decision.
func (s *AccessService) resolveFailClosed(ctx context.Context, req ResolveRequest) (dec Decision) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("panic during permission resolution",
				"userId", req.UserId, "permission", req.PermissionCode, "panic", r)
			dec = deny(model.MethodDefaultDeny, "resolution failure")
		}
	}()

	dec, err := s.evaluate(ctx, req)
	if err != nil {
		s.log.Errorw("permission resolution failed closed",
			"userId", req.UserId, "permission", req.PermissionCode, "error", err)
		return deny(model.MethodDefaultDeny, "resolution failure")
	}
	return dec
}

func (s *AccessService) evaluate(ctx context.Context, req ResolveRequest) (Decision, error) {
	user, err := s.users.GetByUserId(req.UserId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deny(model.MethodUserInactive, "user not found"), nil
		}
		return Decision{}, err
	}
	if !user.Active() {
		return deny(model.MethodUserInactive, "user is disabled"), nil
	}

	override, err := s.overrides.GetActiveByCode(req.UserId, req.PermissionCode)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return Decision{}, err
	}
	if override != nil && !override.Expired(time.Now()) {
		// An explicit denial wins over everything and skips the scope check.
		if !override.Allowed {
			return deny(model.MethodUserOverride, "explicitly denied by override"), nil
		}
		ok, reason, err := s.scopeAllows(req.UserId, req.ProjectId)
		if err != nil {
			return Decision{}, err
		}
		if !ok {
			return deny(model.MethodScopeViolation, reason), nil
		}
		return grant(model.MethodUserOverride, "granted by user override"), nil
	}

	if user.RoleId != "" {
		role, err := s.roles.GetByRoleId(user.RoleId)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, err
		}
		if role != nil && role.Status == model.RoleActive {
			grantRow, err := s.grants.GetActiveGrantByCode(role.RoleId, req.PermissionCode)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return Decision{}, err
			}
			if grantRow != nil && grantRow.Allowed {
				ok, reason, err := s.scopeAllows(req.UserId, req.ProjectId)
				if err != nil {
					return Decision{}, err
				}
				if !ok {
					return deny(model.MethodScopeViolation, reason), nil
				}
				return grant(model.MethodRolePermission, fmt.Sprintf("granted by role %s", role.Name)), nil
			}
		}
	}

	if req.ResourceId != nil {
		status, err := s.assets.GetStatus(*req.ResourceId)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return deny(model.MethodResourceInactive, "resource not found"), nil
			}
			return Decision{}, err
		}
		if status != model.AssetActive {
			return deny(model.MethodResourceInactive, fmt.Sprintf("resource is %s", status)), nil
		}
	}

	return deny(model.MethodDefaultDeny, "no grant found"), nil
}

// scopeAllows applies the scope sub-rule: any GLOBAL row passes; PROJECT
// rows pass only for an exactly matching supplied project. A user with no
// scope rows is unconfined.
func (s *AccessService) scopeAllows(userId string, projectId *string) (bool, string, error) {
	scopeRows, err := s.scopes.ListByUser(userId)
	if err != nil {
		return false, "", err
	}
	if len(scopeRows) == 0 {
		return true, "", nil
	}
	for _, row := range scopeRows {
		if row.ScopeType == model.ScopeGlobal {
			return true, "", nil
		}
	}
	if projectId == nil {
		return false, "project-specific user accessing global resource", nil
	}
	for _, row := range scopeRows {
		if row.ScopeType == model.ScopeProject && row.ProjectId != nil && *row.ProjectId == *projectId {
			return true, "", nil
		}
	}
	return false, fmt.Sprintf("project %s not in user scope", *projectId), nil
}

func decisionKey(req ResolveRequest) string {
	projectId := ""
	if req.ProjectId != nil {
		projectId = *req.ProjectId
	}
	return fmt.Sprintf("%s:%s:%s", req.UserId, req.PermissionCode, projectId)
}

func deny(method model.ResolutionMethod, reason string) Decision {
	return Decision{Granted: false, Method: method, Reason: reason}
}

func grant(method model.ResolutionMethod, reason string) Decision {
	return Decision{Granted: true, Method: method, Reason: reason}
}
