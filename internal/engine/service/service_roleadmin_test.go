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
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"github.com/assetdesk/assetdesk/pkg/cache"
	ctxpkg "github.com/assetdesk/assetdesk/pkg/ctx"
	"github.com/assetdesk/assetdesk/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type fakeChangeAuditor struct {
	records []*model.PermissionChangeRecord
	err     error
}

func (f *fakeChangeAuditor) LogPermissionChange(tx *gorm.DB, record *model.PermissionChangeRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

// adminFixture backs role rule tests: reads go through fakes, writes through
// a sqlmock connection so transactions are observable.
type adminFixture struct {
	users   *fakeUsers
	roles   *fakeRoles
	grants  *fakeGrants
	auditor *fakeChangeAuditor
	cache   *cache.DecisionCache
	mock    sqlmock.Sqlmock
	svc     *RoleAdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	f := &adminFixture{
		users: &fakeUsers{users: map[string]*model.User{}},
		roles: &fakeRoles{roles: map[string]*model.Role{
			"r1":       {RoleId: "r1", Name: "Auditor", Status: model.RoleActive},
			"r-system": {RoleId: "r-system", Name: model.SuperAdminRoleName, Status: model.RoleActive, IsSystemRole: true},
			"r-off":    {RoleId: "r-off", Name: "Retired", Status: model.RoleInactive},
		}},
		grants:  &fakeGrants{grants: map[string]map[string]*model.RolePermission{}},
		auditor: &fakeChangeAuditor{},
		cache:   cache.NewDecisionCache(cache.DecisionCacheConfig{}),
		mock:    mock,
	}
	appCtx := &ctxpkg.Context{DB: gdb, Ctx: context.Background(), Log: zap.NewNop().Sugar()}
	f.svc = NewRoleAdminService(
		appCtx, f.roles, &fakePermissions{}, f.grants, f.users,
		f.auditor, f.cache, zap.NewNop().Sugar(),
	)
	return f
}

type fakePermissions struct {
	permissions map[string]*model.Permission
}

func (f *fakePermissions) GetByPermissionId(permissionId string) (*model.Permission, error) {
	permission, ok := f.permissions[permissionId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return permission, nil
}

func (f *fakePermissions) GetByCode(code string) (*model.Permission, error) {
	for _, permission := range f.permissions {
		if permission.Code == code {
			return permission, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePermissions) ListActive() ([]model.Permission, error) {
	var active []model.Permission
	for _, permission := range f.permissions {
		if permission.Status == model.PermissionActive {
			active = append(active, *permission)
		}
	}
	return active, nil
}

func TestCreateRole(t *testing.T) {
	f := newAdminFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO `t_role`").WillReturnResult(sqlmock.NewResult(1, 1))
	f.mock.ExpectCommit()

	role, err := f.svc.CreateRole(context.Background(), "admin", model.CreateRoleReq{
		Name: "Technician", Description: "field staff",
	})

	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.NotEmpty(t, role.RoleId)
	assert.Equal(t, model.RoleActive, role.Status)
	assert.Equal(t, "admin", role.CreatedBy)
	require.Len(t, f.auditor.records, 1)
	assert.Equal(t, model.ActionRoleCreate, f.auditor.records[0].Action)
}

func TestCreateRoleAuditFailureRollsBack(t *testing.T) {
	f := newAdminFixture(t)
	f.auditor.err = errors.New("audit store unavailable")
	before := f.cache.Generation()

	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO `t_role`").WillReturnResult(sqlmock.NewResult(1, 1))
	f.mock.ExpectRollback()

	_, err := f.svc.CreateRole(context.Background(), "admin", model.CreateRoleReq{Name: "Technician"})

	require.Error(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet(), "the role insert must roll back with the failed change record")
	assert.Equal(t, before, f.cache.Generation())
}

func TestCreateRoleDuplicateName(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.CreateRole(context.Background(), "admin", model.CreateRoleReq{Name: "Auditor"})

	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Empty(t, f.auditor.records)
}

func TestCreateRoleNameIsCaseSensitive(t *testing.T) {
	f := newAdminFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectExec("INSERT INTO `t_role`").WillReturnResult(sqlmock.NewResult(1, 1))
	f.mock.ExpectCommit()

	// "auditor" and "Auditor" are distinct names.
	role, err := f.svc.CreateRole(context.Background(), "admin", model.CreateRoleReq{Name: "auditor"})

	require.NoError(t, err)
	assert.Equal(t, "auditor", role.Name)
}

func TestUpdateRoleSystemRoleRejected(t *testing.T) {
	f := newAdminFixture(t)
	name := "Renamed"

	_, err := f.svc.UpdateRole(context.Background(), "admin", "r-system", model.UpdateRoleReq{Name: &name})

	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestUpdateRoleNotFound(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.UpdateRole(context.Background(), "admin", "missing", model.UpdateRoleReq{})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRoleRenameCommitsWithAuditRecord(t *testing.T) {
	f := newAdminFixture(t)
	name := "Compliance Auditor"

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE `t_role` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	role, err := f.svc.UpdateRole(context.Background(), "admin", "r1", model.UpdateRoleReq{Name: &name})

	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Equal(t, name, role.Name)
	require.Len(t, f.auditor.records, 1)
	assert.Equal(t, model.ActionRoleUpdate, f.auditor.records[0].Action)
	assert.Equal(t, "Auditor", f.auditor.records[0].OldValue)
	assert.Equal(t, name, f.auditor.records[0].NewValue)
}

func TestUpdateRoleNoChangesIsNoop(t *testing.T) {
	f := newAdminFixture(t)

	role, err := f.svc.UpdateRole(context.Background(), "admin", "r1", model.UpdateRoleReq{})

	require.NoError(t, err)
	assert.Equal(t, "Auditor", role.Name)
	assert.Empty(t, f.auditor.records)
}

func TestDeactivateRoleWithActiveUsers(t *testing.T) {
	f := newAdminFixture(t)
	f.users.users["u1"] = &model.User{UserId: "u1", RoleId: "r1", IsEnabled: model.UserEnabled}

	err := f.svc.DeactivateRole(context.Background(), "admin", "r1")

	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Contains(t, err.Error(), "active users")
}

func TestDeactivateRoleBumpsCache(t *testing.T) {
	f := newAdminFixture(t)
	before := f.cache.Generation()

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE `t_role` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	err := f.svc.DeactivateRole(context.Background(), "admin", "r1")

	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
	assert.Equal(t, before+1, f.cache.Generation())
	require.Len(t, f.auditor.records, 1)
	assert.Equal(t, model.ActionRoleDeactivate, f.auditor.records[0].Action)
}

func TestDeactivateRoleAuditFailureRollsBack(t *testing.T) {
	f := newAdminFixture(t)
	f.auditor.err = errors.New("audit store unavailable")
	before := f.cache.Generation()

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE `t_role` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectRollback()

	err := f.svc.DeactivateRole(context.Background(), "admin", "r1")

	require.Error(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet(), "the status flip must roll back with the failed change record")
	assert.Equal(t, before, f.cache.Generation())
}

func TestDeactivateSystemRoleRejected(t *testing.T) {
	f := newAdminFixture(t)

	err := f.svc.DeactivateRole(context.Background(), "admin", "r-system")

	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestReactivateRole(t *testing.T) {
	f := newAdminFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE `t_role` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()

	err := f.svc.ReactivateRole(context.Background(), "admin", "r-off")

	require.NoError(t, err)
	require.NoError(t, f.mock.ExpectationsWereMet())
	require.Len(t, f.auditor.records, 1)
	assert.Equal(t, model.ActionRoleReactivate, f.auditor.records[0].Action)
}

func TestReactivateActiveRoleRejected(t *testing.T) {
	f := newAdminFixture(t)

	err := f.svc.ReactivateRole(context.Background(), "admin", "r1")

	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestGetPermissionMatrixExplicitness(t *testing.T) {
	f := newAdminFixture(t)
	f.svc.permissions = &fakePermissions{permissions: map[string]*model.Permission{
		"perm-1": {PermissionId: "perm-1", Code: "ASSET_VIEW", Module: "asset", Status: model.PermissionActive},
		"perm-2": {PermissionId: "perm-2", Code: "ASSET_DELETE", Module: "asset", Status: model.PermissionActive},
		"perm-3": {PermissionId: "perm-3", Code: "LEGACY_OP", Module: "asset", Status: model.PermissionInactive},
	}}
	f.grants.grants["r1"] = map[string]*model.RolePermission{
		"ASSET_VIEW": {RoleId: "r1", PermissionId: "perm-1", Allowed: true, Status: model.GrantActive},
	}

	matrix, err := f.svc.GetPermissionMatrix(context.Background(), "r1")

	require.NoError(t, err)
	require.Len(t, matrix, 2, "inactive permissions are excluded")

	byCode := map[string]model.PermissionMatrixEntry{}
	for _, entry := range matrix {
		byCode[entry.Code] = entry
	}
	assert.True(t, byCode["ASSET_VIEW"].Allowed)
	assert.True(t, byCode["ASSET_VIEW"].IsExplicitlySet)
	assert.False(t, byCode["ASSET_DELETE"].Allowed)
	assert.False(t, byCode["ASSET_DELETE"].IsExplicitlySet, "never considered, not explicitly denied")
}

// Transactional UpdatePermissions tests run against sqlmock so begin, lock,
// commit and rollback are observable.

func newMockedAdminService(t *testing.T) (*RoleAdminService, sqlmock.Sqlmock, *cache.DecisionCache) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	appCtx := &ctxpkg.Context{DB: gdb, Ctx: context.Background(), Log: zap.NewNop().Sugar()}
	decisionCache := cache.NewDecisionCache(cache.DecisionCacheConfig{})
	auditSvc := NewAuditService(repo.NewAuditRepo(appCtx), zap.NewNop().Sugar())

	svc := NewRoleAdminService(
		appCtx,
		repo.NewRoleRepo(appCtx),
		repo.NewPermissionRepo(appCtx),
		repo.NewRolePermissionRepo(appCtx),
		repo.NewUserRepo(appCtx),
		auditSvc,
		decisionCache,
		zap.NewNop().Sugar(),
	)
	return svc, mock, decisionCache
}

func roleRows(isSystem bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "role_id", "name", "is_system_role", "status"}).
		AddRow(1, "r1", "Auditor", isSystem, "ACTIVE")
}

func permissionRows(status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "permission_id", "code", "name", "module", "status"}).
		AddRow(10, "perm-1", "ASSET_VIEW", "View assets", "asset", status)
}

func TestUpdatePermissionsInsertsAndCommits(t *testing.T) {
	svc, mock, decisionCache := newMockedAdminService(t)
	before := decisionCache.Generation()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `t_role`(.+)FOR UPDATE").WillReturnRows(roleRows(false))
	mock.ExpectQuery("SELECT (.+) FROM `t_permission`").WillReturnRows(permissionRows("ACTIVE"))
	mock.ExpectQuery("SELECT (.+) FROM `t_role_permission`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `t_role_permission`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `t_permission_change_record`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", []model.PermissionUpdate{
		{PermissionId: "perm-1", Allowed: true, Reason: "onboarding"},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, before+1, decisionCache.Generation(), "commit bumps the cache generation")
}

func TestUpdatePermissionsFlipsExistingRow(t *testing.T) {
	svc, mock, _ := newMockedAdminService(t)

	existing := sqlmock.NewRows([]string{"id", "role_id", "permission_id", "allowed", "status"}).
		AddRow(5, "r1", "perm-1", true, "ACTIVE")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `t_role`(.+)FOR UPDATE").WillReturnRows(roleRows(false))
	mock.ExpectQuery("SELECT (.+) FROM `t_permission`").WillReturnRows(permissionRows("ACTIVE"))
	mock.ExpectQuery("SELECT (.+) FROM `t_role_permission`").WillReturnRows(existing)
	mock.ExpectExec("UPDATE `t_role_permission` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `t_role_permission`").WillReturnResult(sqlmock.NewResult(6, 1))
	mock.ExpectExec("INSERT INTO `t_permission_change_record`").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", []model.PermissionUpdate{
		{PermissionId: "perm-1", Allowed: false, Reason: "least privilege"},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePermissionsNoopWhenUnchanged(t *testing.T) {
	svc, mock, decisionCache := newMockedAdminService(t)
	before := decisionCache.Generation()

	existing := sqlmock.NewRows([]string{"id", "role_id", "permission_id", "allowed", "status"}).
		AddRow(5, "r1", "perm-1", true, "ACTIVE")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `t_role`(.+)FOR UPDATE").WillReturnRows(roleRows(false))
	mock.ExpectQuery("SELECT (.+) FROM `t_permission`").WillReturnRows(permissionRows("ACTIVE"))
	mock.ExpectQuery("SELECT (.+) FROM `t_role_permission`").WillReturnRows(existing)
	mock.ExpectCommit()

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", []model.PermissionUpdate{
		{PermissionId: "perm-1", Allowed: true},
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, before, decisionCache.Generation(), "a no-op batch leaves the cache alone")
}

func TestUpdatePermissionsRollsBackWholeBatch(t *testing.T) {
	svc, mock, decisionCache := newMockedAdminService(t)
	before := decisionCache.Generation()
	grantsBefore := testutil.ToFloat64(metrics.PermissionChanges.WithLabelValues(string(model.ActionGrant)))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `t_role`(.+)FOR UPDATE").WillReturnRows(roleRows(false))
	// First update succeeds.
	mock.ExpectQuery("SELECT (.+) FROM `t_permission`").WillReturnRows(permissionRows("ACTIVE"))
	mock.ExpectQuery("SELECT (.+) FROM `t_role_permission`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `t_role_permission`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `t_permission_change_record`").WillReturnResult(sqlmock.NewResult(1, 1))
	// Second update references a missing permission: everything rolls back.
	mock.ExpectQuery("SELECT (.+) FROM `t_permission`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", []model.PermissionUpdate{
		{PermissionId: "perm-1", Allowed: true},
		{PermissionId: "perm-missing", Allowed: true},
		{PermissionId: "perm-1", Allowed: false},
	})

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, before, decisionCache.Generation(), "a failed batch must not bump the cache")
	grantsAfter := testutil.ToFloat64(metrics.PermissionChanges.WithLabelValues(string(model.ActionGrant)))
	assert.Equal(t, grantsBefore, grantsAfter, "rolled-back updates must not be counted")
}

func TestUpdatePermissionsSystemRoleRejected(t *testing.T) {
	svc, mock, _ := newMockedAdminService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `t_role`(.+)FOR UPDATE").WillReturnRows(roleRows(true))
	mock.ExpectRollback()

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", []model.PermissionUpdate{
		{PermissionId: "perm-1", Allowed: true},
	})

	assert.ErrorIs(t, err, ErrInvalidOperation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePermissionsInactivePermissionRejected(t *testing.T) {
	svc, mock, _ := newMockedAdminService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `t_role`(.+)FOR UPDATE").WillReturnRows(roleRows(false))
	mock.ExpectQuery("SELECT (.+) FROM `t_permission`").WillReturnRows(permissionRows("INACTIVE"))
	mock.ExpectRollback()

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", []model.PermissionUpdate{
		{PermissionId: "perm-1", Allowed: true},
	})

	assert.ErrorIs(t, err, ErrInvalidOperation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePermissionsEmptyBatch(t *testing.T) {
	svc, mock, _ := newMockedAdminService(t)

	err := svc.UpdatePermissions(context.Background(), "admin", "r1", nil)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
