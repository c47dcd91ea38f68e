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
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/assetdesk/assetdesk/internal/engine/model"
	ctxpkg "github.com/assetdesk/assetdesk/pkg/ctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockedAuditRepo(t *testing.T) (IAuditRepository, sqlmock.Sqlmock) {
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
	return NewAuditRepo(appCtx), mock
}

func TestQueryPermissionChangesFiltersByPermissionAndTarget(t *testing.T) {
	r, mock := newMockedAuditRepo(t)

	mock.ExpectQuery("SELECT count(.+) FROM `t_permission_change_record` WHERE permission_id = (.+) AND target_user_id = (.+)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM `t_permission_change_record` WHERE permission_id = (.+) AND target_user_id = (.+) ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "record_id", "actor_id", "permission_id", "target_user_id", "action"}).
			AddRow(1, "rec-1", "admin", "perm-1", "u7", string(model.ActionGrant)))

	records, total, err := r.QueryPermissionChanges(model.ChangeRecordFilter{
		PermissionId: "perm-1",
		TargetUserId: "u7",
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, int64(1), total)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].RecordId)
	require.NotNil(t, records[0].PermissionId)
	assert.Equal(t, "perm-1", *records[0].PermissionId)
	require.NotNil(t, records[0].TargetUserId)
	assert.Equal(t, "u7", *records[0].TargetUserId)
}
