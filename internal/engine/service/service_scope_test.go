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
	"testing"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newScopeService(users map[string]*model.User, roles map[string]*model.Role) *ScopeService {
	return NewScopeService(
		&fakeUsers{users: users},
		&fakeRoles{roles: roles},
		zap.NewNop().Sugar(),
	)
}

func hqLocation(office string) model.Location {
	return model.Location{
		LocationId: "loc-" + office,
		Region:     "NORTHEAST",
		State:      "NJ",
		Plaza:      "P12",
		Office:     office,
		ProjectId:  "p1",
	}
}

func TestCanAccessProjectIsolationGate(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p1"},
	}, map[string]*model.Role{})

	ok, err := svc.CanAccessProject(context.Background(), "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessProject(context.Background(), "u1", "p2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessProjectUnknownUser(t *testing.T) {
	svc := newScopeService(map[string]*model.User{}, map[string]*model.Role{})

	ok, err := svc.CanAccessProject(context.Background(), "ghost", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessLocationMostSpecificWins(t *testing.T) {
	// Office restriction set: only the office level is evaluated, even
	// though region matches on both locations.
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p1",
			Region: "NORTHEAST", Office: "HQ"},
	}, map[string]*model.Role{})

	ok, err := svc.CanAccessLocation(context.Background(), "u1", hqLocation("HQ"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessLocation(context.Background(), "u1", hqLocation("Branch"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessLocationOfficeMatchIgnoresOtherLevels(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p1",
			Region: "SOUTHWEST", State: "TX", Office: "HQ"},
	}, map[string]*model.Role{})

	// Region and state differ, office matches: granted.
	ok, err := svc.CanAccessLocation(context.Background(), "u1", hqLocation("HQ"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessLocationRegionFallback(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p1", Region: "NORTHEAST"},
	}, map[string]*model.Role{})

	ok, err := svc.CanAccessLocation(context.Background(), "u1", hqLocation("HQ"))
	require.NoError(t, err)
	assert.True(t, ok)

	other := hqLocation("HQ")
	other.Region = "SOUTHWEST"
	ok, err = svc.CanAccessLocation(context.Background(), "u1", other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCanAccessLocationNoRestrictionsFullProjectAccess(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p1"},
	}, map[string]*model.Role{})

	ok, err := svc.CanAccessLocation(context.Background(), "u1", hqLocation("Branch"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanAccessLocationProjectGateBeforeHierarchy(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p2", Office: "HQ"},
	}, map[string]*model.Role{})

	// Office matches but the location belongs to another project.
	ok, err := svc.CanAccessLocation(context.Background(), "u1", hqLocation("HQ"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSuperAdminBypassesEverything(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"root": {UserId: "root", IsEnabled: model.UserEnabled, RoleId: "r-super",
			ProjectId: "p9", Office: "Elsewhere"},
	}, map[string]*model.Role{
		"r-super": {RoleId: "r-super", Name: model.SuperAdminRoleName, Status: model.RoleActive},
	})

	ok, err := svc.CanAccessProject(context.Background(), "root", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanAccessLocation(context.Background(), "root", hqLocation("HQ"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInactiveSuperAdminRoleDoesNotBypass(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"root": {UserId: "root", IsEnabled: model.UserEnabled, RoleId: "r-super", ProjectId: "p9"},
	}, map[string]*model.Role{
		"r-super": {RoleId: "r-super", Name: model.SuperAdminRoleName, Status: model.RoleInactive},
	})

	ok, err := svc.CanAccessProject(context.Background(), "root", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilterLocations(t *testing.T) {
	svc := newScopeService(map[string]*model.User{
		"u1": {UserId: "u1", IsEnabled: model.UserEnabled, ProjectId: "p1", Office: "HQ"},
	}, map[string]*model.Role{})

	foreign := hqLocation("HQ")
	foreign.ProjectId = "p2"
	entities := []Locatable{hqLocation("HQ"), hqLocation("Branch"), foreign}

	visible, err := svc.FilterLocations(context.Background(), "u1", entities)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "HQ", visible[0].Key().Office)
}

func TestFilterLocationsUnknownUserSeesNothing(t *testing.T) {
	svc := newScopeService(map[string]*model.User{}, map[string]*model.Role{})

	visible, err := svc.FilterLocations(context.Background(), "ghost", []Locatable{hqLocation("HQ")})
	require.NoError(t, err)
	assert.Empty(t, visible)
}
