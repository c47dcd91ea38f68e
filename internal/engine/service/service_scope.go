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

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Locatable is anything that carries a location hierarchy tuple. The filter
// evaluates entities only through this interface; each visible entity type
// implements Key itself.
type Locatable interface {
	Key() model.LocationKey
}

// ScopeService narrows project and location visibility per user. Two gates
// apply in order: home-project isolation, then the location hierarchy with
// the user's most specific restriction level winning. Holders of the super
// admin role bypass both.
type ScopeService struct {
	users repo.IUserRepository
	roles repo.IRoleRepository
	log   *zap.SugaredLogger
}

func NewScopeService(users repo.IUserRepository, roles repo.IRoleRepository, log *zap.SugaredLogger) *ScopeService {
	return &ScopeService{users: users, roles: roles, log: log}
}

// CanAccessProject reports whether the user may see entities of the project.
// Unknown users see nothing.
func (s *ScopeService) CanAccessProject(ctx context.Context, userId, projectId string) (bool, error) {
	user, super, err := s.loadUser(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if super {
		return true, nil
	}
	return s.projectVisible(user, projectId), nil
}

// CanAccessLocation reports whether the user may see the given entity.
func (s *ScopeService) CanAccessLocation(ctx context.Context, userId string, entity Locatable) (bool, error) {
	user, super, err := s.loadUser(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if super {
		return true, nil
	}
	return s.entityVisible(user, entity.Key()), nil
}

// FilterLocations returns the subset of entities visible to the user,
// preserving input order. An unknown user gets an empty slice.
func (s *ScopeService) FilterLocations(ctx context.Context, userId string, entities []Locatable) ([]Locatable, error) {
	user, super, err := s.loadUser(userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Locatable{}, nil
		}
		return nil, err
	}
	if super {
		return entities, nil
	}
	visible := make([]Locatable, 0, len(entities))
	for _, entity := range entities {
		if s.entityVisible(user, entity.Key()) {
			visible = append(visible, entity)
		}
	}
	return visible, nil
}

func (s *ScopeService) loadUser(userId string) (*model.User, bool, error) {
	user, err := s.users.GetByUserId(userId)
	if err != nil {
		return nil, false, err
	}
	if user.RoleId != "" {
		role, err := s.roles.GetByRoleId(user.RoleId)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
		if role != nil && role.Status == model.RoleActive && role.Name == model.SuperAdminRoleName {
			return user, true, nil
		}
	}
	return user, false, nil
}

func (s *ScopeService) entityVisible(user *model.User, key model.LocationKey) bool {
	if !s.projectVisible(user, key.ProjectId) {
		return false
	}
	// Exactly one level is evaluated: the most specific restriction the
	// user carries. A user with no restriction fields sees the whole
	// hierarchy of their project.
	switch {
	case user.Office != "":
		return key.Office == user.Office
	case user.Plaza != "":
		return key.Plaza == user.Plaza
	case user.State != "":
		return key.State == user.State
	case user.Region != "":
		return key.Region == user.Region
	}
	return true
}

func (s *ScopeService) projectVisible(user *model.User, projectId string) bool {
	// A user with no home project is confined to nothing rather than
	// everything; project access for such users goes through overrides.
	if user.ProjectId == "" {
		return false
	}
	return user.ProjectId == projectId
}
