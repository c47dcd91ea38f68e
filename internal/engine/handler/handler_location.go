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

package handler

import (
	"errors"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LocationHandler exposes the location directory, narrowed per caller by the
// scope filter.
type LocationHandler struct {
	Scope     *service.ScopeService
	Locations repo.ILocationRepository
}

func NewLocationHandler(scope *service.ScopeService, locations repo.ILocationRepository) *LocationHandler {
	return &LocationHandler{Scope: scope, Locations: locations}
}

// ListLocations returns the locations visible to the caller.
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	pageNum := queryInt(c, "pageNum")
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := queryInt(c, "pageSize")
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	locations, total, err := h.Locations.List(pageNum, pageSize)
	if err != nil {
		return replyErr(c, err)
	}

	entities := make([]service.Locatable, 0, len(locations))
	for _, location := range locations {
		entities = append(entities, location)
	}
	visible, err := h.Scope.FilterLocations(c.UserContext(), actorId(c), entities)
	if err != nil {
		return replyErr(c, err)
	}

	filtered := make([]model.Location, 0, len(visible))
	for _, entity := range visible {
		filtered = append(filtered, entity.(model.Location))
	}
	return http.WithRepJSON(c, fiber.Map{
		"locations": filtered,
		// total counts the unfiltered directory, not the caller's view.
		"total": total,
	})
}

// GetLocation returns one location if the caller may see it.
func (h *LocationHandler) GetLocation(c *fiber.Ctx) error {
	locationId := c.Params("locationId")
	if locationId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "locationId is required", c.Path())
	}

	location, err := h.Locations.GetByLocationId(locationId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.WithRepErrMsg(c, http.NotFound.Code, "location not found", c.Path())
		}
		return replyErr(c, err)
	}

	visible, err := h.Scope.CanAccessLocation(c.UserContext(), actorId(c), *location)
	if err != nil {
		return replyErr(c, err)
	}
	if !visible {
		return http.WithRepErrMsg(c, http.PermissionDenied.Code, "location outside caller scope", c.Path())
	}
	return http.WithRepJSON(c, location)
}
