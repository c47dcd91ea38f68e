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
	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// RoleHandler exposes role and permission administration.
type RoleHandler struct {
	Admin *service.RoleAdminService
}

func NewRoleHandler(admin *service.RoleAdminService) *RoleHandler {
	return &RoleHandler{Admin: admin}
}

func (h *RoleHandler) ListRoles(c *fiber.Ctx) error {
	pageNum := queryInt(c, "pageNum")
	pageSize := queryInt(c, "pageSize")

	roles, total, err := h.Admin.ListRoles(c.UserContext(), pageNum, pageSize)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, fiber.Map{
		"roles": roles,
		"total": total,
	})
}

func (h *RoleHandler) GetRole(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	if roleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "roleId is required", c.Path())
	}

	role, err := h.Admin.GetRole(c.UserContext(), roleId)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, role)
}

func (h *RoleHandler) CreateRole(c *fiber.Ctx) error {
	var req model.CreateRoleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, "invalid request parameters", c.Path())
	}
	if req.Name == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "name is a required field", c.Path())
	}

	role, err := h.Admin.CreateRole(c.UserContext(), actorId(c), req)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, role)
}

func (h *RoleHandler) UpdateRole(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	if roleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "roleId is required", c.Path())
	}
	var req model.UpdateRoleReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, "invalid request parameters", c.Path())
	}

	role, err := h.Admin.UpdateRole(c.UserContext(), actorId(c), roleId, req)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, role)
}

func (h *RoleHandler) DeactivateRole(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	if roleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "roleId is required", c.Path())
	}

	if err := h.Admin.DeactivateRole(c.UserContext(), actorId(c), roleId); err != nil {
		return replyErr(c, err)
	}
	return http.WithRepNotDetail(c)
}

func (h *RoleHandler) ReactivateRole(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	if roleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "roleId is required", c.Path())
	}

	if err := h.Admin.ReactivateRole(c.UserContext(), actorId(c), roleId); err != nil {
		return replyErr(c, err)
	}
	return http.WithRepNotDetail(c)
}

// GetPermissionMatrix returns every active permission with this role's grant
// state and explicitness.
func (h *RoleHandler) GetPermissionMatrix(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	if roleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "roleId is required", c.Path())
	}

	matrix, err := h.Admin.GetPermissionMatrix(c.UserContext(), roleId)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, fiber.Map{
		"roleId": roleId,
		"matrix": matrix,
	})
}

type updatePermissionsReq struct {
	Updates []model.PermissionUpdate `json:"updates"`
}

// UpdatePermissions applies a batch of grant changes atomically.
func (h *RoleHandler) UpdatePermissions(c *fiber.Ctx) error {
	roleId := c.Params("roleId")
	if roleId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "roleId is required", c.Path())
	}
	var req updatePermissionsReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, "invalid request parameters", c.Path())
	}
	if len(req.Updates) == 0 {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "updates must not be empty", c.Path())
	}

	if err := h.Admin.UpdatePermissions(c.UserContext(), actorId(c), roleId, req.Updates); err != nil {
		return replyErr(c, err)
	}
	return http.WithRepNotDetail(c)
}
