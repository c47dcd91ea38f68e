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
	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// AccessHandler exposes the permission resolution engine.
type AccessHandler struct {
	Access *service.AccessService
}

func NewAccessHandler(access *service.AccessService) *AccessHandler {
	return &AccessHandler{Access: access}
}

// Resolve decides one (user, permission, resource?, project?) tuple. When the
// body omits userId the authenticated caller is resolved.
func (h *AccessHandler) Resolve(c *fiber.Ctx) error {
	var req service.ResolveRequest
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, "invalid request parameters", c.Path())
	}
	if req.UserId == "" {
		req.UserId = actorId(c)
	}
	if req.UserId == "" || req.PermissionCode == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "userId and permissionCode are required", c.Path())
	}

	dec := h.Access.Resolve(c.UserContext(), req)
	return http.WithRepJSON(c, dec)
}

type resolveManyReq struct {
	UserId          string   `json:"userId"`
	PermissionCodes []string `json:"permissionCodes"`
	ResourceId      *string  `json:"resourceId,omitempty"`
	ProjectId       *string  `json:"projectId,omitempty"`
}

// ResolveMany evaluates a batch of permission codes for one user.
func (h *AccessHandler) ResolveMany(c *fiber.Ctx) error {
	var req resolveManyReq
	if err := c.BodyParser(&req); err != nil {
		return http.WithRepErrMsg(c, http.RequestParameterParsingFailed.Code, "invalid request parameters", c.Path())
	}
	if req.UserId == "" {
		req.UserId = actorId(c)
	}
	if req.UserId == "" || len(req.PermissionCodes) == 0 {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "userId and permissionCodes are required", c.Path())
	}

	bulk := h.Access.ResolveMany(c.UserContext(), req.UserId, req.PermissionCodes, req.ResourceId, req.ProjectId)
	return http.WithRepJSON(c, bulk)
}

// Summary returns a user's effective permissions, overrides and scopes.
func (h *AccessHandler) Summary(c *fiber.Ctx) error {
	userId := c.Params("userId")
	if userId == "" {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "userId is required", c.Path())
	}

	summary, err := h.Access.Summarize(c.UserContext(), userId)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, summary)
}
