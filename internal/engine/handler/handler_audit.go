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
	"strconv"
	"time"

	"github.com/assetdesk/assetdesk/internal/engine/model"
	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// AuditHandler exposes the audit record queries and compliance reporting.
type AuditHandler struct {
	Audit *service.AuditService
}

func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{Audit: audit}
}

func queryTime(c *fiber.Ctx, key string) *time.Time {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// QueryAccessAttempts pages through the access-attempt stream.
func (h *AuditHandler) QueryAccessAttempts(c *fiber.Ctx) error {
	filter := model.AccessAttemptFilter{
		UserId:         c.Query("userId"),
		PermissionCode: c.Query("permissionCode"),
		Method:         c.Query("method"),
		From:           queryTime(c, "from"),
		To:             queryTime(c, "to"),
		PageNum:        queryInt(c, "pageNum"),
		PageSize:       queryInt(c, "pageSize"),
	}
	if raw := c.Query("granted"); raw != "" {
		granted, err := strconv.ParseBool(raw)
		if err != nil {
			return http.WithRepErrMsg(c, http.BadRequest.Code, "granted must be a boolean", c.Path())
		}
		filter.Granted = &granted
	}

	records, total, err := h.Audit.QueryAccessAttempts(c.UserContext(), filter)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, fiber.Map{
		"records": records,
		"total":   total,
	})
}

// QueryPermissionChanges pages through the administrative change stream.
func (h *AuditHandler) QueryPermissionChanges(c *fiber.Ctx) error {
	filter := model.ChangeRecordFilter{
		ActorId:      c.Query("actorId"),
		RoleId:       c.Query("roleId"),
		PermissionId: c.Query("permissionId"),
		TargetUserId: c.Query("targetUserId"),
		Action:       c.Query("action"),
		From:         queryTime(c, "from"),
		To:           queryTime(c, "to"),
		PageNum:      queryInt(c, "pageNum"),
		PageSize:     queryInt(c, "pageSize"),
	}

	records, total, err := h.Audit.QueryPermissionChanges(c.UserContext(), filter)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, fiber.Map{
		"records": records,
		"total":   total,
	})
}

// ComplianceReport aggregates the audit trail over a period. The period
// defaults to the trailing 30 days.
func (h *AuditHandler) ComplianceReport(c *fiber.Ctx) error {
	to := time.Now()
	from := to.Add(-30 * 24 * time.Hour)
	if t := queryTime(c, "from"); t != nil {
		from = *t
	}
	if t := queryTime(c, "to"); t != nil {
		to = *t
	}
	if !from.Before(to) {
		return http.WithRepErrMsg(c, http.BadRequest.Code, "from must precede to", c.Path())
	}

	report, err := h.Audit.GenerateComplianceReport(c.UserContext(), from, to)
	if err != nil {
		return replyErr(c, err)
	}
	return http.WithRepJSON(c, report)
}
