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
	"strconv"

	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// replyErr maps the service error taxonomy onto the response code table.
func replyErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.WithRepErrMsg(c, http.NotFound.Code, err.Error(), c.Path())
	case errors.Is(err, service.ErrInvalidOperation):
		return http.WithRepErrMsg(c, http.InvalidOperation.Code, err.Error(), c.Path())
	default:
		return http.WithRepErrMsg(c, http.InternalError.Code, err.Error(), c.Path())
	}
}

// actorId returns the authenticated user id set by the auth middleware.
func actorId(c *fiber.Ctx) string {
	if userId, ok := c.Locals("user_id").(string); ok {
		return userId
	}
	return ""
}

func queryInt(c *fiber.Ctx, key string) int {
	value, _ := strconv.Atoi(c.Query(key))
	return value
}
