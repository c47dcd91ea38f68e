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

package router

import (
	"github.com/assetdesk/assetdesk/internal/engine/handler"
	"github.com/assetdesk/assetdesk/pkg/cache"
	httpx "github.com/assetdesk/assetdesk/pkg/http"
	"github.com/assetdesk/assetdesk/pkg/http/middleware"
	"github.com/assetdesk/assetdesk/pkg/metrics"
	"github.com/assetdesk/assetdesk/pkg/version"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Router wires the handlers onto the fiber application.
type Router struct {
	Http     httpx.Http
	Store    cache.ICache
	Access   *handler.AccessHandler
	Role     *handler.RoleHandler
	Audit    *handler.AuditHandler
	Location *handler.LocationHandler
}

func NewRouter(
	httpConf httpx.Http,
	store cache.ICache,
	access *handler.AccessHandler,
	role *handler.RoleHandler,
	audit *handler.AuditHandler,
	location *handler.LocationHandler,
) *Router {
	return &Router{
		Http:     httpConf,
		Store:    store,
		Access:   access,
		Role:     role,
		Audit:    audit,
		Location: location,
	}
}

// Register installs middleware and every route group.
func (rt *Router) Register(app *fiber.App) {
	app.Use(recover.New())
	if rt.Http.AccessLog {
		app.Use(logger.New())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})
	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}

	auth := middleware.Auth(rt.Http.Auth, rt.Store)
	api := app.Group(rt.Http.ContextPath)

	access := api.Group("/access", auth)
	{
		access.Post("/resolve", rt.Access.Resolve)
		access.Post("/resolve-many", rt.Access.ResolveMany)
		access.Get("/summary/:userId", rt.Access.Summary)
	}

	roles := api.Group("/roles", auth)
	{
		roles.Get("/", rt.Role.ListRoles)
		roles.Post("/", rt.Role.CreateRole)
		roles.Get("/:roleId", rt.Role.GetRole)
		roles.Put("/:roleId", rt.Role.UpdateRole)
		roles.Put("/:roleId/deactivate", rt.Role.DeactivateRole)
		roles.Put("/:roleId/reactivate", rt.Role.ReactivateRole)
		roles.Get("/:roleId/matrix", rt.Role.GetPermissionMatrix)
		roles.Put("/:roleId/permissions", rt.Role.UpdatePermissions)
	}

	audit := api.Group("/audit", auth)
	{
		audit.Get("/attempts", rt.Audit.QueryAccessAttempts)
		audit.Get("/changes", rt.Audit.QueryPermissionChanges)
		audit.Get("/report", rt.Audit.ComplianceReport)
	}

	locations := api.Group("/locations", auth)
	{
		locations.Get("/", rt.Location.ListLocations)
		locations.Get("/:locationId", rt.Location.GetLocation)
	}
}
