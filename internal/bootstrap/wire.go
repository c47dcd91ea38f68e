//go:build wireinject
// +build wireinject

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

package bootstrap

import (
	"github.com/assetdesk/assetdesk/internal/engine/handler"
	"github.com/assetdesk/assetdesk/internal/engine/repo"
	"github.com/assetdesk/assetdesk/internal/engine/router"
	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/cache"
	"github.com/assetdesk/assetdesk/pkg/ctx"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// initEngine assembles the repo, service and handler graph into the HTTP
// router plus the services Bootstrap schedules directly.
func initEngine(
	appCtx *ctx.Context,
	store cache.ICache,
	decisionCache *cache.DecisionCache,
	httpConf http.Http,
	logger *zap.SugaredLogger,
) *engine {
	panic(wire.Build(
		repo.ProviderSet,
		service.ProviderSet,
		handler.ProviderSet,
		router.NewRouter,
		wire.Struct(new(engine), "*"),
	))
}
