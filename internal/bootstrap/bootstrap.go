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
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assetdesk/assetdesk/internal/engine/config"
	"github.com/assetdesk/assetdesk/internal/engine/router"
	"github.com/assetdesk/assetdesk/internal/engine/service"
	"github.com/assetdesk/assetdesk/pkg/cache"
	"github.com/assetdesk/assetdesk/pkg/ctx"
	"github.com/assetdesk/assetdesk/pkg/database"
	httpx "github.com/assetdesk/assetdesk/pkg/http"
	"github.com/assetdesk/assetdesk/pkg/log"
	"github.com/assetdesk/assetdesk/pkg/safe"
	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type App struct {
	HttpApp *fiber.App
	Cron    *cron.Cron
	Logger  *zap.SugaredLogger
	Conf    config.AppConfig
}

// engine is what the injector hands back to Bootstrap: the assembled HTTP
// router plus the audit service the cron jobs call directly.
type engine struct {
	Router *router.Router
	Audit  *service.AuditService
}

// Bootstrap composes the full application: config, logger, stores, repos,
// services, router and background jobs. It returns the app plus a cleanup
// releasing every held resource.
func Bootstrap(configFile string) (*App, func(), error) {
	appConf := config.NewConf(configFile)

	logger, err := log.NewLog(&appConf.Log)
	if err != nil {
		return nil, nil, err
	}
	sugar := logger.Sugar()

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, nil, err
	}

	appCtx := ctx.NewContext(context.Background(), db, sugar)
	store := cache.NewRedisCache(redisClient)
	decisionCache := cache.NewDecisionCache(cache.DecisionCacheConfig{
		MaxBytes: appConf.Cache.MaxBytes,
		TTL:      appConf.Cache.TTL(),
	})

	eng := initEngine(appCtx, store, decisionCache, appConf.Http, sugar)

	httpApp := httpx.NewFiberApp(appConf.Http)
	eng.Router.Register(httpApp)

	// Nightly housekeeping: flip overdue overrides, then report whatever
	// inconsistencies remain.
	scheduler := cron.New()
	_, err = scheduler.AddFunc(appConf.Cron.IntegritySpec, func() {
		safe.Do(func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := eng.Audit.SweepExpiredOverrides(jobCtx); err != nil {
				sugar.Errorw("override sweep failed", "error", err)
			}
			if _, err := eng.Audit.ScanIntegrity(jobCtx); err != nil {
				sugar.Errorw("integrity scan failed", "error", err)
			}
		})
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		scheduler.Stop()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = redisClient.Close()
		_ = logger.Sync()
	}

	app := &App{
		HttpApp: httpApp,
		Cron:    scheduler,
		Logger:  sugar,
		Conf:    appConf,
	}
	return app, cleanup, nil
}

// Run starts the app and blocks until an exit signal, then shuts down
// gracefully.
func Run(app *App, cleanup func()) {
	app.Cron.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	safe.Go(func() {
		if err := httpx.Serve(app.HttpApp, app.Conf.Http); err != nil {
			app.Logger.Errorw("http listener failed", "error", err)
		}
	})

	sig := <-quit
	app.Logger.Infof("received signal: %v, shutting down gracefully", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(app.Conf.Http.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		app.Logger.Errorw("http server shutdown error", "error", err)
	}

	cleanup()
	app.Logger.Infow("server shutdown complete")
}
