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

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/assetdesk/assetdesk/pkg/cache"
	"github.com/assetdesk/assetdesk/pkg/database"
	"github.com/assetdesk/assetdesk/pkg/http"
	"github.com/assetdesk/assetdesk/pkg/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CacheConfig configures the in-process decision cache.
type CacheConfig struct {
	MaxBytes   int
	TTLSeconds int
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// CronConfig holds the schedules of the background jobs.
type CronConfig struct {
	// IntegritySpec schedules the data-integrity scan and the
	// expired-override sweep. Default: every night at 02:30.
	IntegritySpec string
}

func (c *CronConfig) SetDefaults() {
	if c.IntegritySpec == "" {
		c.IntegritySpec = "30 2 * * *"
	}
}

type AppConfig struct {
	Log      log.Conf
	Http     http.Http
	Database database.Database
	Redis    cache.Redis
	Cache    CacheConfig
	Cron     CronConfig
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confFile string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confFile)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// LoadConfigFile reads the TOML config and re-parses it on change.
func LoadConfigFile(confFile string) (AppConfig, error) {
	config := viper.New()
	config.SetConfigFile(confFile)
	if err := config.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read configuration file: %v", err)
	}

	config.WatchConfig()
	config.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("configuration changed, re-parsing: %s", e.Name)
		if err := config.Unmarshal(&cfg); err != nil {
			log.Errorw("failed to unmarshal configuration file", "error", err)
		}
	})
	if err := config.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %v", err)
	}

	cfg.Http.SetDefaults()
	cfg.Cron.SetDefaults()
	log.Infow("config file loaded", "path", confFile)

	return cfg, nil
}
