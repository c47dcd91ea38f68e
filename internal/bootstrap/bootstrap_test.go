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
	"testing"
	"time"

	"github.com/assetdesk/assetdesk/pkg/cache"
	"github.com/assetdesk/assetdesk/pkg/ctx"
	httpx "github.com/assetdesk/assetdesk/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitEngineBuildsFullGraph(t *testing.T) {
	appCtx := ctx.NewContext(context.Background(), nil, zap.NewNop().Sugar())
	decisionCache := cache.NewDecisionCache(cache.DecisionCacheConfig{
		MaxBytes: 1 << 20,
		TTL:      time.Minute,
	})

	eng := initEngine(appCtx, nil, decisionCache, httpx.Http{}, zap.NewNop().Sugar())

	require.NotNil(t, eng)
	require.NotNil(t, eng.Router)
	assert.NotNil(t, eng.Router.Access)
	assert.NotNil(t, eng.Router.Role)
	assert.NotNil(t, eng.Router.Audit)
	assert.NotNil(t, eng.Router.Location)
	assert.NotNil(t, eng.Audit)
}
