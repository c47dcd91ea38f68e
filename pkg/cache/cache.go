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

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICache is the distributed cache abstraction (backed by Redis).
type ICache interface {
	// Get returns the value for the given key.
	Get(ctx context.Context, key string) *redis.StringCmd
	// Set stores the value for the given key with an expiration.
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	// Del removes the given keys.
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	// Exists reports how many of the given keys exist.
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	// Expire sets the expiration for a key.
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}
