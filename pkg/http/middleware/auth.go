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

package middleware

import (
	"errors"
	"strings"

	"github.com/assetdesk/assetdesk/pkg/cache"
	httpx "github.com/assetdesk/assetdesk/pkg/http"
	"github.com/assetdesk/assetdesk/pkg/http/jwt"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

// Auth validates the bearer token, rejects tokens present on the revocation
// list, and stores the caller identity in c.Locals("user_id").
func Auth(auth httpx.Auth, store cache.ICache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return httpx.WithRepErrMsg(c, httpx.AuthorizationEmpty.Code, httpx.AuthorizationEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return httpx.WithRepErrMsg(c, httpx.TokenFormatIncorrect.Code, httpx.TokenFormatIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], auth.SecretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return httpx.WithRepErrMsg(c, httpx.TokenExpired.Code, httpx.TokenExpired.Msg, c.Path())
			}
			return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
		}

		if store != nil && auth.RedisKeyPrefix != "" {
			revoked, err := store.Exists(c.Context(), auth.RedisKeyPrefix+":revoked:"+parts[1]).Result()
			if err == nil && revoked > 0 {
				return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
			}
		}

		c.Locals("user_id", claims.UserId)
		return c.Next()
	}
}
