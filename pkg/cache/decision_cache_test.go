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
	"testing"
	"time"
)

type decision struct {
	Granted bool   `json:"granted"`
	Method  string `json:"method"`
}

func TestDecisionCache_SetGet(t *testing.T) {
	dc := NewDecisionCache(DecisionCacheConfig{MaxBytes: 1024 * 1024, TTL: time.Hour})
	defer dc.Clear()

	dc.Set("u1:ASSET_TRANSFER:", decision{Granted: true, Method: "RolePermission"})

	var got decision
	if !dc.Get("u1:ASSET_TRANSFER:", &got) {
		t.Fatal("expected cache hit")
	}
	if !got.Granted || got.Method != "RolePermission" {
		t.Errorf("unexpected cached value: %+v", got)
	}
}

func TestDecisionCache_Miss(t *testing.T) {
	dc := NewDecisionCache(DecisionCacheConfig{MaxBytes: 1024 * 1024, TTL: time.Hour})
	defer dc.Clear()

	var got decision
	if dc.Get("absent", &got) {
		t.Error("expected cache miss for absent key")
	}
}

func TestDecisionCache_Expiration(t *testing.T) {
	dc := NewDecisionCache(DecisionCacheConfig{MaxBytes: 1024 * 1024, TTL: 50 * time.Millisecond})
	defer dc.Clear()

	dc.Set("k", decision{Granted: true})

	var got decision
	if !dc.Get("k", &got) {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(80 * time.Millisecond)

	if dc.Get("k", &got) {
		t.Error("expected miss after expiry")
	}
}

func TestDecisionCache_BumpInvalidates(t *testing.T) {
	dc := NewDecisionCache(DecisionCacheConfig{MaxBytes: 1024 * 1024, TTL: time.Hour})
	defer dc.Clear()

	dc.Set("k", decision{Granted: true})
	dc.Bump()

	var got decision
	if dc.Get("k", &got) {
		t.Error("expected entries from a previous generation to be unreachable")
	}
	if dc.Generation() != 1 {
		t.Errorf("expected generation 1, got %d", dc.Generation())
	}

	// Entries written under the new generation are served normally.
	dc.Set("k", decision{Granted: false, Method: "DefaultDeny"})
	if !dc.Get("k", &got) {
		t.Fatal("expected hit in current generation")
	}
	if got.Granted {
		t.Error("expected the post-bump value")
	}
}
