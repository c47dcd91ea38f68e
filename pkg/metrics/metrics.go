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

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// AccessDecisions counts resolution outcomes by method and result.
	AccessDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdesk_access_decisions_total",
			Help: "Permission resolution decisions by method and outcome.",
		},
		[]string{"method", "granted"},
	)

	// DecisionCacheHits counts resolutions short-circuited by the cache.
	DecisionCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "assetdesk_decision_cache_hits_total",
			Help: "Resolution decisions served from the local cache.",
		},
	)

	// PermissionChanges counts committed administrative mutations by action.
	PermissionChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetdesk_permission_changes_total",
			Help: "Committed role/permission administrative changes by action.",
		},
		[]string{"action"},
	)
)

func init() {
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(AccessDecisions, DecisionCacheHits, PermissionChanges)
}

// Handler returns the HTTP handler serving the metrics registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
