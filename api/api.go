// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/openfarm/harvester/api/farms"
	"github.com/openfarm/harvester/farm"
	"github.com/openfarm/harvester/log"
	"github.com/openfarm/harvester/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins string
	EnableMetrics  bool
}

// New returns the assembled api handler.
func New(engine *farm.Farm, lock sync.Locker, blockSource func() uint32, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	farms.New(engine, lock, blockSource).
		Mount(router, "/farm")

	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	logger.Debug("api handler assembled", "origins", opts.AllowedOrigins)
	return handler.ServeHTTP
}
