// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/arkive-net/arkive/api/challenges"
	"github.com/arkive-net/arkive/api/commitments"
	"github.com/arkive-net/arkive/api/ledgerinfo"
	"github.com/arkive-net/arkive/api/operators"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/ledger"
	"github.com/arkive-net/arkive/log"
	"github.com/arkive-net/arkive/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableMetrics   bool
	EnableReqLogger bool
}

// New returns the api handler over the ledger.
func New(ldgr *ledger.Ledger, payouts *bank.Bank, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	operators.New(ldgr, payouts).
		Mount(router, "/operators")
	commitments.New(ldgr).
		Mount(router, "/commitments")
	challenges.New(ldgr).
		Mount(router, "/challenges")
	ledgerinfo.New(ldgr, payouts).
		Mount(router, "/ledger")

	if opts.EnableMetrics {
		router.Path("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler.ServeHTTP
}
