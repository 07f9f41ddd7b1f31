// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package middleware provides HTTP middleware components for the API router.

Key Components:

  - RequestID: accepts or generates an X-Request-ID and threads it into the
    logging context
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern rather than raw path
  - AccessLog: one structured zerolog line per request, warn level for slow
    requests and 5xx responses
  - Compression: pooled gzip writers for clients that accept gzip

Middleware Stack:

The router installs them outermost first:

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Compression)
*/
package middleware
