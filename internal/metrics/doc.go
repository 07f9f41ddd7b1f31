// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package metrics defines the Prometheus collectors exported at /metrics.

# Overview

The package provides metrics for:
  - HTTP request latency, throughput and in-flight requests
  - DuckDB query latency and errors
  - Sheet fetches: latency, error kinds and row counts
  - Circuit breaker state transitions
  - Chart transforms by view mode and per-chart render failures
  - Stale fetch completions dropped by dashboard views
  - Render cache hits and misses
  - Authentication attempts

All collectors are registered with the default registry through promauto
at package init. Callers use the Record helpers rather than touching the
vectors directly so that label sets stay consistent.

# Metrics Endpoint

	curl http://localhost:3857/metrics
*/
package metrics
