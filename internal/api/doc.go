// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package api provides the HTTP API for Sheetlens.

Every endpoint answers with the same envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "NOT_FOUND", "message": "...", "details": {...}},
	  "metadata": {"requestId": "...", "timestamp": "...", "durationMs": 3}
	}

Routing uses chi. Health, the chart catalog and the auth endpoints are public;
everything under /api/v1/dashboards and /api/v1/data requires a bearer token
(or the token cookie set by login).

A dashboard's view holds the dataset loaded for it, its chart configurations
and the fetch generation. POST .../view/load fetches the dashboard's source;
when two loads race, only the later one is applied and the earlier answers
409 CONFLICT. Fetch failures answer 502 DATA_UNAVAILABLE with a retryable flag.
*/
package api
