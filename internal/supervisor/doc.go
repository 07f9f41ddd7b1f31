// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package supervisor runs the long-lived services of the server under a
thejerf/suture/v4 supervisor tree.

Tree Layout:

	sheetlens (root)
	├── data-layer
	│   ├── cache:render     (TTL cache janitor)
	│   └── view-manager     (idle view eviction)
	└── api-layer
	    └── http-server

A panic or error in one service restarts that service only, with suture's
failure decay and backoff. Supervisor events are reported through
sutureslog into the zerolog pipeline (logging.NewSlogLogger).
*/
package supervisor
