// Sheetlens - Spreadsheet Analytics and Chart Data Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sheetlens

/*
Package main is the entry point for the Sheetlens server.

Sheetlens turns spreadsheet tabs into chart-ready data. Users sign in, create
dashboards bound to a spreadsheet source, load a tab into a view and render
any number of charts against it with sample, aggregate or full views.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("sheetlens")
	├── DataSupervisor ("data-layer")
	│   ├── render cache (expired entry sweeper)
	│   └── view manager (idle view eviction)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi router)

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB holding users and dashboards
 4. Sources: demo datasets plus .xlsx workbooks behind a circuit breaker
 5. Views: per-user dashboard views with a shared render cache
 6. Authentication: bcrypt passwords and HS256 JWTs
 7. HTTP server and supervisor tree

# Configuration

Priority: environment variables > config file > defaults. The config file is
read from CONFIG_PATH or config.yaml in the working directory.

	HTTP_PORT=3857               # HTTP server port
	ENVIRONMENT=production       # development, staging or production
	JWT_SECRET=<32+ chars>       # generated per process in development
	DUCKDB_PATH=/data/sheetlens.duckdb
	SHEETS_DIR=/data/sheets      # <sourceId>.xlsx workbooks
	SHEETS_DEMO_ENABLED=true     # serve demo-sales, demo-users, demo-financial
	SHEETS_FETCH_RATE=2          # loads per second per user
	CORS_ORIGINS=https://app.example.com
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to 10 seconds, then the database is checkpointed
and closed.
*/
package main
