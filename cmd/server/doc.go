// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package main is the entry point for the Foodgram server.

# Application Architecture

Long-running components run under a suture v4 supervisor tree:

	RootSupervisor ("foodgram")
	├── DataSupervisor ("data-layer")
	│   ├── token revocation store (badger value-log GC)
	│   ├── login throttle (idle limiter pruning)
	│   └── audit logger (AUDIT_ENABLED=true)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── embedded NATS server (EVENTS_TRANSPORT=nats, NATS_EMBEDDED=true)
	│   └── event router (shopping list cache invalidation)
	└── APISupervisor ("api-layer")
	    ├── HTTP server
	    └── policy reload (SIGHUP)

Component initialization order:

 1. .env file (godotenv), then configuration (koanf v2)
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB, migrations, audit table, ingredient fixture, admin bootstrap
 4. Authentication: JWT manager, revocation store, login throttle
 5. Authorization: Casbin route policy
 6. Events: watermill bus (gochannel or NATS), router, publisher
 7. Shopping list: LRU cache registered as an event consumer
 8. HTTP: chi router with the middleware stack

# Configuration

Priority: environment variables > config file > defaults.

	HTTP_PORT=8000
	DUCKDB_PATH=/data/foodgram.duckdb
	JWT_SECRET=<32+ chars>
	ADMIN_EMAIL=admin@example.com
	ADMIN_PASSWORD=<password>
	INGREDIENTS_FIXTURE=/data/ingredients.json
	SHOPPING_LIST_FORMAT=pdf
	EVENTS_TRANSPORT=gochannel
	AUDIT_RETENTION_DAYS=90

# Signal Handling

SIGINT and SIGTERM cancel the root context: the HTTP server drains for
SHUTDOWN_TIMEOUT, the event router closes, and the database and
revocation store are closed last. SIGHUP reloads the Casbin policy file.

# API Documentation

Swagger UI is served at /swagger/index.html and metrics at /metrics.
*/
package main
