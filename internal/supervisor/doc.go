// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

/*
Package supervisor provides process supervision for Foodgram using suture v4.

Every long-running component of the server runs as a suture.Service inside a
three-layer tree:

	RootSupervisor ("foodgram")
	├── DataSupervisor ("data-layer")
	│   ├── RevocationStore (badger value-log GC)
	│   ├── LoginThrottle (idle limiter pruning)
	│   └── audit.Logger (queued writes, retention cleanup)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EmbeddedServer (if NATS_EMBEDDED=true)
	│   └── events.Router (shopping list cache invalidation)
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService
	    └── ReloadService (Casbin policy on SIGHUP)

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog and the zerolog-backed slog adapter from internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(revocations)
	tree.AddMessagingService(eventRouter)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)

Cancelling ctx stops the tree. UnstoppedServiceReport lists services that
ignored the shutdown timeout.
*/
package supervisor
