// Roomstyle - Furniture and Interior Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomstyle

/*
Package supervisor runs Roomstyle's long-lived services under a suture v4
supervisor tree.

	RootSupervisor ("roomstyle")
	├── TrainingSupervisor ("training-layer")
	│   ├── Trainer (bootstrap, then scheduled refits)
	│   └── CacheJanitorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Failed services are restarted with backoff. Supervisor events are logged
through sutureslog, bridged to zerolog by logging.NewSlogLogger.
*/
package supervisor
