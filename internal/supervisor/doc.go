// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package supervisor runs Doorly's long-lived components under a suture v4
supervision tree.

	doorly (root)
	├── data-layer    response cache janitor, audit retention
	├── sync-layer    Instagram insights sync (when SYNC_ENABLED)
	└── api-layer     HTTP server

Failed services are restarted with exponential backoff once
FailureThreshold is crossed. Supervisor events are logged through
sutureslog into the zerolog-backed slog handler from package logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewCacheService(responseCache))
	tree.AddDataService(auditLogger)
	tree.AddSyncService(services.NewSyncService(syncer))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
