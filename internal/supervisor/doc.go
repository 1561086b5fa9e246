// NestScout - Preference-Learning Real Estate Recommendation Pipeline
// Copyright 2026 NestScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

/*
Package supervisor provides process supervision for NestScout using suture v4.

The tree organizes long-running services into two layers:

	Root ("nestscout")
	├── PipelineSupervisor ("pipeline-layer")
	│   └── session manager (feedback consumer + session reaper)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Crashed services restart automatically with exponential backoff, and each
layer restarts independently of the other. Supervisor events are logged
through sutureslog into the shared zerolog sink.
*/
package supervisor
