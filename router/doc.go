// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table using Go 1.22+ method/path
routing on the standard ServeMux.

	GET  /health
	GET  /metrics
	POST /polls
	GET  /polls/{id}
	POST /polls/{id}/vote   (behind the vote attempt limiter)
	GET  /polls/{id}/live   (websocket)
	GET  /
*/
package router
