// Package devserver serves a project during development.
//
// The server rebuilds the project into the cache directory whenever a
// source file changes and serves the result. Paths that do not name an
// output file fall back to index.html so the client-side router can
// handle them.
//
// # Proxying
//
// Requests whose path starts with a configured proxy prefix are
// forwarded unchanged to the rule's target. Matching is a plain string
// prefix test and the longest matching prefix wins, so "/api" also
// matches "/apiary". With change_origin set, the outbound Host header is
// the target's host; otherwise the browser's Host is kept.
//
//	server:
//	  proxy:
//	    - prefix: /api
//	      target: http://localhost:8888
//	      change_origin: true
//
// # Ports
//
// When the configured port is busy the server tries the next ports,
// unless strict_port is set.
package devserver
