// Package server provides the HTTP facade over the TestLink XML-RPC API.
//
// It uses gorilla/mux for routing and wraps the router in a logging handler.
// The facade exposes three endpoints, registered via the endpoints
// subpackage:
//
//	endpoints.RegisterAll(srv)
//
//   - POST /testlink/prompt - dispatch a free-text prompt to a TestLink action
//   - GET /testlink/health - liveness check
//   - GET /testlink/actions - the recognized prompt patterns
package server
