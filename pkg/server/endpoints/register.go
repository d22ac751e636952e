package endpoints

import (
	"testlinkctl/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterPromptEndpoint(srv)
	RegisterHealthEndpoint(srv)
	RegisterActionsEndpoint(srv)
}
