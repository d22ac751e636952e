package endpoints

import (
	"net/http"

	"testlinkctl/pkg/server"
)

// HealthResponse represents the response from /testlink/health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// RegisterHealthEndpoint registers the liveness endpoint. It reports on the
// facade itself, not on TestLink reachability.
func RegisterHealthEndpoint(s *server.Server) {
	s.Router.HandleFunc("/testlink/health", handleHealth()).Methods("GET")
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: "TestLink prompt API",
		})
	}
}
