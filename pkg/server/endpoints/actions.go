package endpoints

import (
	"net/http"

	"testlinkctl/pkg/server"
)

// ActionDescription documents one recognized prompt pattern.
type ActionDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var availableActions = []ActionDescription{
	{Name: "create project [name]", Description: "Creates a new TestLink project"},
	{Name: "list projects", Description: "Lists all available projects"},
	{Name: "create test case [name]", Description: "Creates a new test case"},
	{Name: "list test cases", Description: "Lists test cases across projects"},
	{Name: "create suite [name]", Description: "Creates a new test suite"},
	{Name: "delete project [name]", Description: "Deletes a project (disabled for safety)"},
	{Name: "what tests exist about [topic]?", Description: "Searches test cases related to a topic"},
	{Name: "search cases with [keyword]", Description: "Finds test cases containing keywords"},
}

// RegisterActionsEndpoint registers the action catalog endpoint
func RegisterActionsEndpoint(s *server.Server) {
	s.Router.HandleFunc("/testlink/actions", handleActions()).Methods("GET")
}

func handleActions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"actions": availableActions,
		})
	}
}
