package endpoints

import (
	"encoding/json"
	"net/http"

	"testlinkctl/pkg/dispatch"
	"testlinkctl/pkg/server"
)

// PromptRequest is the body of POST /testlink/prompt.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// PromptResponse is the envelope returned for every dispatched prompt.
type PromptResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	ActionTaken dispatch.Action `json:"action_taken"`
	Data        interface{}     `json:"data,omitempty"`
}

// RegisterPromptEndpoint registers the prompt dispatch endpoint
func RegisterPromptEndpoint(s *server.Server) {
	s.Router.HandleFunc("/testlink/prompt", handlePrompt(s)).Methods("POST")
}

func handlePrompt(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PromptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Prompt == "" {
			respondWithError(w, http.StatusBadRequest, "prompt must not be empty")
			return
		}

		// The client is resolved per request: a configuration reload may have
		// swapped it since the server started.
		dispatcher := s.Dispatcher()

		// Every request re-verifies the connection so a dead TestLink shows
		// up as a 500 here instead of a confusing action failure.
		if checker, ok := dispatcher.Client.(connectionChecker); ok {
			if err := checker.CheckConnection(); err != nil {
				respondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		result := dispatcher.Process(req.Prompt)
		respondWithJSON(w, http.StatusOK, PromptResponse{
			Success:     result.Success,
			Message:     result.Message,
			ActionTaken: result.Action,
			Data:        result.Data,
		})
	}
}

type connectionChecker interface {
	CheckConnection() error
}
