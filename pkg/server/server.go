package server

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"testlinkctl/pkg/config"
	"testlinkctl/pkg/dispatch"
	"testlinkctl/pkg/testlink"
)

type Server struct {
	Config *config.Config
	Router *mux.Router
	srv    *http.Server

	// The client can be swapped at runtime (configuration reload), so
	// handlers must go through Client/Dispatcher rather than caching either.
	mu         sync.RWMutex
	client     testlink.Client
	dispatcher *dispatch.Dispatcher
}

func NewServer(
	client testlink.Client,
	cfg *config.Config,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:     cfg,
		Router:     router,
		srv:        srv,
		client:     client,
		dispatcher: &dispatch.Dispatcher{Client: client},
	}
}

// Client returns the TestLink client currently in use.
func (s *Server) Client() testlink.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Dispatcher returns a dispatcher bound to the current client.
func (s *Server) Dispatcher() *dispatch.Dispatcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dispatcher
}

// SetClient replaces the TestLink client. In-flight requests keep the client
// they started with; new requests see the replacement.
func (s *Server) SetClient(client testlink.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
	s.dispatcher = &dispatch.Dispatcher{Client: client}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
