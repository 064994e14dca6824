package main

import (
	"fmt"
	"net/http"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/debatify/go/internal/debates"
	"github.com/mcdev12/debatify/go/internal/timer/gateway"
)

func setupServer(config *Config, services *Services) *http.Server {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	registerServices(mux, services)

	// Add health check endpoint
	setupHealthCheck(mux)

	// Wrap with CORS
	handler := c.Handler(mux)

	// Setup HTTP/2 server
	return &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Server.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	// Timer views over WebSocket
	gateway.NewWebSocketHandler(services.Connections).RegisterRoutes(mux)

	// Timer panel over REST
	gateway.NewStateHandler(services.Timer).RegisterStateRoutes(mux)

	// Register debate service
	if services.Debates != nil {
		debateServicePath, debateServiceHandler := debates.NewDebateServiceHandler(services.Debates)
		mux.Handle(debateServicePath, debateServiceHandler)
	}
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Warn().Err(err).Msg("failed to write health check response")
		}
	})
}
