// Package jbr is an optional HTTP/WebSocket façade over a store collection:
// PUT a document, POST a query that streams NDJSON matches, or open a
// WebSocket that live-tails a query against newly stored documents. It is
// the one place in this module where the matcher core touches the network.
package jbr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ejql/ejql/internal/store"
)

// Server wraps a fiber.App bound to a store.DB.
type Server struct {
	app      *fiber.App
	store    *store.DB
	log      *slog.Logger
	config   Config
	verifier *verifier
	tails    *tailRegistry
	version  string
}

// Options configures New.
type Options struct {
	Config Config
	Store  *store.DB
	Logger *slog.Logger
	// Version is reported from the meta endpoint.
	Version string
}

// New builds a Server and registers its routes. It does not start listening;
// call Start for that.
func New(ctx context.Context, opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "jbr")

	v, err := newVerifier(ctx, opts.Config.OIDC, log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           opts.Config.HTTPServerTimeout,
			WriteTimeout:          opts.Config.HTTPServerTimeout,
		}),
		store:    opts.Store,
		log:      log,
		config:   opts.Config,
		verifier: v,
		tails:    newTailRegistry(),
		version:  opts.Version,
	}

	s.app.Get("/meta", s.handleMeta)
	s.registerDocs()

	api := s.app.Group("/collections/:name", s.verifier.middleware())
	api.Put("/docs", s.handlePutDoc)
	api.Post("/query", s.handleQuery)

	s.app.Use("/collections/:name/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/collections/:name/stream", websocket.New(s.handleStream))

	return s, nil
}

// Start blocks serving HTTP on the configured host/port.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.log.Info("starting jbr server", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down jbr server")
	return s.app.ShutdownWithContext(ctx)
}

// MetaResponse reports basic server metadata.
type MetaResponse struct {
	Version       string `json:"version"`
	Authenticated bool   `json:"authenticated"`
}

// handleMeta returns server metadata.
// GET /meta
func (s *Server) handleMeta(c *fiber.Ctx) error {
	return SendSuccess(c, fiber.StatusOK, MetaResponse{
		Version:       s.version,
		Authenticated: s.verifier != nil,
	})
}
