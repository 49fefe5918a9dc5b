package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/sap156/zillow-mcp-server/mcpserver"
)

// BuildRouter assembles the HTTP transport: the MCP endpoint under /mcp and
// a plain health probe.
func BuildRouter(srv *mcpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, srv.Health(req.Context()))
	})

	r.Mount("/mcp", srv.HTTPHandler())

	return r
}
