// Package http exposes a Sieve service as a JSON API.
//
// The surface mirrors the embedded OpenAPI document (served at
// /openapi.yaml, browsable at /swagger): catalog listing and editing under
// /schemas, cleaning at /schemas/{name}/clean, and schema change
// notifications as server-sent events at /events.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/ports"
	"github.com/aretw0/sieve/pkg/schema"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Service defines the interface the handlers require from the Sieve core.
type Service interface {
	Clean(ctx context.Context, name string, value any) (any, error)
	Names(ctx context.Context) ([]string, error)
	Definition(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, def []byte) error
	Delete(ctx context.Context, name string) error
	Watch(ctx context.Context) (<-chan string, error)
}

// CleanFailure is the body of 422 responses, aligned with the OpenAPI schema.
type CleanFailure struct {
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

// Server holds the handler dependencies.
type Server struct {
	svc     Service
	logger  *slog.Logger
	metrics http.Handler
	apiDoc  *openapi3.T
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the structured logger used by the handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts a metrics handler (e.g. observability.Metrics.Handler)
// at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for a Sieve service.
func NewHandler(svc Service, opts ...Option) http.Handler {
	server := &Server{
		svc:    svc,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}

	// Load and verify the embedded API document once; /info reports its
	// version and /openapi.yaml serves it verbatim.
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err == nil {
		err = doc.Validate(loader.Context)
	}
	if err != nil {
		server.logger.Error("embedded OpenAPI document is invalid", "err", err)
	} else {
		server.apiDoc = doc
	}

	r := chi.NewRouter()

	r.Get("/health", server.getHealth)
	r.Get("/info", server.getInfo)
	r.Get("/openapi.yaml", server.getOpenAPI)
	r.Get("/swagger", server.getSwagger)
	r.Get("/events", server.subscribeEvents)
	r.Route("/schemas", func(r chi.Router) {
		r.Get("/", server.listSchemas)
		r.Get("/{name}", server.getSchema)
		r.Put("/{name}", server.putSchema)
		r.Delete("/{name}", server.deleteSchema)
		r.Post("/{name}/clean", server.cleanValue)
	})
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Sieve API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// getHealth handles GET /health.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getInfo handles GET /info.
func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.apiDoc != nil && s.apiDoc.Info != nil {
		apiVersion = s.apiDoc.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "sieve-http",
		"version":     sieve.Version,
		"api_version": apiVersion,
	})
}

// getOpenAPI handles GET /openapi.yaml.
func (s *Server) getOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(openapiSpec)
}

// getSwagger handles GET /swagger.
func (s *Server) getSwagger(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(swaggerHTML))
}

// listSchemas handles GET /schemas.
func (s *Server) listSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.Names(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("List failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// getSchema handles GET /schemas/{name}.
func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, err := s.svc.Definition(r.Context(), name)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			http.Error(w, "Schema not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Get error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Get failed", "schema", name, "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(def)
}

// putSchema handles PUT /schemas/{name}.
func (s *Server) putSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, err := io.ReadAll(r.Body)
	if err != nil || len(def) == 0 {
		http.Error(w, "Empty request body", http.StatusBadRequest)
		return
	}

	if err := s.svc.Save(r.Context(), name, def); err != nil {
		if errors.Is(err, ports.ErrReadOnly) {
			http.Error(w, "Schema source is read-only", http.StatusForbidden)
			return
		}
		// The definition did not decode or did not verify. The store was
		// not touched.
		s.writeJSON(w, http.StatusUnprocessableEntity, CleanFailure{Message: err.Error()})
		s.logger.Warn("Save rejected", "schema", name, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteSchema handles DELETE /schemas/{name}.
func (s *Server) deleteSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.svc.Delete(r.Context(), name); err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			http.Error(w, "Schema not found", http.StatusNotFound)
		case errors.Is(err, ports.ErrReadOnly):
			http.Error(w, "Schema source is read-only", http.StatusForbidden)
		default:
			http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Delete failed", "schema", name, "err", err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cleanValue handles POST /schemas/{name}/clean.
func (s *Server) cleanValue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// UseNumber keeps large integers intact through the any-typed decode;
	// the engine accepts json.Number directly.
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Clean: invalid request body", "schema", name, "err", err)
		return
	}

	out, err := s.svc.Clean(r.Context(), name, value)
	if err != nil {
		var verr *schema.ValidationError
		switch {
		case errors.As(err, &verr):
			s.writeJSON(w, http.StatusUnprocessableEntity, CleanFailure{
				Message: verr.Message,
				Value:   verr.Value,
				Trace:   verr.Trace.String(),
			})
		case errors.Is(err, ports.ErrNotFound):
			http.Error(w, "Schema not found", http.StatusNotFound)
		default:
			// Undecodable or structurally broken schema definition: a
			// catalog problem, not a data problem.
			http.Error(w, fmt.Sprintf("Schema error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Clean failed", "schema", name, "err", err)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

// subscribeEvents handles GET /events (SSE).
func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	var filter *string
	if r.URL.Query().Has("schema") {
		var name string
		if err := runtime.BindQueryParameter("form", true, false, "schema", r.URL.Query(), &name); err != nil {
			http.Error(w, fmt.Sprintf("Invalid schema parameter: %v", err), http.StatusBadRequest)
			return
		}
		filter = &name
	}

	events, err := s.svc.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case name, ok := <-events:
			if !ok {
				return
			}
			if filter != nil && *filter != name {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", name)
			flusher.Flush()
		}
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
