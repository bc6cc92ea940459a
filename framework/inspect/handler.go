// Package inspect exposes a read-only view of a container over HTTP.
//
// Nothing is ever resolved through the handler; it only reports what is
// registered, what has been cached and how aliases are tagged.
//
//	GET /                      → {"data": {"id", "definitions", "resolved"}}
//	GET /definitions           → {"data": [definition, ...]}  (sorted by alias)
//	GET /definitions/{alias}   → {"data": definition} or 404
//	GET /tags/{tag}            → {"data": ["alias", ...]}
package inspect

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
)

// Handler serves container diagnostics.
type Handler struct {
	c   *container.Container
	log *zap.Logger
	mux chi.Router
}

// Definition is the JSON view of a registered definition.
type Definition struct {
	Alias        string            `json:"alias"`
	Class        string            `json:"class"`
	Shared       bool              `json:"shared"`
	Args         []string          `json:"args"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Resolved     bool              `json:"resolved"`
}

// Summary is the JSON view returned by GET /.
type Summary struct {
	ID          string `json:"id"`
	Definitions int    `json:"definitions"`
	Resolved    int    `json:"resolved"`
}

// New creates a Handler for c. A nil logger disables request logging.
func New(c *container.Container, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{c: c, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/", h.summary)
	r.Get("/definitions", h.definitions)
	r.Get("/definitions/{alias}", h.definition)
	r.Get("/tags/{tag}", h.tag)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { notFound(w, "Not found.") })

	h.mux = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.mux.ServeHTTP(w, req)
}

// ── Routes ───────────────────────────────────────────────────────────────────

func (h *Handler) summary(w http.ResponseWriter, _ *http.Request) {
	aliases := h.c.Aliases()
	resolved := 0
	for _, a := range aliases {
		if h.c.Resolved(a) {
			resolved++
		}
	}
	success(w, Summary{ID: h.c.ID(), Definitions: len(aliases), Resolved: resolved})
}

func (h *Handler) definitions(w http.ResponseWriter, _ *http.Request) {
	aliases := h.c.Aliases()
	out := make([]Definition, 0, len(aliases))
	for _, a := range aliases {
		if d, ok := h.view(a); ok {
			out = append(out, d)
		}
	}
	success(w, out)
}

func (h *Handler) definition(w http.ResponseWriter, req *http.Request) {
	alias := chi.URLParam(req, "alias")
	d, ok := h.view(alias)
	if !ok {
		notFound(w, "No definition registered for ["+container.Normalize(alias)+"].")
		return
	}
	success(w, d)
}

func (h *Handler) tag(w http.ResponseWriter, req *http.Request) {
	aliases := h.c.TagAliases(chi.URLParam(req, "tag"))
	if aliases == nil {
		aliases = []string{}
	}
	success(w, aliases)
}

// view builds the JSON view of alias, if registered.
func (h *Handler) view(alias string) (Definition, bool) {
	def, ok := h.c.Definition(alias)
	if !ok {
		return Definition{}, false
	}
	args := make([]string, len(def.Args))
	for i, a := range def.Args {
		args[i] = a.String()
	}
	return Definition{
		Alias:        container.Normalize(alias),
		Class:        def.Class,
		Shared:       def.Shared,
		Args:         args,
		Dependencies: def.Dependencies,
		Resolved:     h.c.Resolved(alias),
	}, true
}

// ── Middleware ───────────────────────────────────────────────────────────────

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.log.Info("inspect request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("took", time.Since(start)),
		)
	})
}
