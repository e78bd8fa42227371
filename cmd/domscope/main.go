// CLAUDE:SUMMARY Entry point: one-shot scope queries over an HTML file, HTTP service mode (chi), MCP stdio mode.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/domscope/dom"
	"github.com/hazyhaar/domscope/inspect"
)

func main() {
	var (
		htmlPath  = flag.String("html", "", "one-shot mode: HTML file to query")
		byID      = flag.String("id", "", "one-shot: look up an element by id")
		anchor    = flag.String("anchor", "", "one-shot: resolve an anchor name")
		accessKey = flag.String("access-key", "", "one-shot: find the accesskey element")
		scopeArg  = flag.String("scope", "", "scope path of shadow host ids, e.g. outer/inner")

		configPath = flag.String("config", "", "service mode: YAML config file")
		dbPath     = flag.String("db", "", "service mode: SQLite path (overrides config)")
		addr       = flag.String("addr", ":8086", "service mode: HTTP listen address")
		mcpMode    = flag.Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
		logLevel   = flag.String("log-level", "info", "debug, info, warn, error")
	)
	flag.Parse()

	logger := buildLogger(*logLevel)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var err error
	if *htmlPath != "" {
		err = runOneShot(*htmlPath, *scopeArg, *byID, *anchor, *accessKey)
	} else {
		err = runService(ctx, logger, *configPath, *dbPath, *addr, *mcpMode)
	}
	if err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func buildLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// runOneShot parses a local HTML file and answers a single query on stdout.
func runOneShot(path, scopePath, byID, anchor, accessKey string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	defer doc.Release()

	scope := doc.Scope()
	for _, hostID := range strings.Split(scopePath, "/") {
		if hostID == "" {
			continue
		}
		host := scope.ElementByID(hostID)
		if host == nil || host.YoungestShadowRoot() == nil {
			return fmt.Errorf("scope path %q: no shadow host %q", scopePath, hostID)
		}
		scope = host.YoungestShadowRoot().Scope()
	}

	var el *dom.Node
	switch {
	case byID != "":
		el = scope.ElementByID(byID)
	case anchor != "":
		el = scope.FindAnchor(anchor)
	case accessKey != "":
		el = scope.ElementByAccessKey(accessKey)
	default:
		return errors.New("one-shot mode needs -id, -anchor, or -access-key")
	}

	out := map[string]any{"found": el != nil}
	if el != nil {
		out["tag"] = el.Tag
		out["id"] = el.ID()
		if markup, err := dom.OuterHTML(el); err == nil {
			out["outer_html"] = markup
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func runService(ctx context.Context, logger *slog.Logger, configPath, dbPath, addr string, mcpMode bool) error {
	cfg := &inspect.Config{}
	if configPath != "" {
		loaded, err := inspect.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	svc, err := inspect.New(cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if mcpMode {
		srv := mcp.NewServer(&mcp.Implementation{Name: "domscope", Version: "0.1.0"}, nil)
		svc.RegisterMCP(srv)
		logger.Info("mcp server on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	}

	router := buildRouter(svc)
	httpServer := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func buildRouter(svc *inspect.Inspector) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
			stats, err := svc.Stats(req.Context())
			respond(w, stats, err)
		})

		r.Get("/documents", func(w http.ResponseWriter, req *http.Request) {
			docs, err := svc.ListDocuments(req.Context())
			respond(w, docs, err)
		})

		r.Post("/documents/{key}", func(w http.ResponseWriter, req *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, 16<<20))
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			info, err := svc.LoadDocument(req.Context(),
				chi.URLParam(req, "key"), req.URL.Query().Get("url"), string(body))
			respond(w, info, err)
		})

		r.Delete("/documents/{key}", func(w http.ResponseWriter, req *http.Request) {
			err := svc.UnloadDocument(req.Context(), chi.URLParam(req, "key"))
			respond(w, map[string]string{"status": "deleted"}, err)
		})

		r.Get("/documents/{key}/element", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			key := chi.URLParam(req, "key")
			if q.Get("all") == "true" {
				res, err := svc.AllElementsByID(req.Context(), key, q.Get("scope"), q.Get("id"))
				respond(w, res, err)
				return
			}
			res, err := svc.ElementByID(req.Context(), key, q.Get("scope"), q.Get("id"))
			respond(w, res, err)
		})

		r.Get("/documents/{key}/anchor", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			res, err := svc.FindAnchor(req.Context(), chi.URLParam(req, "key"), q.Get("scope"), q.Get("name"))
			respond(w, res, err)
		})

		r.Get("/documents/{key}/access-key", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			res, err := svc.AccessKeyElement(req.Context(), chi.URLParam(req, "key"), q.Get("scope"), q.Get("k"))
			respond(w, res, err)
		})

		r.Get("/documents/{key}/fragment", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			res, err := svc.ResolveFragment(req.Context(), chi.URLParam(req, "key"), q.Get("scope"), q.Get("url"))
			respond(w, res, err)
		})

		r.Get("/documents/{key}/compare", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			res, err := svc.CompareScopes(req.Context(), chi.URLParam(req, "key"), q.Get("a"), q.Get("b"))
			respond(w, res, err)
		})

		r.Get("/documents/{key}/retarget", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			res, err := svc.Retarget(req.Context(), chi.URLParam(req, "key"), q.Get("scope"), q.Get("id"))
			respond(w, res, err)
		})
	})

	return r
}

func respond(w http.ResponseWriter, v any, err error) {
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(v)
}
