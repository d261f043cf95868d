// Command manualscan serves the ship-document title extraction service: an
// HTTP API for folder scans, one-off identification calls and XLSX report
// export, plus an optional MCP stdio surface exposing the same operations as
// tools.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/anujgupta2in/Manualsscan/dbopen"
	"github.com/anujgupta2in/Manualsscan/idgen"
	"github.com/anujgupta2in/Manualsscan/scan"
	"github.com/anujgupta2in/Manualsscan/shield"
	"github.com/anujgupta2in/Manualsscan/titlescan"
	_ "github.com/anujgupta2in/Manualsscan/trace"
)

const version = "1.0.0"

func main() {
	port := env("PORT", "8090")
	configPath := env("CONFIG", "manualscan.yaml")
	mcpTransport := env("MCP_TRANSPORT", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := scan.LoadConfig(configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	cfg.Logger = logger

	// Scan DB — "sqlite-trace" driver gives transparent SQL logging.
	db, err := dbopen.Open(cfg.DatabasePath,
		dbopen.WithMkdirAll(),
		dbopen.WithTrace(),
		dbopen.WithSchema(scan.StoreSchema),
		dbopen.WithSchema(shield.Schema))
	if err != nil {
		slog.Error("scan db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	metrics := scan.NewMetrics()
	scanner := scan.NewScanner(cfg, metrics)
	manager := scan.NewManager(scanner, db, logger)

	// Optional MCP stdio surface alongside HTTP.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "manualscan",
			Version: version,
		}, nil)
		titlescan.RegisterMCP(mcpSrv)
		manager.RegisterMCP(mcpSrv)
		go func() {
			slog.Info("MCP stdio starting")
			if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				slog.Error("MCP stdio", "error", err)
			}
		}()
	}

	r := chi.NewRouter()
	stack, rl := shield.DefaultAPIStack(db)
	rl.StartReloader(ctx.Done())
	for _, mw := range stack {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok", "version": version})
	})
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/scans", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Root    string `json:"root"`
				Workers int    `json:"workers"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Root == "" {
				writeError(w, 400, "root is required")
				return
			}
			// The scan must outlive this request; ctx bounds the service.
			id, err := manager.StartScan(ctx, body.Root, body.Workers)
			if err != nil {
				writeError(w, 400, err.Error())
				return
			}
			writeJSON(w, 202, map[string]string{"id": id, "status": "running"})
		})

		r.Get("/scans", func(w http.ResponseWriter, req *http.Request) {
			limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
			scans, err := manager.ListScans(req.Context(), limit)
			if err != nil {
				writeError(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, scans)
		})

		r.Get("/scans/{id}", func(w http.ResponseWriter, req *http.Request) {
			info, err := manager.GetScan(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeScanError(w, err)
				return
			}
			writeJSON(w, 200, info)
		})

		r.Post("/scans/{id}/stop", func(w http.ResponseWriter, req *http.Request) {
			if err := manager.StopScan(req.Context(), chi.URLParam(req, "id")); err != nil {
				writeScanError(w, err)
				return
			}
			writeJSON(w, 200, map[string]string{"status": "stopping"})
		})

		r.Get("/scans/{id}/results", func(w http.ResponseWriter, req *http.Request) {
			results, err := manager.Results(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeScanError(w, err)
				return
			}
			writeJSON(w, 200, results)
		})

		r.Get("/scans/{id}/export", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			info, err := manager.GetScan(req.Context(), id)
			if err != nil {
				writeScanError(w, err)
				return
			}
			results, err := manager.Results(req.Context(), id)
			if err != nil {
				writeScanError(w, err)
				return
			}
			data, err := scan.ExportXLSX(results, info.Counters)
			if err != nil {
				writeError(w, 500, err.Error())
				return
			}
			name := idgen.Timestamped(func() string { return id })() + ".xlsx"
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
			w.WriteHeader(200)
			w.Write(data)
		})

		r.Post("/identify", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Text       string            `json:"text"`
				Filename   string            `json:"filename"`
				FolderPath string            `json:"folder_path"`
				Metadata   map[string]string `json:"metadata"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, 400, "invalid JSON body")
				return
			}
			name := titlescan.IdentifyManualName(body.Text, body.Filename, body.FolderPath, body.Metadata)
			conf, clues := titlescan.ScoreConfidence(body.Text, name, body.Filename, body.FolderPath, body.Metadata)
			writeJSON(w, 200, map[string]any{
				"name":       name,
				"confidence": conf,
				"clues":      clues,
			})
		})

		r.Post("/classify", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Text       string `json:"text"`
				Filename   string `json:"filename"`
				FolderPath string `json:"folder_path"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, 400, "invalid JSON body")
				return
			}
			writeJSON(w, 200, map[string]string{
				"doc_type": string(titlescan.ClassifyDocType(body.Text, body.Filename, body.FolderPath)),
			})
		})

		r.Post("/fields", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Text string `json:"text"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, 400, "invalid JSON body")
				return
			}
			fields := titlescan.ExtractFields(body.Text, titlescan.LabelPatterns)
			for label, value := range titlescan.ExtractFields(body.Text, titlescan.MetadataPatterns) {
				fields[label] = value
			}
			writeJSON(w, 200, map[string]any{"fields": fields})
		})
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeScanError(w http.ResponseWriter, err error) {
	if errors.Is(err, scan.ErrScanNotFound) {
		writeError(w, 404, "scan not found")
		return
	}
	writeError(w, 500, err.Error())
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
