package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MaximilianIsing/SNAPwise-NYC/internal/advisor"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/geo"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/model"
	"github.com/MaximilianIsing/SNAPwise-NYC/internal/resolver"
	"github.com/MaximilianIsing/SNAPwise-NYC/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the store locator HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initApp(ctx)
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"status":      "ok",
				"stores":      env.Collection.Len(),
				"rowsDropped": env.Stats.Dropped,
			})
		})

		r.Get("/api/stores", handleStores(env))
		r.Get("/api/zip/{zip}", handleZip(env))
		r.Post("/api/chat", handleChat(env))

		if dir := cfg.Server.StaticDir; dir != "" {
			if _, err := os.Stat(dir); err == nil {
				r.Handle("/*", http.FileServer(http.Dir(dir)))
			} else {
				zap.L().Warn("static dir missing, not serving files", zap.String("dir", dir))
			}
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// handleStores answers GET /api/stores?lat=&lon=&radius=&healthy=&storeType=&limit=.
func handleStores(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()

		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil {
			writeError(w, http.StatusBadRequest, "lat and lon are required numbers")
			return
		}

		opts := geo.QueryOptions{
			RadiusMeters: env.DefaultRadius,
			Limit:        env.DefaultLimit,
			Health:       geo.ParseHealthFilter(q.Get("healthy")),
			StoreType:    q.Get("storeType"),
		}
		if s := q.Get("radius"); s != "" {
			radius, err := strconv.ParseFloat(s, 64)
			if err != nil || radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
				writeError(w, http.StatusBadRequest, "radius must be a positive number of meters")
				return
			}
			opts.RadiusMeters = radius
		}
		if s := q.Get("limit"); s != "" {
			if strings.EqualFold(s, "unlimited") {
				opts.Limit = geo.UnlimitedLimit
			} else if limit, err := strconv.Atoi(s); err == nil && limit > 0 {
				opts.Limit = limit
			}
			// anything else keeps the default cap
		}

		results, err := env.Collection.Query(model.Coordinate{Latitude: lat, Longitude: lon}, opts)
		if err != nil {
			if errors.Is(err, geo.ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, eris.Cause(err).Error())
				return
			}
			zap.L().Error("store query failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"count":  len(results),
			"stores": results,
		})
	}
}

// handleZip answers GET /api/zip/{zip} by resolving a ZIP to coordinates.
func handleZip(env *appEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		zip := chi.URLParam(req, "zip")

		coord, err := env.Resolver.Resolve(req.Context(), zip)
		if err != nil {
			switch {
			case errors.Is(err, geo.ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "invalid zip code")
			case errors.Is(err, resolver.ErrNotFound):
				writeError(w, http.StatusNotFound, "zip code not found")
			default:
				zap.L().Error("zip resolution failed", zap.String("zip", zip), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "resolution failed")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"zip":       geo.NormalizeZip(zip),
			"latitude":  coord.Latitude,
			"longitude": coord.Longitude,
		})
	}
}

// handleChat proxies POST /api/chat to the advisor, grounding the reply in
// the stores nearest the caller's location when one is supplied.
func handleChat(env *appEnv) http.HandlerFunc {
	type chatTurn struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type chatBody struct {
		SessionID string     `json:"sessionId"`
		Message   string     `json:"message"`
		History   []chatTurn `json:"history"`
		Latitude  *float64   `json:"latitude"`
		Longitude *float64   `json:"longitude"`
	}

	return func(w http.ResponseWriter, req *http.Request) {
		if env.Advisor == nil {
			writeError(w, http.StatusServiceUnavailable, "advisor is not configured")
			return
		}

		var body chatBody
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(body.Message) == "" {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}

		var stores []model.StoreWithDistance
		if body.Latitude != nil && body.Longitude != nil {
			origin := model.Coordinate{Latitude: *body.Latitude, Longitude: *body.Longitude}
			stores, _ = env.Collection.Query(origin, geo.QueryOptions{Limit: 10})
		}

		history := make([]anthropic.Message, 0, len(body.History))
		for _, t := range body.History {
			history = append(history, anthropic.Message{Role: t.Role, Content: t.Content})
		}

		resp, err := env.Advisor.Chat(req.Context(), advisor.ChatRequest{
			SessionID: body.SessionID,
			Message:   body.Message,
			History:   history,
			Stores:    stores,
		})
		if err != nil {
			zap.L().Error("chat failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "chat failed")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
