package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/ctrm-fit/internal/advisor"
	"github.com/sells-group/ctrm-fit/internal/config"
	"github.com/sells-group/ctrm-fit/internal/feedback"
	"github.com/sells-group/ctrm-fit/internal/model"
	"github.com/sells-group/ctrm-fit/internal/resilience"
)

const maxBodyBytes = 1 << 20

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recommendation and feedback HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		env, err := initAdvisor(ctx, cfg, config.ModeServe)
		if err != nil {
			return err
		}
		defer env.Close()

		router := buildRouter(env.Advisor, cfg.Server.CORSOrigins)
		shutdown := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		return startServer(ctx, router, resolvePort(servePort, cfg.Server.Port), shutdown)
	},
}

// feedbackRequest is the body of POST /v1/feedback. RecordID is set when
// resubmitting after a failed persist, with the id from the error response.
type feedbackRequest struct {
	Answers  model.UserAnswers `json:"answers"`
	Feedback feedback.Input    `json:"feedback"`
	RecordID string            `json:"recordId,omitempty"`
}

// suggestionRequest is the body of POST /v1/suggestion. An empty product
// suggests for the ideal fit.
type suggestionRequest struct {
	Answers model.UserAnswers `json:"answers"`
	Product model.ProductID   `json:"product,omitempty"`
}

type errorResponse struct {
	Error   string        `json:"error"`
	Reasons []string      `json:"reasons,omitempty"`
	Record  *model.Record `json:"record,omitempty"`
}

// buildRouter wires the HTTP API around adv.
func buildRouter(adv *advisor.Advisor, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, adv.Catalog())
		})

		r.Get("/questions", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, model.Questions())
		})

		r.Post("/recommend", func(w http.ResponseWriter, req *http.Request) {
			var answers model.UserAnswers
			if !decodeBody(w, req, &answers) {
				return
			}
			explain := req.URL.Query().Get("explain") == "true"

			res, err := adv.Recommend(req.Context(), answers, explain)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, res)
		})

		r.Post("/suggestion", func(w http.ResponseWriter, req *http.Request) {
			var body suggestionRequest
			if !decodeBody(w, req, &body) {
				return
			}

			p, text, err := adv.Suggest(req.Context(), body.Answers, body.Product)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, map[string]any{
				"product":    p,
				"suggestion": text,
			})
		})

		r.Post("/feedback", func(w http.ResponseWriter, req *http.Request) {
			var body feedbackRequest
			if !decodeBody(w, req, &body) {
				return
			}

			var (
				rec model.Record
				err error
			)
			if body.RecordID != "" {
				rec, err = adv.SubmitAs(req.Context(), body.RecordID, body.Answers, body.Feedback)
			} else {
				rec, err = adv.Submit(req.Context(), body.Answers, body.Feedback)
			}
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusCreated, map[string]any{
				"status": "recorded",
				"record": rec,
			})
		})
	})

	return r
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// respondError maps advisor errors to status codes. A persistence failure
// echoes the validated record; the client resubmits with its recordId.
func respondError(w http.ResponseWriter, err error) {
	var (
		answersErr *advisor.AnswersError
		invalid    *feedback.ValidationError
		persistErr *advisor.PersistError
	)
	switch {
	case errors.As(err, &answersErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: answersErr.Error()})
	case errors.As(err, &invalid):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid feedback", Reasons: invalid.Reasons})
	case errors.As(err, &persistErr):
		status := http.StatusBadGateway
		if resilience.IsTransient(persistErr.Err) {
			status = http.StatusServiceUnavailable
		}
		rec := persistErr.Record
		respondJSON(w, status, errorResponse{Error: "feedback was not recorded: " + persistErr.Error(), Record: &rec})
	default:
		zap.L().Error("api: request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// resolvePort prefers the flag value over the configured port.
func resolvePort(flagPort, cfgPort int) int {
	if flagPort != 0 {
		return flagPort
	}
	return cfgPort
}

// startServer serves handler on port until ctx is done, then shuts down
// gracefully within shutdownTimeout.
func startServer(ctx context.Context, handler http.Handler, port int, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server listen")
	}
	<-done
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
