// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clayui.org/internal/document"
	"clayui.org/layout"
	"clayui.org/metrics"
)

// maxDocumentSize bounds the body of a layout request.
const maxDocumentSize = 1 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the layout HTTP server",
	Long: `Serves POST /layout, which lays out the YAML document in the request body
and responds with its render commands as JSON, and Prometheus metrics on
/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		workers, _ := cmd.Flags().GetInt("workers")

		s, err := newServer(workers, options(cmd)...)
		if err != nil {
			return err
		}
		defer s.Close()

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting layout server", zap.String("addr", srv.Addr), zap.Int("workers", workers))
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", zap.Stringer("signal", sig))

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", zap.Error(err))
				if err := srv.Close(); err != nil {
					return fmt.Errorf("closing server: %w", err)
				}
			}
			logger.Info("server stopped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().IntP("workers", "w", 4, "Number of layout contexts serving requests")
}

// server lays out documents with a fixed set of contexts. A request
// holds a context for the duration of one pass.
type server struct {
	contexts chan *layout.Context
	all      []*layout.Context
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	// maxElements is the element limit of the contexts.
	maxElements int
}

func newServer(workers int, opts ...layout.Option) (*server, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("invalid number of workers %d", workers)
	}
	s := &server{
		contexts: make(chan *layout.Context, workers),
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clay_http_requests_total",
				Help: "Number of layout requests by response code.",
			},
			[]string{"code"},
		),
	}
	collector := metrics.NewCollector()
	for i := 0; i < workers; i++ {
		ctx, err := layout.New(defaultWidth, defaultHeight, opts...)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.all = append(s.all, ctx)
		s.contexts <- ctx
		s.maxElements = ctx.MaxElements()
		collector.Add(strconv.Itoa(i), ctx)
	}
	s.registry.MustRegister(
		collector,
		s.requests,
		collectors.NewGoCollector(),
	)
	return s, nil
}

func (s *server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/layout", s.layout)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// layout handles POST /layout. The width and height query parameters
// override the document's dimensions.
func (s *server) layout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	doc, err := document.Parse(body)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	// Documents that cannot fit are rejected before holding a context.
	if n := doc.Count(); n > s.maxElements {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("document declares %d elements, limit %d", n, s.maxElements))
		return
	}
	width, height, err := queryDimensions(r, or(doc.Width, defaultWidth), or(doc.Height, defaultHeight))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	var ctx *layout.Context
	select {
	case ctx = <-s.contexts:
	case <-r.Context().Done():
		s.fail(w, http.StatusServiceUnavailable, r.Context().Err())
		return
	}
	defer func() { s.contexts <- ctx }()

	ctx.SetDimensions(width, height)
	res := run(ctx, doc)
	s.requests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *server) fail(w http.ResponseWriter, code int, err error) {
	s.requests.WithLabelValues(strconv.Itoa(code)).Inc()
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// Close releases the contexts. It must not be called while requests
// are being served.
func (s *server) Close() {
	for _, ctx := range s.all {
		ctx.Close()
	}
}

func queryDimensions(r *http.Request, defW, defH float32) (float32, float32, error) {
	parse := func(name string, def float32) (float32, error) {
		v := r.URL.Query().Get(name)
		if v == "" {
			return def, nil
		}
		f, err := strconv.ParseFloat(v, 32)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("invalid %s %q", name, v)
		}
		return float32(f), nil
	}
	w, err := parse("width", defW)
	if err != nil {
		return 0, 0, err
	}
	h, err := parse("height", defH)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response", zap.Error(err))
	}
}
