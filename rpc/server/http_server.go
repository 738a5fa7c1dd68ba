package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/cometbft/osrand/config"
	"github.com/cometbft/osrand/crypto/osrand"
	"github.com/cometbft/osrand/libs/log"
)

const (
	// DefaultRandomBytes is served when /random is called without ?bytes.
	DefaultRandomBytes = 32

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// ResultRandom is the body of a successful /random response.
type ResultRandom struct {
	Bytes int    `json:"bytes"`
	Hex   string `json:"hex"`
}

// ResultHealth is the body of a /health response.
type ResultHealth struct {
	SyscallAvailable bool `json:"syscall_available"`
	PoolReady        bool `json:"pool_ready"`
}

// ResultError is the body of any failed request.
type ResultError struct {
	Error string `json:"error"`
}

// NewHandler returns the routes served by osrand: /random, /health and, when
// enabled, /metrics. Cross-origin requests are only answered when origins are
// configured.
func NewHandler(sys *osrand.System, cfg *config.InstrumentationConfig, logger log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/random", randomHandler(sys, cfg.MaxServeBytes, logger))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, ResultHealth{
			SyscallAvailable: sys.Available(),
			PoolReady:        sys.Ready(),
		})
	})
	if cfg.Prometheus {
		mux.Handle("/metrics", promhttp.Handler())
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		return mux
	}
	return cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}).Handler(mux)
}

func randomHandler(sys *osrand.System, maxBytes int, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeJSON(w, logger, http.StatusMethodNotAllowed, ResultError{Error: "method not allowed"})
			return
		}

		n := DefaultRandomBytes
		if s := r.URL.Query().Get("bytes"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 0 || v > maxBytes {
				writeJSON(w, logger, http.StatusBadRequest, ResultError{
					Error: "bytes must be an integer between 0 and " + strconv.Itoa(maxBytes),
				})
				return
			}
			n = v
		}

		buf := make([]byte, n)
		if err := sys.Fill(buf); err != nil {
			writeJSON(w, logger, http.StatusInternalServerError, ResultError{Error: err.Error()})
			return
		}
		writeJSON(w, logger, http.StatusOK, ResultRandom{Bytes: n, Hex: hex.EncodeToString(buf)})
	}
}

func writeJSON(w http.ResponseWriter, logger log.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to write response", "err", err)
	}
}

// Serve listens on addr and serves handler until ctx is cancelled, then shuts
// the server down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger log.Logger) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return ServeListener(ctx, listener, handler, logger)
}

// ServeListener is Serve on an existing listener.
func ServeListener(ctx context.Context, listener net.Listener, handler http.Handler, logger log.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "addr", listener.Addr().String())
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	logger.Info("Stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "serve")
	}
	return nil
}
