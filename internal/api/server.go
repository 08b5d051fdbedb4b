package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bloom-dao/bloomgov/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultListenAddress keeps the API on the loopback interface unless an
// address is configured
const DefaultListenAddress = "127.0.0.1:8080"

// Config holds the REST API settings
type Config struct {
	ListenAddress string
}

// Services are the use cases the API serves
type Services struct {
	Chain            usecase.Chain
	ListProposals    *usecase.ListProposals
	ShowProposal     *usecase.ShowProposal
	ShowAccount      *usecase.ShowAccount
	ShowPaymaster    *usecase.ShowPaymaster
	CheckEligibility *usecase.CheckEligibility
	RelayTransaction *usecase.RelayTransaction
}

// Server exposes governance and paymaster state over HTTP and relays
// transactions built by clients
type Server struct {
	config     Config
	logger     *slog.Logger
	services   Services
	gatherer   prometheus.Gatherer
	metrics    *metrics
	httpServer *http.Server
	addr       net.Addr
	mu         sync.Mutex
}

// New creates a new API server. A nil registry disables /metrics.
func New(
	cfg Config,
	services Services,
	reg *prometheus.Registry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	s := &Server{
		config:   cfg,
		logger:   logger,
		services: services,
	}
	if reg != nil {
		s.gatherer = reg
		s.metrics = newMetrics(reg)
	}
	return s
}

// Handler returns the routes of the API
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "GET /health", s.handleHealth)
	s.handle(mux, "GET /api/proposals", s.handleListProposals)
	s.handle(mux, "GET /api/proposals/{id}", s.handleGetProposal)
	s.handle(mux, "GET /api/proposals/{id}/votes/{address}", s.handleGetVote)
	s.handle(mux, "GET /api/votes/power/{address}", s.handleVotingPower)
	s.handle(mux, "GET /api/accounts/{address}", s.handleAccount)
	s.handle(mux, "GET /api/paymaster/stats", s.handlePaymasterStats)
	s.handle(mux, "GET /api/paymaster/parameters", s.handlePaymasterParameters)
	s.handle(mux, "GET /api/paymaster/users/{address}", s.handlePaymasterUser)
	s.handle(mux, "GET /api/paymaster/eligibility/{address}", s.handleEligibility)
	s.handle(mux, "POST /api/transactions", s.handleRelayTransaction)
	s.handle(mux, "POST /api/transactions/hash", s.handleSigningHash)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.metrics == nil {
		mux.HandleFunc(pattern, h)
		return
	}
	mux.Handle(pattern, s.metrics.instrument(pattern, h))
}

// Start starts listening and serving. The server shuts down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}

	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 60 * time.Second,
	}
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	s.httpServer = server
	s.addr = ln.Addr()
	s.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	s.logger.Info("API listener started on " + ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Stop(shutdownCtx); err != nil {
			s.logger.Error("failed to shutdown API server on context cancellation", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if srv != nil {
		s.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown API server: %w", err)
		}
	}
	return nil
}

// Addr returns the bound address once the server is started
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}
