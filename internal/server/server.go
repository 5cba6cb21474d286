package server

import (
	"context"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/Zereker/vecdb/internal/api/consumer"
	"github.com/Zereker/vecdb/internal/api/http"
	"github.com/Zereker/vecdb/pkg/embed"
	"github.com/Zereker/vecdb/pkg/log"
	"github.com/Zereker/vecdb/pkg/metrics"
	"github.com/Zereker/vecdb/pkg/redis"
	"github.com/Zereker/vecdb/pkg/vector"
)

const shutdownTimeout = 10 * time.Second

// Server wires the index client, the gateway and the queue consumer
type Server struct {
	config   Config
	logger   *slog.Logger
	exporter *metrics.Exporter
	index    *vector.Client
	embedder embed.Embedder
	ledger   *redis.Ledger
	consumer *consumer.Consumer
}

// NewServer creates a new server with the given configuration. The index
// host is resolved here unless configured.
func NewServer(ctx context.Context, conf Config) (*Server, error) {
	server := &Server{
		config: conf,
	}

	if err := server.initDepend(ctx); err != nil {
		return nil, errors.WithMessage(err, "init server dependency failed")
	}

	if err := server.initConsumer(); err != nil {
		return nil, errors.WithMessage(err, "init consumer failed")
	}

	return server, nil
}

// initDepend initializes all dependencies
func (s *Server) initDepend(ctx context.Context) error {
	// Initialize log first
	if err := log.Init(s.config.Log); err != nil {
		return errors.WithMessage(err, "failed to init log")
	}

	s.logger = log.Logger("server")
	s.logger.Info("initializing dependencies")

	s.exporter = metrics.NewExporter(metrics.DefaultConfig())

	s.logger.Info("initializing index client", "index", s.config.Index.Index)
	client, err := vector.NewClient(ctx, s.config.Index, s.exporter.Wrap(vector.NewHTTPClient()))
	if err != nil {
		return errors.WithMessage(err, "failed to init index client")
	}
	s.index = client
	s.logger.Info("index client ready", "host", client.Host())

	if s.config.Embedding.Enabled {
		s.logger.Info("initializing embedder", "model", s.config.Embedding.Model)
		s.embedder = embed.NewOpenAI(s.config.Embedding, nil)
	}

	if s.config.Redis.Enabled {
		s.logger.Info("initializing redis ledger", "addr", s.config.Redis.Addr)
		ledger, err := redis.NewLedger(s.config.Redis)
		if err != nil {
			return errors.WithMessage(err, "failed to init redis")
		}
		s.ledger = ledger
	}

	return nil
}

// initConsumer initializes the command consumer
func (s *Server) initConsumer() error {
	s.logger.Info("initializing consumer")

	cfg := consumer.Config{Kafka: s.config.Kafka}
	if s.ledger != nil {
		cfg.Ledger = s.ledger
	}

	c, err := consumer.NewConsumer(s.index, cfg)
	if err != nil {
		return errors.WithMessage(err, "failed to create consumer")
	}

	s.consumer = c
	return nil
}

// Index returns the index client
func (s *Server) Index() *vector.Client {
	return s.index
}

// Embedder returns the embedder, nil when embedding is disabled
func (s *Server) Embedder() embed.Embedder {
	return s.embedder
}

// Start runs the gateway and the consumer until SIGINT/SIGTERM or ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting", "addr", s.config.Server.Addr())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.runConsumer(ctx)
	})

	g.Go(func() error {
		return s.runHTTPServer(ctx)
	})

	return g.Wait()
}

// Shutdown releases background resources
func (s *Server) Shutdown() error {
	s.logger.Info("shutting down")

	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			s.logger.Error("failed to stop consumer", "error", err)
		}
	}

	if s.ledger != nil {
		if err := s.ledger.Close(); err != nil {
			s.logger.Error("failed to close redis", "error", err)
		}
	}

	return nil
}

func (s *Server) newHTTPServer() *http.Server {
	handler := http.NewHandler(s.index, s.embedder, s.exporter.Handler())
	return http.NewServer(handler, s.config.Server)
}

func (s *Server) runHTTPServer(ctx context.Context) error {
	srv := s.newHTTPServer()

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return errors.WithMessage(err, "http server error")
	}
	return nil
}

func (s *Server) runConsumer(ctx context.Context) error {
	if err := s.consumer.Start(ctx); err != nil {
		return errors.WithMessage(err, "consumer start error")
	}

	// Wait for context cancellation
	<-ctx.Done()

	return s.consumer.Stop()
}
