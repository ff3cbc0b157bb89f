package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/rush/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Recorder receives RPC telemetry.
type Recorder interface {
	RecordRPC(method, code string, duration time.Duration)
	RecordAuthFailure()
}

type Server struct {
	address  string
	accounts Accounts
	metrics  Recorder
	logger   logging.Logger
	health   *health.Server
	srv      *grpc.Server
}

// NewServer builds the gRPC server with the Q&A service and the standard
// health service. Health reports NOT_SERVING until SetServing is called.
func NewServer(address string, l logging.Logger, accounts Accounts, questions Questions, answers Answers, m Recorder) *Server {
	s := &Server{
		address:  address,
		accounts: accounts,
		metrics:  m,
		logger:   l.With("module", "grpc_server"),
		health:   health.NewServer(),
	}

	s.srv = grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.errorInterceptor,
		s.sessionInterceptor,
	))

	s.srv.RegisterService(&serviceDesc, &qaHandler{accounts: accounts, questions: questions, answers: answers})
	healthpb.RegisterHealthServer(s.srv, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return s
}

// SetServing flips health to SERVING once the backing store is ready.
func (s *Server) SetServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then drains in-flight
// calls and returns.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		s.srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return s.srv.Serve(lis)
}
