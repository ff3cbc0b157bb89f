package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// bearerToken extracts the token from the authorization metadata. The
// "Bearer " scheme prefix is optional.
func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	token := strings.TrimSpace(values[0])
	if len(token) >= len(common.BearerPrefix) && strings.EqualFold(token[:len(common.BearerPrefix)], common.BearerPrefix) {
		token = strings.TrimSpace(token[len(common.BearerPrefix):])
	}
	return token
}

// sessionInterceptor resolves the bearer token of every non-public call into
// a Session stored in the context.
func (s *Server) sessionInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] || strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
		return handler(ctx, req)
	}

	token := bearerToken(ctx)
	if token == "" {
		s.metrics.RecordAuthFailure()
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	session, err := s.accounts.Authenticate(ctx, token)
	if err != nil {
		s.metrics.RecordAuthFailure()
		return nil, err
	}

	return handler(auth.ContextWithSession(ctx, session), req)
}

// errorInterceptor converts error kinds into gRPC statuses and logs
// server side failures.
func (s *Server) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}

	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.logger.Error(ctx, "request failed", "method", info.FullMethod, "error", err)
	}
	return nil, st
}

// metricsInterceptor records one observation per RPC.
func (s *Server) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.metrics.RecordRPC(info.FullMethod, status.Code(err).String(), time.Since(start))
	return resp, err
}
