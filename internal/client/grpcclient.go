// Package client is a Go client for the Q&A gRPC service.
package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	gs "github.com/dmitrijs2005/rush/internal/server/grpc"
)

// GRPCClient holds one connection and the session token from the last
// successful Login. It is not safe to call Login concurrently with other
// methods.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	token       string
}

func withToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.token != "" {
		ctx = withToken(ctx, s.token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects to endpointURL. Extra dial options are appended
// to the defaults (insecure transport, JSON codec).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(gs.CodecName)),
		grpc.WithUnaryInterceptor(c.tokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// SetToken reuses a token obtained earlier, e.g. from the environment.
func (s *GRPCClient) SetToken(token string) { s.token = token }

func (s *GRPCClient) Token() string { return s.token }

func (s *GRPCClient) invoke(ctx context.Context, method string, in, out any) error {
	return s.mapError(s.conn.Invoke(ctx, "/"+gs.ServiceName+"/"+method, in, out))
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (models.AccountID, error) {
	var resp gs.RegisterResponse
	if err := s.invoke(ctx, "Register", &models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return 0, err
	}
	return resp.AccountID, nil
}

// Login stores the issued token for subsequent calls and returns it.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (string, error) {
	var resp gs.LoginResponse
	if err := s.invoke(ctx, "Login", &models.Credentials{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	s.token = resp.Token
	return resp.Token, nil
}

func (s *GRPCClient) ListQuestions(ctx context.Context, limit *int, offset int) ([]models.Question, error) {
	var resp gs.ListQuestionsResponse
	if err := s.invoke(ctx, "ListQuestions", &gs.ListQuestionsRequest{Limit: limit, Offset: offset}, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

func (s *GRPCClient) GetQuestion(ctx context.Context, id models.QuestionID) (models.Question, error) {
	var q models.Question
	err := s.invoke(ctx, "GetQuestion", &gs.QuestionRequest{ID: id}, &q)
	return q, err
}

func (s *GRPCClient) AddQuestion(ctx context.Context, nq models.NewQuestion) (models.Question, error) {
	var q models.Question
	err := s.invoke(ctx, "AddQuestion", &nq, &q)
	return q, err
}

func (s *GRPCClient) UpdateQuestion(ctx context.Context, id models.QuestionID, q models.Question) (models.Question, error) {
	var out models.Question
	err := s.invoke(ctx, "UpdateQuestion", &gs.UpdateQuestionRequest{ID: id, Question: q}, &out)
	return out, err
}

func (s *GRPCClient) DeleteQuestion(ctx context.Context, id models.QuestionID) error {
	var resp gs.DeleteQuestionResponse
	return s.invoke(ctx, "DeleteQuestion", &gs.QuestionRequest{ID: id}, &resp)
}

func (s *GRPCClient) AddAnswer(ctx context.Context, na models.NewAnswer) (models.Answer, error) {
	var a models.Answer
	err := s.invoke(ctx, "AddAnswer", &na, &a)
	return a, err
}

func (s *GRPCClient) GenerateAnswer(ctx context.Context, questionID models.QuestionID) (models.Answer, error) {
	var a models.Answer
	err := s.invoke(ctx, "GenerateAnswer", &gs.GenerateAnswerRequest{QuestionID: questionID}, &a)
	return a, err
}

// Health returns nil when the server reports SERVING for the Q&A service.
func (s *GRPCClient) Health(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(s.conn).Check(ctx,
		&healthpb.HealthCheckRequest{Service: gs.ServiceName},
		grpc.CallContentSubtype("proto"),
	)
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, st.Message())
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
