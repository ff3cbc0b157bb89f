package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/rush/internal/logging"
	"github.com/dmitrijs2005/rush/internal/server/auth"
	"github.com/dmitrijs2005/rush/internal/server/metrics"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"github.com/dmitrijs2005/rush/internal/server/services"
	"github.com/dmitrijs2005/rush/internal/server/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	gs "github.com/dmitrijs2005/rush/internal/server/grpc"
)

func startServer(t *testing.T) (*gs.Server, *GRPCClient) {
	t.Helper()

	tokens, err := auth.NewTokenService("client-test-secret")
	require.NoError(t, err)

	repo := memory.New(models.Question{ID: 1, Title: "seeded", Content: "c"})
	log := logging.Discard()
	srv := gs.NewServer("bufnet", log,
		services.NewAccountService(repo, tokens, log),
		services.NewQuestionService(repo, log),
		services.NewAnswerService(repo, nil, log),
		metrics.NewCollector("client_test"),
	)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = srv.Serve(ctx, lis)
		close(done)
	}()

	c, err := NewGRPCClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return srv, c
}

func TestGRPCClient_Flow(t *testing.T) {
	_, c := startServer(t)
	ctx := context.Background()

	id, err := c.Register(ctx, "Ann@Example.com", "pw")
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = c.Register(ctx, "ann@example.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = c.AddQuestion(ctx, models.NewQuestion{Title: "t"})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	token, err := c.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, token, c.Token())

	q, err := c.AddQuestion(ctx, models.NewQuestion{Title: "How?", Content: "c", Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, id, q.AccountID)

	q.Title = "How exactly?"
	upd, err := c.UpdateQuestion(ctx, q.ID, q)
	require.NoError(t, err)
	assert.Equal(t, "How exactly?", upd.Title)

	_, err = c.UpdateQuestion(ctx, 1, models.Question{Title: "mine now"})
	assert.ErrorIs(t, err, ErrForbidden)

	a, err := c.AddAnswer(ctx, models.NewAnswer{Content: "like this", QuestionID: q.ID})
	require.NoError(t, err)
	assert.Equal(t, q.ID, a.QuestionID)

	_, err = c.GenerateAnswer(ctx, q.ID)
	assert.Error(t, err)

	limit := 1
	page, err := c.ListQuestions(ctx, &limit, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, q.ID, page[0].ID)

	require.NoError(t, c.DeleteQuestion(ctx, q.ID))
	_, err = c.GetQuestion(ctx, q.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGRPCClient_SetToken(t *testing.T) {
	_, c := startServer(t)
	c.SetToken("garbage")

	_, err := c.AddQuestion(context.Background(), models.NewQuestion{Title: "t"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGRPCClient_Health(t *testing.T) {
	srv, c := startServer(t)

	assert.ErrorIs(t, c.Health(context.Background()), ErrUnavailable)

	srv.SetServing()
	assert.NoError(t, c.Health(context.Background()))
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}
	tests := []struct {
		err  error
		want error
	}{
		{status.Error(codes.Unauthenticated, "x"), ErrUnauthenticated},
		{status.Error(codes.PermissionDenied, "x"), ErrForbidden},
		{status.Error(codes.NotFound, "x"), ErrNotFound},
		{status.Error(codes.AlreadyExists, "x"), ErrAlreadyExists},
		{status.Error(codes.InvalidArgument, "x"), ErrInvalidArgument},
		{status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, c.mapError(tt.err), tt.want)
	}

	assert.NoError(t, c.mapError(nil))

	internal := status.Error(codes.Internal, "boom")
	err := c.mapError(internal)
	assert.Contains(t, err.Error(), "rpc error")
	assert.True(t, errors.Is(err, internal))
}
