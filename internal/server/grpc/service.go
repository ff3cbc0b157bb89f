package grpc

import (
	"context"

	"github.com/dmitrijs2005/rush/internal/common"
	"github.com/dmitrijs2005/rush/internal/server/auth"
	"github.com/dmitrijs2005/rush/internal/server/models"
	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rush.v1.QAService"

// Accounts is the account use case surface.
type Accounts interface {
	Register(ctx context.Context, c models.Credentials) (models.Account, error)
	Login(ctx context.Context, c models.Credentials) (string, error)
	Authenticate(ctx context.Context, token string) (models.Session, error)
}

// Questions is the question use case surface.
type Questions interface {
	List(ctx context.Context, limit *int, offset int) ([]models.Question, error)
	Get(ctx context.Context, id models.QuestionID) (models.Question, error)
	Add(ctx context.Context, accountID models.AccountID, nq models.NewQuestion) (models.Question, error)
	Update(ctx context.Context, accountID models.AccountID, id models.QuestionID, q models.Question) (models.Question, error)
	Delete(ctx context.Context, accountID models.AccountID, id models.QuestionID) error
}

// Answers is the answer use case surface.
type Answers interface {
	Add(ctx context.Context, accountID models.AccountID, na models.NewAnswer) (models.Answer, error)
	AddGenerated(ctx context.Context, accountID models.AccountID, id models.QuestionID) (models.Answer, error)
}

// qaHandler adapts the use cases to RPC methods.
type qaHandler struct {
	accounts  Accounts
	questions Questions
	answers   Answers
}

// publicMethods need no session token.
var publicMethods = map[string]bool{
	"/" + ServiceName + "/Register":      true,
	"/" + ServiceName + "/Login":         true,
	"/" + ServiceName + "/ListQuestions": true,
	"/" + ServiceName + "/GetQuestion":   true,
}

func accountFrom(ctx context.Context) (models.AccountID, error) {
	s, ok := auth.SessionFromContext(ctx)
	if !ok {
		return 0, common.ErrCannotDecryptToken
	}
	return s.AccountID, nil
}

func (h *qaHandler) register(ctx context.Context, in *models.Credentials) (any, error) {
	acc, err := h.accounts.Register(ctx, *in)
	if err != nil {
		return nil, err
	}
	return &RegisterResponse{AccountID: acc.ID}, nil
}

func (h *qaHandler) login(ctx context.Context, in *models.Credentials) (any, error) {
	token, err := h.accounts.Login(ctx, *in)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token}, nil
}

func (h *qaHandler) listQuestions(ctx context.Context, in *ListQuestionsRequest) (any, error) {
	qs, err := h.questions.List(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &ListQuestionsResponse{Questions: qs}, nil
}

func (h *qaHandler) getQuestion(ctx context.Context, in *QuestionRequest) (any, error) {
	q, err := h.questions.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (h *qaHandler) addQuestion(ctx context.Context, in *models.NewQuestion) (any, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	q, err := h.questions.Add(ctx, accountID, *in)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (h *qaHandler) updateQuestion(ctx context.Context, in *UpdateQuestionRequest) (any, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	q, err := h.questions.Update(ctx, accountID, in.ID, in.Question)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (h *qaHandler) deleteQuestion(ctx context.Context, in *QuestionRequest) (any, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.questions.Delete(ctx, accountID, in.ID); err != nil {
		return nil, err
	}
	return &DeleteQuestionResponse{Deleted: true}, nil
}

func (h *qaHandler) addAnswer(ctx context.Context, in *models.NewAnswer) (any, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.answers.Add(ctx, accountID, *in)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (h *qaHandler) generateAnswer(ctx context.Context, in *GenerateAnswerRequest) (any, error) {
	accountID, err := accountFrom(ctx)
	if err != nil {
		return nil, err
	}
	a, err := h.answers.AddGenerated(ctx, accountID, in.QuestionID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// method builds a MethodDesc the way protoc-gen-go-grpc does, decoding into
// a fresh Req and routing through the interceptor chain.
func method[Req any](name string, call func(*qaHandler, context.Context, *Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := srv.(*qaHandler)
			if interceptor == nil {
				return call(h, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(h, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		method("Register", (*qaHandler).register),
		method("Login", (*qaHandler).login),
		method("ListQuestions", (*qaHandler).listQuestions),
		method("GetQuestion", (*qaHandler).getQuestion),
		method("AddQuestion", (*qaHandler).addQuestion),
		method("UpdateQuestion", (*qaHandler).updateQuestion),
		method("DeleteQuestion", (*qaHandler).deleteQuestion),
		method("AddAnswer", (*qaHandler).addAnswer),
		method("GenerateAnswer", (*qaHandler).generateAnswer),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rush/v1/qa.json",
}
