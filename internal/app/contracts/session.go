package contracts

import (
	"context"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/dto/requests"
	"questionnaire-service/internal/pkg/dto/responses"
)

type SessionStore interface {
	Create(ctx context.Context, state *models.SessionState) error
	Find(ctx context.Context, sessionID string) (*models.SessionState, error)
	// Update loads, mutates and saves a session while holding its lock. The
	// state is not saved when fn returns an error.
	Update(ctx context.Context, sessionID string, fn func(state *models.SessionState) error) (*models.SessionState, error)
	Delete(ctx context.Context, sessionID string) error
}

type SessionTokenManager interface {
	CreateSessionToken(ctx context.Context, sessionID string) (string, error)
	VerifySessionToken(ctx context.Context, token string) (string, error)
}

type SessionUsecase interface {
	StartSession(ctx context.Context, request *requests.CreateSession) (*responses.QuestionnaireSession, error)
	FindSession(ctx context.Context, sessionID string) (*responses.QuestionnaireSession, error)
	UpdateAnswer(ctx context.Context, request *requests.UpsertAnswer) (*responses.QuestionnaireSession, error)
	FindAnswer(ctx context.Context, request *requests.FindAnswer) (*responses.Answer, error)
	NextPage(ctx context.Context, sessionID string) (*responses.PageNavigation, error)
	PreviousPage(ctx context.Context, sessionID string) (*responses.PageNavigation, error)
	SubmitSession(ctx context.Context, sessionID string) (*responses.Submission, error)
	AbandonSession(ctx context.Context, sessionID string) error
}
