package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/delivery/http/controllers"
	"questionnaire-service/internal/app/delivery/http/middlewares"
	"questionnaire-service/internal/app/models"
	questionnaireSessions "questionnaire-service/internal/app/services/core/questionnaire_sessions"
	"questionnaire-service/internal/app/services/core/questionnaires"
	"questionnaire-service/internal/app/services/shared/formsource"
	"questionnaire-service/internal/app/services/shared/jwtmanager"
	sessionStore "questionnaire-service/internal/app/services/shared/session_store"
	"questionnaire-service/internal/pkg/constvars"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const moodQuestionnaireJSON = `{
  "resourceType": "Questionnaire",
  "id": "mood",
  "status": "active",
  "item": [
    {"linkId": "page-1", "type": "group", "item": [
      {"linkId": "feeling-down", "type": "boolean", "text": "Feeling down?", "required": true}
    ]}
  ]
}`

type MockSubmissionUsecase struct {
	mock.Mock
}

func (m *MockSubmissionUsecase) Submit(ctx context.Context, sessionID string, document models.ResponseDocument, score *int) (*models.SubmissionReceipt, error) {
	args := m.Called(ctx, sessionID, document, score)
	receipt, _ := args.Get(0).(*models.SubmissionReceipt)
	return receipt, args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type sessionData struct {
	SessionID    string `json:"session_id"`
	SessionToken string `json:"session_token"`
	Submitted    bool   `json:"submitted"`
}

func newTestRouter(t *testing.T, submission *MockSubmissionUsecase) *chi.Mux {
	t.Helper()
	logger := zap.NewNop()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mood.json"), []byte(moodQuestionnaireJSON), 0o600))

	internalConfig := &config.InternalConfig{
		App: config.App{
			EndpointPrefix:             "/api",
			Version:                    "v1",
			MaxRequests:                1000,
			RequestBodyLimitInMegabyte: 1,
		},
		JWT:        config.AppJWT{Secret: "router-test-secret", Issuer: "questionnaire-service", ExpTimeInHour: 1},
		Submission: config.AppSubmission{RateLimitPerMinute: 100, RateLimitBlockTimeMinutes: 1},
	}

	tokens, err := jwtmanager.NewJWTManager(internalConfig, logger)
	require.NoError(t, err)

	questionnaireUsecase := questionnaires.NewQuestionnaireUsecase(formsource.NewFileFormSource(dir, logger), logger)
	sessionUsecase := questionnaireSessions.NewQuestionnaireSessionUsecase(
		questionnaireUsecase,
		submission,
		sessionStore.NewMemorySessionStore(time.Hour),
		tokens,
		logger,
	)

	router := chi.NewRouter()
	SetupRoutes(
		router,
		internalConfig,
		middlewares.NewMiddlewares(logger, tokens, internalConfig),
		controllers.NewQuestionnaireController(logger, questionnaireUsecase),
		controllers.NewSessionController(logger, sessionUsecase),
	)
	return router
}

func serve(router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var decoded envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr, decoded
}

func startSession(t *testing.T, router http.Handler) sessionData {
	t.Helper()
	rr, body := serve(router, "POST", "/api/v1/sessions", "", `{"questionnaire_id":"mood"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var session sessionData
	require.NoError(t, json.Unmarshal(body.Data, &session))
	require.NotEmpty(t, session.SessionToken)
	return session
}

func TestRouter_QuestionnaireRoutes(t *testing.T) {
	router := newTestRouter(t, new(MockSubmissionUsecase))

	rr, body := serve(router, "GET", "/api/v1/questionnaires/mood", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, body.Success)
	assert.NotEmpty(t, rr.Header().Get(constvars.HeaderXRequestID))

	rr, body = serve(router, "GET", "/api/v1/questionnaires/missing", "", "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, constvars.ErrClientQuestionnaireLoad, body.Message)
}

func TestRouter_SessionLifecycle(t *testing.T) {
	submission := new(MockSubmissionUsecase)
	router := newTestRouter(t, submission)

	session := startSession(t, router)
	other := startSession(t, router)
	sessionPath := "/api/v1/sessions/" + session.SessionID

	t.Run("Token required", func(t *testing.T) {
		rr, _ := serve(router, "GET", sessionPath, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Token of another session", func(t *testing.T) {
		rr, _ := serve(router, "GET", sessionPath, other.SessionToken, "")
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Submit before answering", func(t *testing.T) {
		rr, body := serve(router, "POST", sessionPath+"/submit", session.SessionToken, "")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, constvars.ErrClientPageInvalid, body.Message)
	})

	t.Run("Answer and submit", func(t *testing.T) {
		rr, _ := serve(router, "PUT", sessionPath+"/answers/feeling-down", session.SessionToken, `{"answer":{"valueBoolean":false}}`)
		require.Equal(t, http.StatusOK, rr.Code)

		rr, body := serve(router, "GET", sessionPath+"/answers/feeling-down", session.SessionToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, string(body.Data), `"valueBoolean":false`)

		submission.On("Submit", mock.Anything, session.SessionID, mock.Anything, mock.Anything).
			Return(&models.SubmissionReceipt{ID: "receipt-1", SessionID: session.SessionID}, nil).Once()

		rr, body = serve(router, "POST", sessionPath+"/submit", session.SessionToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, constvars.SuccessSubmitResponse, body.Message)

		rr, _ = serve(router, "POST", sessionPath+"/submit", session.SessionToken, "")
		assert.Equal(t, http.StatusConflict, rr.Code)
		submission.AssertNumberOfCalls(t, "Submit", 1)
	})

	t.Run("Abandon", func(t *testing.T) {
		rr, _ := serve(router, "DELETE", "/api/v1/sessions/"+other.SessionID, other.SessionToken, "")
		assert.Equal(t, http.StatusOK, rr.Code)

		rr, _ = serve(router, "GET", "/api/v1/sessions/"+other.SessionID, other.SessionToken, "")
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
