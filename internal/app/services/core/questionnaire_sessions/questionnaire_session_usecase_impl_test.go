package questionnaireSessions

import (
	"context"
	"errors"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	sessionStore "questionnaire-service/internal/app/services/shared/session_store"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/dto/requests"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/fhir_dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockQuestionnaireUsecase struct {
	mock.Mock
}

func (m *MockQuestionnaireUsecase) LoadFormDefinition(ctx context.Context, questionnaireID string) (*models.FormDefinition, error) {
	args := m.Called(ctx, questionnaireID)
	form, _ := args.Get(0).(*models.FormDefinition)
	return form, args.Error(1)
}

type MockSubmissionUsecase struct {
	mock.Mock
}

func (m *MockSubmissionUsecase) Submit(ctx context.Context, sessionID string, document models.ResponseDocument, score *int) (*models.SubmissionReceipt, error) {
	args := m.Called(ctx, sessionID, document, score)
	receipt, _ := args.Get(0).(*models.SubmissionReceipt)
	return receipt, args.Error(1)
}

type MockSessionTokenManager struct {
	mock.Mock
}

func (m *MockSessionTokenManager) CreateSessionToken(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockSessionTokenManager) VerifySessionToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

type usecaseFixture struct {
	usecase       contracts.SessionUsecase
	questionnaire *MockQuestionnaireUsecase
	submission    *MockSubmissionUsecase
	tokens        *MockSessionTokenManager
	store         contracts.SessionStore
}

func newUsecaseFixture(form *models.FormDefinition) *usecaseFixture {
	f := &usecaseFixture{
		questionnaire: new(MockQuestionnaireUsecase),
		submission:    new(MockSubmissionUsecase),
		tokens:        new(MockSessionTokenManager),
		store:         sessionStore.NewMemorySessionStore(time.Hour),
	}
	f.questionnaire.On("LoadFormDefinition", mock.Anything, form.ID).Return(form, nil)
	f.tokens.On("CreateSessionToken", mock.Anything, mock.AnythingOfType("string")).Return("session-token", nil)
	f.usecase = NewQuestionnaireSessionUsecase(f.questionnaire, f.submission, f.store, f.tokens, zap.NewNop())
	return f
}

func testContext() context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-test")
}

func codingAnswer(code string, weight int) fhir_dto.QuestionnaireResponseItemAnswer {
	return fhir_dto.QuestionnaireResponseItemAnswer{ValueCoding: &fhir_dto.Coding{Code: code}, ValueInteger: intPtr(weight)}
}

func booleanAnswer(value bool) fhir_dto.QuestionnaireResponseItemAnswer {
	return fhir_dto.QuestionnaireResponseItemAnswer{ValueBoolean: &value}
}

func requireStatus(t *testing.T, err error, statusCode int) {
	t.Helper()
	var customErr *exceptions.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, statusCode, customErr.StatusCode)
}

func (f *usecaseFixture) start(t *testing.T, questionnaireID string) string {
	t.Helper()
	view, err := f.usecase.StartSession(testContext(), &requests.CreateSession{QuestionnaireID: questionnaireID})
	require.NoError(t, err)
	return view.SessionID
}

func (f *usecaseFixture) answer(t *testing.T, sessionID, linkID string, answer fhir_dto.QuestionnaireResponseItemAnswer) {
	t.Helper()
	_, err := f.usecase.UpdateAnswer(testContext(), &requests.UpsertAnswer{SessionID: sessionID, LinkID: linkID, Answer: answer})
	require.NoError(t, err)
}

func (f *usecaseFixture) next(t *testing.T, sessionID string) bool {
	t.Helper()
	navigation, err := f.usecase.NextPage(testContext(), sessionID)
	require.NoError(t, err)
	return navigation.Advanced
}

func TestStartSession(t *testing.T) {
	t.Run("opens an empty in-progress response on the first page", func(t *testing.T) {
		f := newUsecaseFixture(threePageForm())

		view, err := f.usecase.StartSession(testContext(), &requests.CreateSession{QuestionnaireID: "phq-2"})
		require.NoError(t, err)

		assert.NotEmpty(t, view.SessionID)
		assert.Equal(t, "session-token", view.SessionToken)
		assert.Equal(t, 0, view.CurrentPageIndex)
		assert.Equal(t, 3, view.PageCount)
		assert.False(t, view.IsLastPage)
		assert.False(t, view.Submitted)
		assert.Equal(t, "in-progress", view.Response.Status)
		assert.Empty(t, view.Response.Item)
		assert.NotNil(t, view.ValidationErrors)
		assert.Equal(t, []string{"q1"}, view.UnansweredRequired)
		require.NotNil(t, view.ExpiresAt)

		_, err = f.store.Find(testContext(), view.SessionID)
		assert.NoError(t, err)
	})

	t.Run("load failure stores nothing", func(t *testing.T) {
		f := newUsecaseFixture(threePageForm())
		loadErr := exceptions.ErrQuestionnaireLoad(errors.New("connection refused"), "missing")
		f.questionnaire.On("LoadFormDefinition", mock.Anything, "missing").Return(nil, loadErr)

		view, err := f.usecase.StartSession(testContext(), &requests.CreateSession{QuestionnaireID: "missing"})

		assert.Nil(t, view)
		assert.Equal(t, loadErr, err)
		f.tokens.AssertNotCalled(t, "CreateSessionToken", mock.Anything, mock.Anything)
	})
}

func TestUpdateAndFindAnswer(t *testing.T) {
	f := newUsecaseFixture(threePageForm())
	sessionID := f.start(t, "phq-2")

	view, err := f.usecase.UpdateAnswer(testContext(), &requests.UpsertAnswer{
		SessionID: sessionID,
		LinkID:    "q1",
		Answer:    codingAnswer("2", 2),
	})
	require.NoError(t, err)
	assert.True(t, view.IsPageValid)
	assert.Empty(t, view.UnansweredRequired)
	require.NotNil(t, view.Score)
	assert.Equal(t, 2, *view.Score)

	answer, err := f.usecase.FindAnswer(testContext(), &requests.FindAnswer{SessionID: sessionID, LinkID: "q1"})
	require.NoError(t, err)
	assert.True(t, answer.Answered)
	assert.True(t, answer.Meaningful)
	assert.Equal(t, "2", answer.Answer.ValueCoding.Code)

	missing, err := f.usecase.FindAnswer(testContext(), &requests.FindAnswer{SessionID: sessionID, LinkID: "q2"})
	require.NoError(t, err)
	assert.False(t, missing.Answered)
	assert.Nil(t, missing.Answer)

	t.Run("unknown linkIds are accepted", func(t *testing.T) {
		f.answer(t, sessionID, "not-in-form", booleanAnswer(true))
	})

	t.Run("index past the end is rejected", func(t *testing.T) {
		_, err := f.usecase.UpdateAnswer(testContext(), &requests.UpsertAnswer{
			SessionID: sessionID,
			LinkID:    "q1",
			Index:     intPtr(3),
			Answer:    codingAnswer("0", 0),
		})
		requireStatus(t, err, constvars.StatusBadRequest)
	})

	t.Run("unsupported value types are rejected", func(t *testing.T) {
		uri := "https://example.org"
		_, err := f.usecase.UpdateAnswer(testContext(), &requests.UpsertAnswer{
			SessionID: sessionID,
			LinkID:    "q2",
			Answer:    fhir_dto.QuestionnaireResponseItemAnswer{ValueUri: &uri},
		})
		requireStatus(t, err, constvars.StatusBadRequest)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.usecase.UpdateAnswer(testContext(), &requests.UpsertAnswer{
			SessionID: "7d1b1d8e-3a52-4c1e-9f6b-0b9a8c1e2f3d",
			LinkID:    "q1",
			Answer:    codingAnswer("0", 0),
		})
		requireStatus(t, err, constvars.StatusNotFound)
	})
}

func TestPageNavigation(t *testing.T) {
	f := newUsecaseFixture(threePageForm())
	sessionID := f.start(t, "phq-2")

	navigation, err := f.usecase.NextPage(testContext(), sessionID)
	require.NoError(t, err)
	assert.False(t, navigation.Advanced)
	assert.Equal(t, []string{"q1"}, navigation.Session.ValidationErrors)

	stored, err := f.store.Find(testContext(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, stored.ValidationErrors, "flags survive the round trip")

	f.answer(t, sessionID, "q1", codingAnswer("0", 0))
	assert.True(t, f.next(t, sessionID))

	view, err := f.usecase.FindSession(testContext(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentPageIndex)
	assert.Empty(t, view.ValidationErrors)

	navigation, err = f.usecase.PreviousPage(testContext(), sessionID)
	require.NoError(t, err)
	assert.True(t, navigation.Advanced)
	assert.Equal(t, 0, navigation.Session.CurrentPageIndex)

	navigation, err = f.usecase.PreviousPage(testContext(), sessionID)
	require.NoError(t, err)
	assert.False(t, navigation.Advanced)
}

func TestSubmitSession(t *testing.T) {
	receipt := &models.SubmissionReceipt{ID: "receipt-1", Digest: "abc"}
	completed := mock.MatchedBy(func(document models.ResponseDocument) bool {
		return document.Status == models.ResponseStatusCompleted
	})

	t.Run("not on the last page", func(t *testing.T) {
		f := newUsecaseFixture(threePageForm())
		sessionID := f.start(t, "phq-2")

		_, err := f.usecase.SubmitSession(testContext(), sessionID)

		requireStatus(t, err, constvars.StatusConflict)
		f.submission.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("incomplete last page keeps its flags", func(t *testing.T) {
		form := threePageForm()
		form.Pages = form.Pages[:2]
		f := newUsecaseFixture(form)
		sessionID := f.start(t, "phq-2")
		f.answer(t, sessionID, "q1", codingAnswer("0", 0))
		require.True(t, f.next(t, sessionID))

		_, err := f.usecase.SubmitSession(testContext(), sessionID)

		requireStatus(t, err, constvars.StatusUnprocessableEntity)
		stored, err := f.store.Find(testContext(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, []string{"q3"}, stored.ValidationErrors)
		assert.False(t, stored.Submitted)
		f.submission.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("completes the response once", func(t *testing.T) {
		f := newUsecaseFixture(threePageForm())
		sessionID := f.start(t, "phq-2")
		f.answer(t, sessionID, "q1", codingAnswer("2", 2))
		require.True(t, f.next(t, sessionID))
		f.answer(t, sessionID, "q3", booleanAnswer(true))
		require.True(t, f.next(t, sessionID))
		f.submission.On("Submit", mock.Anything, sessionID, completed, intPtr(2)).Return(receipt, nil).Once()

		submission, err := f.usecase.SubmitSession(testContext(), sessionID)
		require.NoError(t, err)
		assert.Equal(t, receipt, submission.Receipt)
		assert.True(t, submission.Session.Submitted)
		assert.Equal(t, "completed", submission.Session.Response.Status)

		_, err = f.usecase.SubmitSession(testContext(), sessionID)
		requireStatus(t, err, constvars.StatusConflict)

		_, err = f.usecase.UpdateAnswer(testContext(), &requests.UpsertAnswer{SessionID: sessionID, LinkID: "q2", Answer: booleanAnswer(false)})
		requireStatus(t, err, constvars.StatusConflict)

		_, err = f.usecase.PreviousPage(testContext(), sessionID)
		requireStatus(t, err, constvars.StatusConflict)

		f.submission.AssertNumberOfCalls(t, "Submit", 1)
	})

	t.Run("failed hand-off leaves the session in progress", func(t *testing.T) {
		f := newUsecaseFixture(threePageForm())
		sessionID := f.start(t, "phq-2")
		f.answer(t, sessionID, "q1", codingAnswer("0", 0))
		require.True(t, f.next(t, sessionID))
		f.answer(t, sessionID, "q3", booleanAnswer(false))
		require.True(t, f.next(t, sessionID))
		submitErr := exceptions.ErrSubmitQuestionnaireResponse(errors.New("wallet unavailable"))
		f.submission.On("Submit", mock.Anything, sessionID, completed, mock.Anything).Return(nil, submitErr).Once()

		_, err := f.usecase.SubmitSession(testContext(), sessionID)
		requireStatus(t, err, constvars.StatusBadGateway)

		view, err := f.usecase.FindSession(testContext(), sessionID)
		require.NoError(t, err)
		assert.False(t, view.Submitted)
		assert.Equal(t, "in-progress", view.Response.Status)
		assert.Equal(t, 2, view.CurrentPageIndex)

		f.submission.On("Submit", mock.Anything, sessionID, completed, mock.Anything).Return(receipt, nil).Once()
		submission, err := f.usecase.SubmitSession(testContext(), sessionID)
		require.NoError(t, err)
		assert.True(t, submission.Session.Submitted)
	})
}

func TestAbandonSession(t *testing.T) {
	f := newUsecaseFixture(threePageForm())
	sessionID := f.start(t, "phq-2")

	require.NoError(t, f.usecase.AbandonSession(testContext(), sessionID))

	_, err := f.usecase.FindSession(testContext(), sessionID)
	requireStatus(t, err, constvars.StatusNotFound)

	err = f.usecase.AbandonSession(testContext(), sessionID)
	requireStatus(t, err, constvars.StatusNotFound)
}
