package submissions

import (
	"context"
	"errors"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/fhir_dto"
	"questionnaire-service/internal/pkg/utils"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockResponseSubmitter struct {
	mock.Mock
}

func (m *MockResponseSubmitter) SubmitQuestionnaireResponse(ctx context.Context, response *fhir_dto.QuestionnaireResponse) (*fhir_dto.QuestionnaireResponse, error) {
	args := m.Called(ctx, response)
	submitted, _ := args.Get(0).(*fhir_dto.QuestionnaireResponse)
	return submitted, args.Error(1)
}

type MockConstraintEvaluator struct {
	mock.Mock
}

func (m *MockConstraintEvaluator) Evaluate(ctx context.Context, expression string, resource []byte) (bool, error) {
	args := m.Called(ctx, expression, resource)
	return args.Bool(0), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadObject(ctx context.Context, bucketName, objectName string, body []byte, contentType string) (string, error) {
	args := m.Called(ctx, bucketName, objectName, body, contentType)
	return args.String(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishSubmission(ctx context.Context, event *models.SubmissionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) CreateReceipt(ctx context.Context, receipt *models.SubmissionReceipt) (string, error) {
	args := m.Called(ctx, receipt)
	return args.String(0), args.Error(1)
}

var submittedAt = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func testConfig(constraints ...string) *config.InternalConfig {
	return &config.InternalConfig{
		Submission: config.AppSubmission{
			Constraints:       constraints,
			ArchiveBucketName: "questionnaire-responses",
			EventQueue:        constvars.EventQuestionnaireSubmitted,
		},
	}
}

func testDocument() models.ResponseDocument {
	weight := 2
	return models.ResponseDocument{
		Questionnaire: "phq-2",
		Status:        models.ResponseStatusCompleted,
		Authored:      time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Items: []models.ResponseItem{
			{LinkID: "q1", Answers: []models.AnswerValue{models.CodingAnswer{Code: "2", Weight: &weight}}},
		},
	}
}

func newTestUsecase(submitter contracts.ResponseSubmitter, evaluator contracts.ConstraintEvaluator, storage contracts.Storage, publisher contracts.EventPublisher, receipts contracts.ReceiptRepository, cfg *config.InternalConfig) *submissionUsecase {
	uc := NewSubmissionUsecase(submitter, evaluator, storage, publisher, receipts, cfg, zap.NewNop()).(*submissionUsecase)
	uc.now = func() time.Time { return submittedAt }
	return uc
}

func TestSubmit(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-1")
	score := 2

	t.Run("hands off and fans out", func(t *testing.T) {
		submitter := new(MockResponseSubmitter)
		evaluator := new(MockConstraintEvaluator)
		storage := new(MockStorage)
		publisher := new(MockEventPublisher)
		receipts := new(MockReceiptRepository)
		uc := newTestUsecase(submitter, evaluator, storage, publisher, receipts, testConfig("item.exists()"))

		expectedBody, err := json.Marshal(utils.MapResponseDocumentToFHIR(testDocument()))
		require.NoError(t, err)

		evaluator.On("Evaluate", ctx, "item.exists()", expectedBody).Return(true, nil)
		submitter.On("SubmitQuestionnaireResponse", ctx, mock.MatchedBy(func(response *fhir_dto.QuestionnaireResponse) bool {
			return response.Status == "completed" && response.Questionnaire == "phq-2"
		})).Return(&fhir_dto.QuestionnaireResponse{ResourceType: "QuestionnaireResponse", ID: "qr-42"}, nil)
		storage.On("UploadObject", ctx, "questionnaire-responses", "phq-2/s1.json", mock.Anything, constvars.MIMEApplicationFHIRJSON).
			Return("phq-2/s1.json", nil)
		receipts.On("CreateReceipt", ctx, mock.Anything).Return("r1", nil)
		publisher.On("PublishSubmission", ctx, mock.MatchedBy(func(event *models.SubmissionEvent) bool {
			return event.Event == constvars.EventQuestionnaireSubmitted && event.RemoteID == "qr-42" && event.SessionID == "s1"
		})).Return(nil)

		receipt, err := uc.Submit(ctx, "s1", testDocument(), &score)
		require.NoError(t, err)

		assert.NotEmpty(t, receipt.ID)
		assert.Equal(t, "s1", receipt.SessionID)
		assert.Equal(t, "phq-2", receipt.QuestionnaireID)
		assert.Equal(t, "qr-42", receipt.RemoteID)
		assert.Equal(t, utils.DigestDocument(expectedBody), receipt.Digest)
		assert.Equal(t, "phq-2/s1.json", receipt.ArchiveKey)
		assert.Equal(t, &score, receipt.Score)
		assert.Equal(t, submittedAt, receipt.SubmittedAt)

		evaluator.AssertExpectations(t)
		submitter.AssertExpectations(t)
		storage.AssertExpectations(t)
		receipts.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("failed constraint sends nothing", func(t *testing.T) {
		submitter := new(MockResponseSubmitter)
		evaluator := new(MockConstraintEvaluator)
		uc := newTestUsecase(submitter, evaluator, nil, nil, nil, testConfig("item.count() > 5"))
		evaluator.On("Evaluate", ctx, "item.count() > 5", mock.Anything).Return(false, nil)

		receipt, err := uc.Submit(ctx, "s1", testDocument(), nil)

		assert.Nil(t, receipt)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErr.StatusCode)
		submitter.AssertNotCalled(t, "SubmitQuestionnaireResponse", mock.Anything, mock.Anything)
	})

	t.Run("constraint that cannot be evaluated", func(t *testing.T) {
		submitter := new(MockResponseSubmitter)
		evaluator := new(MockConstraintEvaluator)
		uc := newTestUsecase(submitter, evaluator, nil, nil, nil, testConfig("item.("))
		evalErr := exceptions.ErrConstraintInvalid(errors.New("syntax error"), "item.(")
		evaluator.On("Evaluate", ctx, "item.(", mock.Anything).Return(false, evalErr)

		_, err := uc.Submit(ctx, "s1", testDocument(), nil)

		assert.ErrorIs(t, err, evalErr)
		submitter.AssertNotCalled(t, "SubmitQuestionnaireResponse", mock.Anything, mock.Anything)
	})

	t.Run("wallet failure is returned and no sink runs", func(t *testing.T) {
		submitter := new(MockResponseSubmitter)
		storage := new(MockStorage)
		publisher := new(MockEventPublisher)
		receipts := new(MockReceiptRepository)
		uc := newTestUsecase(submitter, new(MockConstraintEvaluator), storage, publisher, receipts, testConfig())
		walletErr := exceptions.ErrSubmitQuestionnaireResponse(errors.New("503"))
		submitter.On("SubmitQuestionnaireResponse", ctx, mock.Anything).Return(nil, walletErr)

		receipt, err := uc.Submit(ctx, "s1", testDocument(), nil)

		assert.Nil(t, receipt)
		assert.ErrorIs(t, err, walletErr)
		storage.AssertNotCalled(t, "UploadObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		receipts.AssertNotCalled(t, "CreateReceipt", mock.Anything, mock.Anything)
		publisher.AssertNotCalled(t, "PublishSubmission", mock.Anything, mock.Anything)
	})

	t.Run("sink failures do not fail the submission", func(t *testing.T) {
		submitter := new(MockResponseSubmitter)
		storage := new(MockStorage)
		publisher := new(MockEventPublisher)
		receipts := new(MockReceiptRepository)
		uc := newTestUsecase(submitter, new(MockConstraintEvaluator), storage, publisher, receipts, testConfig())
		submitter.On("SubmitQuestionnaireResponse", ctx, mock.Anything).Return(&fhir_dto.QuestionnaireResponse{ID: "qr-7"}, nil)
		storage.On("UploadObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", exceptions.ErrMinioCreateObject(errors.New("bucket missing"), "questionnaire-responses"))
		receipts.On("CreateReceipt", ctx, mock.Anything).Return("", exceptions.ErrMongoDBInsertDocument(errors.New("no primary")))
		publisher.On("PublishSubmission", ctx, mock.Anything).Return(exceptions.ErrRabbitMQPublishMessage(errors.New("closed"), "q"))

		receipt, err := uc.Submit(ctx, "s1", testDocument(), nil)

		require.NoError(t, err)
		assert.Equal(t, "qr-7", receipt.RemoteID)
		assert.Empty(t, receipt.ArchiveKey)
	})

	t.Run("optional sinks may be absent", func(t *testing.T) {
		submitter := new(MockResponseSubmitter)
		uc := newTestUsecase(submitter, nil, nil, nil, nil, testConfig())
		submitter.On("SubmitQuestionnaireResponse", ctx, mock.Anything).Return(&fhir_dto.QuestionnaireResponse{}, nil)

		receipt, err := uc.Submit(ctx, "s1", testDocument(), nil)

		require.NoError(t, err)
		assert.Empty(t, receipt.RemoteID)
		assert.NotEmpty(t, receipt.Digest)
	})
}
