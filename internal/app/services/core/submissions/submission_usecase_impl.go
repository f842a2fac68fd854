package submissions

import (
	"context"
	"fmt"
	"questionnaire-service/internal/app/config"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"questionnaire-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type submissionUsecase struct {
	ResponseSubmitter   contracts.ResponseSubmitter
	ConstraintEvaluator contracts.ConstraintEvaluator
	Storage             contracts.Storage
	EventPublisher      contracts.EventPublisher
	ReceiptRepository   contracts.ReceiptRepository
	InternalConfig      *config.InternalConfig
	Log                 *zap.Logger
	now                 func() time.Time
}

// NewSubmissionUsecase wires the wallet hand-off. storage, publisher and
// receiptRepository are optional and skipped when nil.
func NewSubmissionUsecase(
	responseSubmitter contracts.ResponseSubmitter,
	constraintEvaluator contracts.ConstraintEvaluator,
	storage contracts.Storage,
	publisher contracts.EventPublisher,
	receiptRepository contracts.ReceiptRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.SubmissionUsecase {
	return &submissionUsecase{
		ResponseSubmitter:   responseSubmitter,
		ConstraintEvaluator: constraintEvaluator,
		Storage:             storage,
		EventPublisher:      publisher,
		ReceiptRepository:   receiptRepository,
		InternalConfig:      internalConfig,
		Log:                 logger,
		now:                 time.Now,
	}
}

// Submit checks the configured constraints and posts the document. Once the
// wallet accepts it, archiving, the receipt and the event are best effort.
func (uc *submissionUsecase) Submit(ctx context.Context, sessionID string, document models.ResponseDocument, score *int) (*models.SubmissionReceipt, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("submissionUsecase.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
	)

	resource := utils.MapResponseDocumentToFHIR(document)
	body, err := json.Marshal(resource)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	for _, expression := range uc.InternalConfig.Submission.Constraints {
		passed, err := uc.ConstraintEvaluator.Evaluate(ctx, expression, body)
		if err != nil {
			return nil, err
		}
		if !passed {
			uc.Log.Info("submissionUsecase.Submit constraint failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingExpressionKey, expression),
			)
			return nil, exceptions.ErrConstraintFailed(nil, expression)
		}
	}

	submitted, err := uc.ResponseSubmitter.SubmitQuestionnaireResponse(ctx, resource)
	if err != nil {
		return nil, err
	}

	receipt := &models.SubmissionReceipt{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		QuestionnaireID: document.Questionnaire,
		RemoteID:        submitted.ID,
		Digest:          utils.DigestDocument(body),
		Score:           score,
		SubmittedAt:     uc.now().UTC(),
	}

	uc.archive(ctx, requestID, receipt, submitted)
	uc.saveReceipt(ctx, requestID, receipt)
	uc.publish(ctx, requestID, receipt)

	uc.Log.Info("submissionUsecase.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, sessionID),
		zap.String(constvars.LoggingDigestKey, receipt.Digest),
	)
	return receipt, nil
}

func (uc *submissionUsecase) archive(ctx context.Context, requestID string, receipt *models.SubmissionReceipt, submitted interface{}) {
	if uc.Storage == nil {
		return
	}

	body, err := json.Marshal(submitted)
	if err != nil {
		uc.Log.Warn("submissionUsecase.archive error marshaling response",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	bucket := uc.InternalConfig.Submission.ArchiveBucketName
	objectName := fmt.Sprintf(constvars.ArchiveObjectKeyFormat, receipt.QuestionnaireID, receipt.SessionID)
	key, err := uc.Storage.UploadObject(ctx, bucket, objectName, body, constvars.MIMEApplicationFHIRJSON)
	if err != nil {
		uc.Log.Warn("submissionUsecase.archive error calling Storage.UploadObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketKey, bucket),
			zap.String(constvars.LoggingObjectKey, objectName),
			zap.Error(err),
		)
		return
	}
	receipt.ArchiveKey = key
}

func (uc *submissionUsecase) saveReceipt(ctx context.Context, requestID string, receipt *models.SubmissionReceipt) {
	if uc.ReceiptRepository == nil {
		return
	}

	_, err := uc.ReceiptRepository.CreateReceipt(ctx, receipt)
	if err != nil {
		uc.Log.Warn("submissionUsecase.saveReceipt error calling ReceiptRepository.CreateReceipt",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
}

func (uc *submissionUsecase) publish(ctx context.Context, requestID string, receipt *models.SubmissionReceipt) {
	if uc.EventPublisher == nil {
		return
	}

	event := &models.SubmissionEvent{
		Event:           constvars.EventQuestionnaireSubmitted,
		SessionID:       receipt.SessionID,
		QuestionnaireID: receipt.QuestionnaireID,
		RemoteID:        receipt.RemoteID,
		Digest:          receipt.Digest,
		SubmittedAt:     receipt.SubmittedAt,
	}
	err := uc.EventPublisher.PublishSubmission(ctx, event)
	if err != nil {
		uc.Log.Warn("submissionUsecase.publish error calling EventPublisher.PublishSubmission",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingQueueKey, uc.InternalConfig.Submission.EventQueue),
			zap.Error(err),
		)
	}
}
