package contracts

import (
	"context"
	"questionnaire-service/internal/app/models"
)

type SubmissionUsecase interface {
	Submit(ctx context.Context, sessionID string, document models.ResponseDocument, score *int) (*models.SubmissionReceipt, error)
}

type ConstraintEvaluator interface {
	Evaluate(ctx context.Context, expression string, resource []byte) (bool, error)
}

type ReceiptRepository interface {
	CreateReceipt(ctx context.Context, receipt *models.SubmissionReceipt) (string, error)
}

type EventPublisher interface {
	PublishSubmission(ctx context.Context, event *models.SubmissionEvent) error
}
