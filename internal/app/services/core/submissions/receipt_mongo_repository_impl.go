package submissions

import (
	"context"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/app/models"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReceiptMongoRepository struct {
	Collection *mongo.Collection
}

func NewReceiptMongoRepository(db *mongo.Client, dbName string) contracts.ReceiptRepository {
	return &ReceiptMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.ReceiptCollection),
	}
}

func (r *ReceiptMongoRepository) CreateReceipt(ctx context.Context, receipt *models.SubmissionReceipt) (string, error) {
	result, err := r.Collection.InsertOne(ctx, receipt)
	if err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	receiptID, _ := result.InsertedID.(string)
	return receiptID, nil
}
