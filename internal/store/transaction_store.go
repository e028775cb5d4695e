package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pennybook/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransactionStore persists transaction documents.
type TransactionStore struct {
	collection *mongo.Collection
}

func NewTransactionStore(db *mongo.Database) *TransactionStore {
	return &TransactionStore{collection: db.Collection("transactions")}
}

func (s *TransactionStore) Insert(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	result, err := s.collection.InsertOne(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	tx.ID = result.InsertedID.(primitive.ObjectID)
	return tx, nil
}

func (s *TransactionStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return &tx, nil
}

// Find returns transactions matching filter, newest date first. An empty
// filter matches everything; no pagination is applied.
func (s *TransactionStore) Find(ctx context.Context, filter bson.M) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []models.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return transactions, nil
}

// Update applies the given fields to one transaction and returns the updated
// document, or nil if no document matched.
func (s *TransactionStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Transaction, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tx models.Transaction
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&tx)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return &tx, nil
}

// Delete removes one transaction and reports whether a document existed.
func (s *TransactionStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return result.DeletedCount > 0, nil
}
