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

// BudgetStore persists monthly budget documents.
type BudgetStore struct {
	collection *mongo.Collection
}

func NewBudgetStore(db *mongo.Database) *BudgetStore {
	return &BudgetStore{collection: db.Collection("budgets")}
}

func (s *BudgetStore) Insert(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	now := time.Now().UTC()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	result, err := s.collection.InsertOne(ctx, budget)
	if err != nil {
		return nil, fmt.Errorf("failed to insert budget: %w", err)
	}
	budget.ID = result.InsertedID.(primitive.ObjectID)
	return budget, nil
}

func (s *BudgetStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Budget, error) {
	var budget models.Budget
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&budget)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return &budget, nil
}

// Find returns budgets matching filter, most recent period first.
func (s *BudgetStore) Find(ctx context.Context, filter bson.M) ([]models.Budget, error) {
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budgets: %w", err)
	}
	defer cursor.Close(ctx)

	var budgets []models.Budget
	if err := cursor.All(ctx, &budgets); err != nil {
		return nil, fmt.Errorf("failed to decode budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetStore) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Budget, error) {
	fields["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var budget models.Budget
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&budget)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return &budget, nil
}

func (s *BudgetStore) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete budget: %w", err)
	}
	return result.DeletedCount > 0, nil
}
