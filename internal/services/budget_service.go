package services

import (
	"context"

	"github.com/pennybook/backend/internal/apperrors"
	"github.com/pennybook/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BudgetStore is the persistence surface the service needs.
type BudgetStore interface {
	Insert(ctx context.Context, budget *models.Budget) (*models.Budget, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Budget, error)
	Find(ctx context.Context, filter bson.M) ([]models.Budget, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Budget, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// BudgetFilter scopes list queries to one owner. Empty User matches all
// budgets.
type BudgetFilter struct {
	User string
}

func (f BudgetFilter) query() (bson.M, error) {
	filter := bson.M{}
	if f.User != "" {
		userID, err := primitive.ObjectIDFromHex(f.User)
		if err != nil {
			return nil, apperrors.Validation("Invalid user filter", apperrors.FieldError{
				Path: "query.user", Message: "Invalid user ID", Code: "hexadecimal",
			})
		}
		filter["user"] = userID
	}
	return filter, nil
}

type CreateBudgetInput struct {
	User          string
	Month         int
	Year          int
	MonthlyGoal   float64
	SavingsTarget float64
}

type UpdateBudgetInput struct {
	Month         *int
	Year          *int
	MonthlyGoal   *float64
	SavingsTarget *float64
}

// BudgetService implements monthly budget CRUD. Nothing prevents two budgets
// for the same (user, month, year); product has not decided whether that
// should be unique.
type BudgetService struct {
	store BudgetStore
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

func (s *BudgetService) Create(ctx context.Context, input CreateBudgetInput) (*models.BudgetRecord, error) {
	userID, err := primitive.ObjectIDFromHex(input.User)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
			Path: "body.user", Message: "Invalid user ID", Code: "hexadecimal",
		})
	}

	budget, err := s.store.Insert(ctx, &models.Budget{
		User:          userID,
		Month:         input.Month,
		Year:          input.Year,
		MonthlyGoal:   input.MonthlyGoal,
		SavingsTarget: input.SavingsTarget,
	})
	if err != nil {
		return nil, err
	}

	record := budget.Record()
	return &record, nil
}

func (s *BudgetService) GetByID(ctx context.Context, id string) (*models.BudgetRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	budget, err := s.store.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, nil
	}

	record := budget.Record()
	return &record, nil
}

// List returns matching budgets, most recent period first.
func (s *BudgetService) List(ctx context.Context, filter BudgetFilter) ([]models.BudgetRecord, error) {
	query, err := filter.query()
	if err != nil {
		return nil, err
	}

	budgets, err := s.store.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	records := make([]models.BudgetRecord, 0, len(budgets))
	for i := range budgets {
		records = append(records, budgets[i].Record())
	}
	return records, nil
}

func (s *BudgetService) Update(ctx context.Context, id string, input UpdateBudgetInput) (*models.BudgetRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	fields := bson.M{}
	if input.Month != nil {
		fields["month"] = *input.Month
	}
	if input.Year != nil {
		fields["year"] = *input.Year
	}
	if input.MonthlyGoal != nil {
		fields["monthlyGoal"] = *input.MonthlyGoal
	}
	if input.SavingsTarget != nil {
		fields["savingsTarget"] = *input.SavingsTarget
	}

	budget, err := s.store.Update(ctx, objectID, fields)
	if err != nil {
		return nil, err
	}
	if budget == nil {
		return nil, nil
	}

	record := budget.Record()
	return &record, nil
}

// Delete reports true iff a budget existed and was removed.
func (s *BudgetService) Delete(ctx context.Context, id string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	return s.store.Delete(ctx, objectID)
}
