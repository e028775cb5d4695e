package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pennybook/backend/internal/apperrors"
	"github.com/pennybook/backend/internal/cache"
	"github.com/pennybook/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// summaryTTL bounds how stale a cached summary may get when invalidation
// is missed (e.g. writes from another process).
const summaryTTL = 60 * time.Second

// TransactionStore is the persistence surface the service needs.
type TransactionStore interface {
	Insert(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error)
	Find(ctx context.Context, filter bson.M) ([]models.Transaction, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Transaction, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// TransactionFilter scopes list and summary queries. Empty User matches all
// transactions.
type TransactionFilter struct {
	User string
}

// CacheKey serializes the filter fields in declaration order, so equal
// filters always derive equal keys.
func (f TransactionFilter) CacheKey() string {
	return fmt.Sprintf("summary:user=%s", f.User)
}

func (f TransactionFilter) query() (bson.M, error) {
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

type CreateTransactionInput struct {
	User     string
	Type     string
	Category string
	Amount   float64
	Date     time.Time // zero value defaults to creation time
	Note     string
}

type UpdateTransactionInput struct {
	Type     *string
	Category *string
	Amount   *float64
	Date     *time.Time
	Note     *string
}

// TransactionService implements transaction CRUD and the cached
// income/expense aggregation.
type TransactionService struct {
	store TransactionStore
	cache cache.Cache
}

func NewTransactionService(store TransactionStore, c cache.Cache) *TransactionService {
	return &TransactionService{store: store, cache: c}
}

func (s *TransactionService) Create(ctx context.Context, input CreateTransactionInput) (*models.TransactionRecord, error) {
	userID, err := primitive.ObjectIDFromHex(input.User)
	if err != nil {
		return nil, apperrors.Validation("Validation failed", apperrors.FieldError{
			Path: "body.user", Message: "Invalid user ID", Code: "hexadecimal",
		})
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	tx, err := s.store.Insert(ctx, &models.Transaction{
		User:     userID,
		Type:     input.Type,
		Category: input.Category,
		Amount:   input.Amount,
		Date:     date,
		Note:     input.Note,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx)

	record := tx.Record()
	return &record, nil
}

func (s *TransactionService) GetByID(ctx context.Context, id string) (*models.TransactionRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	tx, err := s.store.FindByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}

	record := tx.Record()
	return &record, nil
}

// List returns matching transactions, newest first. No pagination; the
// result set is unbounded.
func (s *TransactionService) List(ctx context.Context, filter TransactionFilter) ([]models.TransactionRecord, error) {
	query, err := filter.query()
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	records := make([]models.TransactionRecord, 0, len(transactions))
	for i := range transactions {
		records = append(records, transactions[i].Record())
	}
	return records, nil
}

func (s *TransactionService) Update(ctx context.Context, id string, input UpdateTransactionInput) (*models.TransactionRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	fields := bson.M{}
	if input.Type != nil {
		fields["type"] = *input.Type
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.Amount != nil {
		fields["amount"] = *input.Amount
	}
	if input.Date != nil {
		fields["date"] = *input.Date
	}
	if input.Note != nil {
		fields["note"] = *input.Note
	}

	tx, err := s.store.Update(ctx, objectID, fields)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}

	s.invalidateSummaries(ctx)

	record := tx.Record()
	return &record, nil
}

// Delete reports true iff a transaction existed and was removed.
func (s *TransactionService) Delete(ctx context.Context, id string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	deleted, err := s.store.Delete(ctx, objectID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidateSummaries(ctx)
	}
	return deleted, nil
}

// GetSummary folds matching transactions into income/expense/net totals.
// Results are cached for summaryTTL; any transaction write clears the cache,
// so a hit is never stale with respect to this process.
func (s *TransactionService) GetSummary(ctx context.Context, filter TransactionFilter) (*models.Summary, error) {
	key := filter.CacheKey()

	// A failed read, including an entry that no longer decodes into the
	// current Summary shape, must fall through to a recompute.
	var cached models.Summary
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[SUMMARY] Cache read failed for %s: %v", key, err)
	}
	if err == nil && hit {
		return &cached, nil
	}

	query, err := filter.query()
	if err != nil {
		return nil, err
	}

	transactions, err := s.store.Find(ctx, query)
	if err != nil {
		return nil, err
	}

	var summary models.Summary
	for i := range transactions {
		switch transactions[i].Type {
		case models.TypeIncome:
			summary.Income += transactions[i].Amount
		case models.TypeExpense:
			summary.Expense += transactions[i].Amount
		}
	}
	summary.Net = summary.Income - summary.Expense

	if err := s.cache.Set(ctx, key, summary, summaryTTL); err != nil {
		log.Printf("[SUMMARY] Cache write failed for %s: %v", key, err)
	}

	return &summary, nil
}

// invalidateSummaries clears the whole cache. Coarse, but it cannot leave a
// stale entry behind regardless of how keys are derived.
func (s *TransactionService) invalidateSummaries(ctx context.Context) {
	if err := s.cache.Clear(ctx); err != nil {
		log.Printf("[CACHE] Failed to clear summary cache: %v", err)
	}
}
