package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pennybook/backend/internal/cache"
	"github.com/pennybook/backend/internal/models"
	"github.com/pennybook/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func transactionRouter(store *MockTransactionStore) *chi.Mux {
	h := NewTransactionHandler(services.NewTransactionService(store, cache.NewMemoryCache()))
	r := chi.NewRouter()
	r.Get("/transactions", h.List)
	r.Post("/transactions", h.Create)
	r.Get("/transactions/summary/all", h.Summary)
	r.Get("/transactions/{id}", h.GetByID)
	r.Patch("/transactions/{id}", h.Update)
	r.Delete("/transactions/{id}", h.Delete)
	return r
}

// doJSONAs runs the request with an authenticated caller in the context, the
// way the auth middleware would.
func doJSONAs(router http.Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(context.WithValue(req.Context(), "userID", userID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTransactionHandler_Create(t *testing.T) {
	owner := primitive.NewObjectID()

	t.Run("valid request returns 201", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		saved := models.Transaction{
			ID: primitive.NewObjectID(), User: owner,
			Type: models.TypeExpense, Category: "groceries", Amount: 42.5,
		}
		store.On("Insert", mock.Anything, mock.AnythingOfType("*models.Transaction")).
			Return(&saved, nil).Once()

		rec := doJSON(router, http.MethodPost, "/transactions",
			`{"user":"`+owner.Hex()+`","type":"expense","category":"groceries","amount":42.5}`)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var record models.TransactionRecord
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, saved.ID.Hex(), record.ID)
		assert.Equal(t, models.TypeExpense, record.Type)
		store.AssertExpectations(t)
	})

	t.Run("authenticated caller owns the transaction", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		caller := primitive.NewObjectID()
		other := primitive.NewObjectID()

		saved := models.Transaction{ID: primitive.NewObjectID(), User: caller, Type: models.TypeIncome, Amount: 10}
		store.On("Insert", mock.Anything, mock.AnythingOfType("*models.Transaction")).
			Run(func(args mock.Arguments) {
				// The body named another user; the token wins.
				assert.Equal(t, caller, args.Get(1).(*models.Transaction).User)
			}).
			Return(&saved, nil).Once()

		rec := doJSONAs(router, http.MethodPost, "/transactions",
			`{"user":"`+other.Hex()+`","type":"income","category":"salary","amount":10}`, caller.Hex())

		assert.Equal(t, http.StatusCreated, rec.Code)
		store.AssertExpectations(t)
	})

	t.Run("anonymous request without user returns 400", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		rec := doJSON(router, http.MethodPost, "/transactions",
			`{"type":"income","category":"salary","amount":10}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "body.user", envelope.Details[0].Path)
		store.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount returns 400", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		rec := doJSON(router, http.MethodPost, "/transactions",
			`{"user":"`+owner.Hex()+`","type":"expense","category":"groceries","amount":-5}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "body.amount", envelope.Details[0].Path)
	})

	t.Run("unknown type returns 400", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		rec := doJSON(router, http.MethodPost, "/transactions",
			`{"user":"`+owner.Hex()+`","type":"transfer","category":"misc","amount":5}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "body.type", envelope.Details[0].Path)
		assert.Equal(t, "oneof", envelope.Details[0].Code)
	})

	t.Run("date accepted as YYYY-MM-DD", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		saved := models.Transaction{ID: primitive.NewObjectID(), User: owner, Type: models.TypeIncome, Amount: 10}
		store.On("Insert", mock.Anything, mock.AnythingOfType("*models.Transaction")).
			Run(func(args mock.Arguments) {
				date := args.Get(1).(*models.Transaction).Date
				assert.Equal(t, 2025, date.Year())
				assert.Equal(t, 7, int(date.Month()))
			}).
			Return(&saved, nil).Once()

		rec := doJSON(router, http.MethodPost, "/transactions",
			`{"user":"`+owner.Hex()+`","type":"income","category":"salary","amount":10,"date":"2025-07-15"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("unparseable date returns 400", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		rec := doJSON(router, http.MethodPost, "/transactions",
			`{"user":"`+owner.Hex()+`","type":"income","category":"salary","amount":10,"date":"July 15"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, "body.date", envelope.Details[0].Path)
	})
}

func TestTransactionHandler_Summary(t *testing.T) {
	t.Run("anonymous summary covers all transactions", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		owner := primitive.NewObjectID()
		store.On("Find", mock.Anything, bson.M{}).Return([]models.Transaction{
			{ID: primitive.NewObjectID(), User: owner, Type: models.TypeIncome, Amount: 200},
			{ID: primitive.NewObjectID(), User: owner, Type: models.TypeExpense, Amount: 50},
		}, nil).Once()

		rec := doJSON(router, http.MethodGet, "/transactions/summary/all", "")
		assert.Equal(t, http.StatusOK, rec.Code)

		var summary models.Summary
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, models.Summary{Income: 200, Expense: 50, Net: 150}, summary)
	})

	t.Run("authenticated summary is scoped to the caller", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		caller := primitive.NewObjectID()
		store.On("Find", mock.Anything, bson.M{"user": caller}).
			Return([]models.Transaction{
				{ID: primitive.NewObjectID(), User: caller, Type: models.TypeIncome, Amount: 75},
			}, nil).Once()

		rec := doJSONAs(router, http.MethodGet, "/transactions/summary/all", "", caller.Hex())
		assert.Equal(t, http.StatusOK, rec.Code)

		var summary models.Summary
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, float64(75), summary.Income)
		store.AssertExpectations(t)
	})
}

func TestTransactionHandler_GetByID(t *testing.T) {
	t.Run("missing returns 404 envelope", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		id := primitive.NewObjectID()
		store.On("FindByID", mock.Anything, id).Return(nil, nil).Once()

		rec := doJSON(router, http.MethodGet, "/transactions/"+id.Hex(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.False(t, envelope.Success)
		assert.Equal(t, "NotFoundError", envelope.ErrorType)
		assert.Equal(t, http.StatusNotFound, envelope.StatusCode)
	})

	t.Run("malformed id returns 400 without touching the store", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		rec := doJSON(router, http.MethodGet, "/transactions/nope", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_Update(t *testing.T) {
	t.Run("empty body returns 400", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		id := primitive.NewObjectID()
		rec := doJSON(router, http.MethodPatch, "/transactions/"+id.Hex(), `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Contains(t, envelope.Details[0].Message, "At least one field")
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("partial update forwards only provided fields", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		updated := models.Transaction{ID: primitive.NewObjectID(), Type: models.TypeExpense, Amount: 99}
		store.On("Update", mock.Anything, updated.ID, bson.M{"amount": 99.0}).
			Return(&updated, nil).Once()

		rec := doJSON(router, http.MethodPatch, "/transactions/"+updated.ID.Hex(), `{"amount":99}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		var record models.TransactionRecord
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
		assert.Equal(t, float64(99), record.Amount)
		store.AssertExpectations(t)
	})

	t.Run("missing returns 404", func(t *testing.T) {
		store := &MockTransactionStore{}
		router := transactionRouter(store)

		id := primitive.NewObjectID()
		store.On("Update", mock.Anything, id, bson.M{"amount": 10.0}).Return(nil, nil).Once()

		rec := doJSON(router, http.MethodPatch, "/transactions/"+id.Hex(), `{"amount":10}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTransactionHandler_Delete(t *testing.T) {
	store := &MockTransactionStore{}
	router := transactionRouter(store)

	id := primitive.NewObjectID()
	store.On("Delete", mock.Anything, id).Return(true, nil).Once()
	store.On("Delete", mock.Anything, id).Return(false, nil).Once()

	rec := doJSON(router, http.MethodDelete, "/transactions/"+id.Hex(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doJSON(router, http.MethodDelete, "/transactions/"+id.Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	store.AssertExpectations(t)
}
