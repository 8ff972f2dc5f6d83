package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/cache"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/dtos"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/repositories"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/routes"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/seeding"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/services"
	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

// newTestRouter wires the endpoints exactly as main does, minus auth, over a
// seeded in-memory store.
func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	repo := repositories.NewInMemoryDeletionRequestRepository()
	require.NoError(t, seeding.SeedDeletionRequests(repo))

	pendingCache := cache.NewPendingCache(cache.Config{
		Key:                "CustomerAccountDeletionRequests",
		AbsoluteExpiration: time.Minute,
		Priority:           cache.PriorityNeverRemove,
	})
	refreshService := services.NewCacheRefreshService(repo, pendingCache)
	service := services.NewDeletionRequestService(repo, pendingCache, refreshService)

	ctrl := NewDeletionRequestController(service)
	healthCtrl := NewHealthController(repo)

	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.DeletionRequestBase, ctrl.GetAllHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.DeletionRequestCreate, ctrl.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.DeletionRequestApprove, ctrl.ApproveHandler).Methods(http.MethodPatch)
	router.HandleFunc(routes.DeletionRequestByID, ctrl.GetByIDHandler).Methods(http.MethodGet)
	return router
}

func doRequest(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetAllEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/CustomerAccountDeletionRequest", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []dtos.DeletionRequestReadDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 5)
	assert.Equal(t, 1, body[0].CustomerID)
	assert.Equal(t, "Terrible Site.", body[0].Reason)
	assert.False(t, body[0].RequestedAt.IsZero())
}

func TestGetByIDEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("ok", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/CustomerAccountDeletionRequest/2", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.DeletionRequestReadDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 2, body.CustomerID)
		assert.Equal(t, "Prefer Amazon.", body.Reason)
	})

	t.Run("invalid ids", func(t *testing.T) {
		for _, path := range []string{
			"/CustomerAccountDeletionRequest/0",
			"/CustomerAccountDeletionRequest/-10",
		} {
			rec := doRequest(router, http.MethodGet, path, "")
			require.Equal(t, http.StatusBadRequest, rec.Code, path)

			body := decodeError(t, rec)
			assert.Equal(t, http.StatusBadRequest, body.StatusCode)
			assert.Equal(t, "IDs cannot be less than 1.", body.ErrorMessage)
		}
	})

	t.Run("absent id", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/CustomerAccountDeletionRequest/2147483647", "")
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, http.StatusNotFound, body.StatusCode)
		assert.Equal(t, "A resource for ID: 2147483647 does not exist.", body.ErrorMessage)
	})
}

func TestCreateEndpoint(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(router, http.MethodPost, "/CustomerAccountDeletionRequest/Create",
			`{"customerId":6,"reason":"TEST Deleting my account."}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/CustomerAccountDeletionRequest/6", rec.Header().Get("Location"))

		var body dtos.DeletionRequestReadDTO
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, 6, body.CustomerID)

		follow := doRequest(router, http.MethodGet, "/CustomerAccountDeletionRequest/6", "")
		assert.Equal(t, http.StatusOK, follow.Code)
	})

	t.Run("empty body", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(router, http.MethodPost, "/CustomerAccountDeletionRequest/Create", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "The deletion request to be created cannot be null.", body.ErrorMessage)
	})

	t.Run("missing fields", func(t *testing.T) {
		router := newTestRouter(t)

		for _, payload := range []string{
			`{}`,
			`{"customerId":6}`,
			`{"reason":"no customer"}`,
			`{"customerId":-1,"reason":"negative"}`,
		} {
			rec := doRequest(router, http.MethodPost, "/CustomerAccountDeletionRequest/Create", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		}
	})

	t.Run("reason too long", func(t *testing.T) {
		router := newTestRouter(t)

		long := strings.Repeat("x", 301)
		rec := doRequest(router, http.MethodPost, "/CustomerAccountDeletionRequest/Create",
			`{"customerId":6,"reason":"`+long+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApproveEndpoint(t *testing.T) {
	t.Run("approved", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(router, http.MethodPatch, "/CustomerAccountDeletionRequest/Approve/1",
			`{"staffId":2}`)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		// Customer 1 has left the pending view.
		all := doRequest(router, http.MethodGet, "/CustomerAccountDeletionRequest", "")
		require.Equal(t, http.StatusOK, all.Code)

		var body []dtos.DeletionRequestReadDTO
		require.NoError(t, json.NewDecoder(all.Body).Decode(&body))
		require.Len(t, body, 4)
		for _, dr := range body {
			assert.NotEqual(t, 1, dr.CustomerID)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(router, http.MethodPatch, "/CustomerAccountDeletionRequest/Approve/1", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "The deletion request used to update cannot be null.", body.ErrorMessage)
	})

	t.Run("invalid patches", func(t *testing.T) {
		router := newTestRouter(t)

		for _, payload := range []string{`null`, `{}`, `{"staffId":0}`, `{"staffId":-2}`} {
			rec := doRequest(router, http.MethodPatch, "/CustomerAccountDeletionRequest/Approve/1", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code, payload)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(router, http.MethodPatch, "/CustomerAccountDeletionRequest/Approve/0",
			`{"staffId":2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("absent id", func(t *testing.T) {
		router := newTestRouter(t)

		rec := doRequest(router, http.MethodPatch, "/CustomerAccountDeletionRequest/Approve/2147483647",
			`{"staffId":2}`)
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "A resource for ID: 2147483647 does not exist.", body.ErrorMessage)
	})
}
