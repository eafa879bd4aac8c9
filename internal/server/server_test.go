package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/exercise-tracker/apiserver/internal/store"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, cfg config.Config, objects *storage.Storage) http.Handler {
	t.Helper()
	logger, _ := test.NewNullLogger()
	deps := Deps{
		Users:     store.NewMemoryUserRepository(),
		Exercises: store.NewMemoryExerciseRepository(),
		Logger:    logger,
	}
	if objects != nil {
		deps.Objects = objects
	}
	return NewRouter(cfg, deps)
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterServesAPI(t *testing.T) {
	router := newTestRouter(t, config.Config{CORSAllowedOrigins: []string{"*"}}, nil)

	rec := serve(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPost, "/api/users", `{"username":"ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	rec = serve(router, http.MethodPost, "/api/users/"+user.ID+"/exercises", `{"description":"run","duration":"30","date":"2024-01-05"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(router, http.MethodGet, "/api/users/"+user.ID+"/logs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)

	rec = serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exercise_tracker_exercises_logged_total 1")
	assert.Contains(t, rec.Body.String(), `route="/api/users/{userID}/exercises"`)

	rec = serve(router, http.MethodPost, "/api/users/"+user.ID+"/logs/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterRegistersExportWithObjectStorage(t *testing.T) {
	objects := storage.NewStorage(storage.NewMemoryBackend(""))
	router := newTestRouter(t, config.Config{}, objects)

	rec := serve(router, http.MethodPost, "/api/users", `{"username":"ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	rec = serve(router, http.MethodPost, "/api/users/"+user.ID+"/logs/export", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, err := objects.List(context.Background(), "logs/"+user.ID+"/")
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	rec = serve(router, http.MethodGet, "/api/users/"+user.ID+"/logs/exports", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterStrictDuration(t *testing.T) {
	router := newTestRouter(t, config.Config{StrictDuration: true}, nil)

	rec := serve(router, http.MethodPost, "/api/users", `{"username":"ada"}`)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	rec = serve(router, http.MethodPost, "/api/users/"+user.ID+"/exercises", `{"description":"run","duration":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewRejectsUnknownStoreDriver(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := New(context.Background(), config.Config{StoreDriver: "sqlite"}, logger)
	assert.EqualError(t, err, `unknown store driver "sqlite"`)
}

func TestNewWithMemoryStore(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv, err := New(context.Background(), config.Config{StoreDriver: config.StoreDriverMemory}, logger)
	require.NoError(t, err)
	assert.Equal(t, ":8080", srv.httpServer.Addr)
	assert.Less(t, requestTimeout, srv.httpServer.WriteTimeout)

	rec := serve(srv.Router(), http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, srv.Shutdown(context.Background()))
}

func TestNewWithMemoryStorage(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv, err := New(context.Background(), config.Config{
		StoreDriver:   config.StoreDriverMemory,
		StorageDriver: config.StorageDriverMemory,
	}, logger)
	require.NoError(t, err)

	rec := serve(srv.Router(), http.MethodPost, "/api/users", `{"username":"ada"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var user struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	rec = serve(srv.Router(), http.MethodPost, "/api/users/"+user.ID+"/logs/export", "")
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, srv.Shutdown(context.Background()))
}
