package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/users/{userID}/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users/"+id+"/logs", nil))
	}

	count := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/users/{userID}/logs", "404"))
	assert.Equal(t, float64(2), count)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.httpInFlight))
}

func TestRecorderCounters(t *testing.T) {
	m := New()
	m.UserCreated()
	m.ExerciseLogged()
	m.ExerciseLogged()
	m.LogExported()
	m.EventPublished("exercise.logged")
	m.EventFailed("exercise.logged")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.usersCreated))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.exercisesLogged))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.logsExported))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.eventsPublished.WithLabelValues("exercise.logged")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.eventsFailed.WithLabelValues("exercise.logged")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.UserCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "exercise_tracker_users_created_total 1"))
}
