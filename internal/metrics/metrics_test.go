package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	r := NewRecorder()

	r.SplitCreated("EQUAL")
	r.SplitCreated("EQUAL")
	r.Transition("confirm", "applied")
	r.Delivered("inbox", nil)
	r.Delivered("redis", errors.New("down"))

	out := httptest.NewRecorder()
	r.Handler().ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := out.Body.String()

	assert.Contains(t, body, `splitledger_splits_created_total{strategy="EQUAL"} 2`)
	assert.Contains(t, body, `splitledger_split_transitions_total{action="confirm",outcome="applied"} 1`)
	assert.Contains(t, body, `splitledger_notifications_delivered_total{result="ok",sink="inbox"} 1`)
	assert.Contains(t, body, `splitledger_notifications_delivered_total{result="error",sink="redis"} 1`)
}

func TestMiddlewareAndHandler(t *testing.T) {
	rec := NewRecorder()

	router := chi.NewRouter()
	router.Use(rec.Middleware)
	router.Get("/groups/{groupId}/splits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", rec.Handler())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/groups/7/splits", nil))

	out := httptest.NewRecorder()
	router.ServeHTTP(out, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, out.Code)

	body := out.Body.String()
	assert.True(t, strings.Contains(body, `route="/groups/{groupId}/splits"`), "route label uses the pattern, not the path")
	assert.Contains(t, body, "go_goroutines")
}
