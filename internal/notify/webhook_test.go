package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/football-elo/internal/config"
	"github.com/yourusername/football-elo/internal/service"
)

func TestDeliverPostsPayload(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(&config.NotifyConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		RateLimit:  100,
	}, nil)

	update := service.ScoreUpdate{
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		HomeScore: 2,
		AwayScore: 0,
		HomeDelta: 10.5,
		AwayDelta: -10.5,
	}
	require.NoError(t, notifier.deliver(context.Background(), update))

	assert.Equal(t, "score_update", received.Event)
	assert.Equal(t, "Arsenal", received.Data.HomeTeam)
	assert.Equal(t, 2, received.Data.HomeScore)
	assert.Equal(t, 10.5, received.Data.HomeDelta)
}

func TestDeliverRetriesServerErrors(t *testing.T) {
	var attempts int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(&config.NotifyConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		RateLimit:  100,
	}, nil)

	require.NoError(t, notifier.deliver(context.Background(), service.ScoreUpdate{}))
	assert.EqualValues(t, 3, atomic.LoadInt64(&attempts))
}

func TestDeliverClientErrorFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(&config.NotifyConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		RateLimit:  100,
	}, nil)

	assert.Error(t, notifier.deliver(context.Background(), service.ScoreUpdate{}))
}
