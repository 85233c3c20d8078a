package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rosterJSON(count int, prefix string) map[string]interface{} {
	players := make([]map[string]string, 0, count)
	for i := 1; i <= count; i++ {
		players = append(players, map[string]string{
			"idPlayer":       fmt.Sprintf("%s-%d", prefix, i),
			"strPlayer":      fmt.Sprintf("Player %s %d", prefix, i),
			"strTeam":        "Test FC",
			"strPosition":    "Forward",
			"strNationality": "Spain",
		})
	}
	return map[string]interface{}{"player": players}
}

func newTestClient(serverURL string, ttl time.Duration) *Client {
	return NewClient(Config{
		BaseURL:  serverURL,
		APIKey:   "1",
		CacheTTL: ttl,
	}, testLogger())
}

func TestIdentitiesNormalizesUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/1/lookup_all_players.php", r.URL.Path)

		roster := rosterJSON(12, "pl")
		// Entries without a name or position are filtered out
		roster["player"] = append(roster["player"].([]map[string]string),
			map[string]string{"idPlayer": "bad-1", "strPlayer": "", "strPosition": "Forward"},
			map[string]string{"idPlayer": "bad-2", "strPlayer": "Someone", "strPosition": ""},
		)
		json.NewEncoder(w).Encode(roster)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)
	pool := client.Identities(context.Background())

	// Every team returns the same 12 ids, so dedupe leaves exactly 12
	assert.Len(t, pool, 12)
	for _, id := range pool {
		assert.NotEmpty(t, id.Name)
		assert.NotEmpty(t, id.Position)
		assert.Equal(t, "Test FC", id.Team)
	}
}

func TestIdentitiesCapsPoolSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Distinct ids per team so the pool keeps growing
		json.NewEncoder(w).Encode(rosterJSON(30, r.URL.Query().Get("id")))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)
	pool := client.Identities(context.Background())

	assert.Len(t, pool, 50)
}

func TestIdentitiesFallbackOnUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)
	pool := client.Identities(context.Background())

	require.NotEmpty(t, pool, "fallback pool must never be empty")
	assert.Equal(t, FallbackIdentities(), pool)
}

func TestIdentitiesFallbackOnShortPool(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rosterJSON(3, "pl"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)
	pool := client.Identities(context.Background())

	assert.Equal(t, FallbackIdentities(), pool, "a too-small upstream pool is not usable")
}

func TestIdentitiesCached(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		json.NewEncoder(w).Encode(rosterJSON(60, "pl"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)

	first := client.Identities(context.Background())
	after := requests.Load()
	require.Positive(t, after)

	second := client.Identities(context.Background())
	assert.Equal(t, after, requests.Load(), "a warm cache must not hit upstream")
	assert.Equal(t, first, second)
}

func TestIdentitiesCacheExpiry(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		json.NewEncoder(w).Encode(rosterJSON(60, "pl"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Nanosecond)

	client.Identities(context.Background())
	after := requests.Load()

	client.Identities(context.Background())
	assert.Greater(t, requests.Load(), after, "an expired cache refetches")
}

func TestSearchTeamPlayers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/1/searchteams.php":
			require.Equal(t, "Test FC", r.URL.Query().Get("t"))
			json.NewEncoder(w).Encode(map[string]interface{}{
				"teams": []map[string]string{{"idTeam": "42", "strTeam": "Test FC"}},
			})
		case "/1/lookup_all_players.php":
			require.Equal(t, "42", r.URL.Query().Get("id"))
			json.NewEncoder(w).Encode(rosterJSON(5, "pl"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)

	players, err := client.SearchTeamPlayers(context.Background(), "Test FC")
	require.NoError(t, err)
	assert.Len(t, players, 5)
}

func TestSearchTeamPlayersNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"teams": nil})
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)

	_, err := client.SearchTeamPlayers(context.Background(), "Nowhere United")
	assert.Error(t, err)
}

func TestSearchTeamPlayersUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Hour)

	_, err := client.SearchTeamPlayers(context.Background(), "Test FC")
	assert.Error(t, err)
}
