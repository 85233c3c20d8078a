package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Zilecito18/impostor-game/internal/domain"
)

const (
	// DefaultBaseURL is TheSportsDB JSON API root.
	DefaultBaseURL = "https://www.thesportsdb.com/api/v1/json"

	// maxPoolSize caps the normalized pool handed to the engine.
	maxPoolSize = 50

	// minUsablePool is the smallest upstream result worth using; anything
	// smaller falls back to the static pool.
	minUsablePool = 10
)

// popularTeamIDs are TheSportsDB ids of well-known clubs whose rosters
// make a recognizable identity pool.
var popularTeamIDs = []string{
	"133602", // Real Madrid
	"133738", // Barcelona
	"134301", // Manchester United
	"134300", // Liverpool
	"134302", // Bayern Munich
	"133739", // Paris Saint-Germain
	"134503", // Juventus
	"133610", // Chelsea
	"133616", // Arsenal
}

// Config configures the SportsDB client.
type Config struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// Client fetches and normalizes the identity pool from TheSportsDB,
// caching the result. Upstream failures are fully absorbed: Identities
// always returns a non-empty pool, falling back to the static list.
type Client struct {
	baseURL    string
	apiKey     string
	cacheTTL   time.Duration
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	cached    []domain.Identity
	fetchedAt time.Time
}

// NewClient creates a SportsDB-backed identity source.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = "1" // free tier key
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		cacheTTL:   cfg.CacheTTL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Identities returns the deduplicated identity pool. The upstream result
// is cached; on fetch failure or a too-small result the static fallback
// pool is returned instead. Never returns an empty slice.
func (c *Client) Identities(ctx context.Context) []domain.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		return copyIdentities(c.cached)
	}

	pool, err := c.fetchPopular(ctx)
	if err != nil || len(pool) < minUsablePool {
		c.logger.Warn("identity pool upstream unusable, using fallback",
			"fetched", len(pool), "error", err)
		return FallbackIdentities()
	}

	c.cached = pool
	c.fetchedAt = time.Now()

	return copyIdentities(pool)
}

// SearchTeamPlayers resolves a team by name and returns its normalized
// roster. Unlike Identities this surfaces errors: it backs a lookup
// endpoint, not role assignment.
func (c *Client) SearchTeamPlayers(ctx context.Context, teamName string) ([]domain.Identity, error) {
	var result struct {
		Teams []struct {
			IDTeam  string `json:"idTeam"`
			StrTeam string `json:"strTeam"`
		} `json:"teams"`
	}
	endpoint := "/searchteams.php?t=" + url.QueryEscape(teamName)
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	if len(result.Teams) == 0 {
		return nil, fmt.Errorf("no team found for %q", teamName)
	}

	return c.teamPlayers(ctx, result.Teams[0].IDTeam)
}

// fetchPopular walks the popular team list, collecting usable players.
// Individual team failures are skipped; only a fully empty result is an
// error.
func (c *Client) fetchPopular(ctx context.Context) ([]domain.Identity, error) {
	seen := make(map[string]struct{})
	pool := make([]domain.Identity, 0, maxPoolSize)

	for _, teamID := range popularTeamIDs {
		players, err := c.teamPlayers(ctx, teamID)
		if err != nil {
			c.logger.Debug("team roster fetch failed", "teamID", teamID, "error", err)
			continue
		}
		for _, p := range players {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			pool = append(pool, p)
			if len(pool) >= maxPoolSize {
				return pool, nil
			}
		}
	}

	if len(pool) == 0 {
		return nil, errors.New("no players returned by upstream")
	}
	return pool, nil
}

// sportsDBPlayer is the raw upstream player shape.
type sportsDBPlayer struct {
	IDPlayer       string `json:"idPlayer"`
	StrPlayer      string `json:"strPlayer"`
	StrTeam        string `json:"strTeam"`
	StrPosition    string `json:"strPosition"`
	StrNationality string `json:"strNationality"`
	StrThumb       string `json:"strThumb"`
}

// teamPlayers fetches and normalizes a single team's roster, filtering
// entries without a name or position.
func (c *Client) teamPlayers(ctx context.Context, teamID string) ([]domain.Identity, error) {
	var result struct {
		Player []sportsDBPlayer `json:"player"`
	}
	endpoint := "/lookup_all_players.php?id=" + url.QueryEscape(teamID)
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}

	out := make([]domain.Identity, 0, len(result.Player))
	for _, p := range result.Player {
		if p.StrPlayer == "" || p.StrPosition == "" {
			continue
		}
		out = append(out, domain.Identity{
			ID:          p.IDPlayer,
			Name:        p.StrPlayer,
			Team:        p.StrTeam,
			Position:    p.StrPosition,
			Nationality: p.StrNationality,
			Thumb:       p.StrThumb,
		})
	}
	return out, nil
}

// getJSON performs a GET against the SportsDB API and decodes the body.
func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	reqURL := fmt.Sprintf("%s/%s%s", c.baseURL, c.apiKey, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func copyIdentities(in []domain.Identity) []domain.Identity {
	out := make([]domain.Identity, len(in))
	copy(out, in)
	return out
}
