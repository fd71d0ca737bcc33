/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package teamvite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mikeb26/pdxsched/internal"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrAmbiguous = errors.New("more than one match")
)

// teamvite answers a repeat insert with a constraint failure; treat it as
// already uploaded.
const duplicateGameMarker = "UNIQUE constraint failed: games.team_id, games.time"

// vended by <APP_URL>/season?name=<name>
type Season struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// vended by <APP_URL>/team?name=<name>
type Team struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	DivisionID int    `json:"division_id"`
}

// Game is the body of POST <APP_URL>/game
type Game struct {
	TeamID      int    `json:"team_id"`
	SeasonID    int    `json:"season_id"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger

	mu      sync.Mutex
	seasons map[string]Season
	teams   map[string]Team
}

func NewClient(httpClient *http.Client, baseURL string,
	log zerolog.Logger) *Client {

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
		seasons:    make(map[string]Season),
		teams:      make(map[string]Team),
	}
}

// Season looks up a season by exact name. Results are memoized.
func (c *Client) Season(ctx context.Context, name string) (Season, error) {
	c.mu.Lock()
	s, ok := c.seasons[name]
	c.mu.Unlock()
	if ok {
		return s, nil
	}

	var found []Season
	if err := c.getJSON(ctx, "/season", name, &found); err != nil {
		return Season{}, err
	}
	matches := make([]Season, 0, len(found))
	for _, s := range found {
		if s.Name == name {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return Season{}, fmt.Errorf("season %q: %w", name, ErrNotFound)
	case 1:
	default:
		return Season{}, fmt.Errorf("season %q: %w: %v", name, ErrAmbiguous,
			matches)
	}

	c.mu.Lock()
	c.seasons[name] = matches[0]
	c.mu.Unlock()

	return matches[0], nil
}

// Team looks up a team by exact name. Results are memoized.
func (c *Client) Team(ctx context.Context, name string) (Team, error) {
	c.mu.Lock()
	t, ok := c.teams[name]
	c.mu.Unlock()
	if ok {
		return t, nil
	}

	var found []Team
	if err := c.getJSON(ctx, "/team", name, &found); err != nil {
		return Team{}, err
	}
	matches := make([]Team, 0, len(found))
	for _, t := range found {
		if t.Name == name {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return Team{}, fmt.Errorf("team %q: %w", name, ErrNotFound)
	case 1:
	default:
		return Team{}, fmt.Errorf("team %q: %w: %v", name, ErrAmbiguous,
			matches)
	}

	c.mu.Lock()
	c.teams[name] = matches[0]
	c.mu.Unlock()

	return matches[0], nil
}

func (c *Client) getJSON(ctx context.Context, path string, name string,
	out any) error {

	u := fmt.Sprintf("%v%v?name=%v", c.baseURL, path, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("unable to fetch %v (new): %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to fetch %v (do): %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unable to fetch %v (http): %v %v", u,
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to parse %v: %w", path, err)
	}

	return nil
}

// CreateGame posts one game. A duplicate of an existing game is not an error.
func (c *Client) CreateGame(ctx context.Context, g Game) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("unable to marshal game: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/game",
		bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("unable to create game (new): %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unable to create game (do): %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("unable to create game (read): %w", err)
	}
	if resp.StatusCode != http.StatusOK &&
		!strings.Contains(string(body), duplicateGameMarker) {

		return fmt.Errorf("unable to create game (http): %v %v for %+v",
			resp.StatusCode, strings.TrimSpace(string(body)), g)
	}
	c.log.Debug().Int("status", resp.StatusCode).
		Str("body", strings.TrimSpace(string(body))).Msg("added game")

	return nil
}

func gameTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
