package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/elestrals/internal/sqlite"
	"github.com/mesh-intelligence/elestrals/pkg/types"
)

const emberFile = `{"id": "ember-001", "name": "Ember"}`

func strPtr(s string) *string { return &s }

// seedStore opens an in-memory catalog with one series, one set and three
// cards, two of which are elestrals.
func seedStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()
	s, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.InsertSeries(ctx, types.Series{ID: "genesis", Name: "Genesis"}))
	require.NoError(t, s.InsertSet(ctx, types.Set{ID: "base", Name: "Base Set", SeriesID: strPtr("genesis")}))
	canvas, err := s.InsertLookup(ctx, types.LookupCanvas, "standard")
	require.NoError(t, err)

	for _, c := range []struct{ id, name, cardType string }{
		{"ember-001", "Ember", types.CardTypeElestral},
		{"emberon-002", "Emberon", types.CardTypeElestral},
		{"tidal-003", "Tidal Surge", types.CardTypeSpirit},
	} {
		require.NoError(t, s.InsertCard(ctx, types.Card{
			ID:       c.id,
			Name:     c.name,
			CardType: c.cardType,
			Rarity:   types.RarityCommon,
			SetID:    "base",
			Canvas:   &canvas,
		}))
		for _, v := range types.Variants(c.id, []string{"base", "foil"}, c.id+".png") {
			_, err := s.InsertVariant(ctx, v)
			require.NoError(t, err)
		}
	}
	return s
}

func newTestApp(t *testing.T, catalog Catalog) (*fiber.App, string) {
	t.Helper()
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "cards"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "cards", "ember-001.json"), []byte(emberFile), 0o644))
	return New(Config{DataDir: dataDir, Version: "test"}, catalog), dataDir
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte, http.Header) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body, resp.Header
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()
	status, body, _ := do(t, app, httptest.NewRequest(http.MethodGet, target, nil))
	return status, body
}

func decodeError(t *testing.T, body []byte) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestBasicRoutes(t *testing.T) {
	app, _ := newTestApp(t, seedStore(t))

	t.Run("greeting", func(t *testing.T) {
		status, body := get(t, app, "/")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, Greeting, string(body))
	})

	t.Run("user echoes id", func(t *testing.T) {
		status, body := get(t, app, "/user/42")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "42", string(body))
	})

	t.Run("form echoes body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		status, body, header := do(t, app, req)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, `{"a":1}`, string(body))
		assert.Equal(t, "application/json", header.Get("Content-Type"))
	})

	t.Run("health", func(t *testing.T) {
		status, body := get(t, app, "/health")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body), `"status":"healthy"`)
	})
}

func TestCardFile(t *testing.T) {
	app, _ := newTestApp(t, seedStore(t))

	t.Run("serves file bytes", func(t *testing.T) {
		status, body, header := do(t, app, httptest.NewRequest(http.MethodGet, "/card/ember-001", nil))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, emberFile, string(body))
		assert.Contains(t, header.Get("Content-Type"), "application/json")
	})

	t.Run("missing file is 404", func(t *testing.T) {
		status, body := get(t, app, "/card/nope")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "not found", decodeError(t, body).Error)
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		for _, target := range []string{"/card/..secret", "/card/a..b"} {
			status, _ := get(t, app, target)
			assert.Equal(t, http.StatusBadRequest, status, target)
		}
	})
}

func TestCardsAPI(t *testing.T) {
	app, _ := newTestApp(t, seedStore(t))

	t.Run("list with filter", func(t *testing.T) {
		status, body := get(t, app, "/api/cards?card_type=elestral")
		require.Equal(t, http.StatusOK, status)
		var cards []types.Card
		require.NoError(t, json.Unmarshal(body, &cards))
		require.Len(t, cards, 2)
		for _, c := range cards {
			assert.Equal(t, types.CardTypeElestral, c.CardType)
		}
	})

	t.Run("paging", func(t *testing.T) {
		status, body := get(t, app, "/api/cards?limit=1&offset=1")
		require.Equal(t, http.StatusOK, status)
		var cards []types.Card
		require.NoError(t, json.Unmarshal(body, &cards))
		assert.Len(t, cards, 1)
	})

	t.Run("bad paging is 400", func(t *testing.T) {
		for _, target := range []string{"/api/cards?limit=abc", "/api/cards?limit=100000", "/api/cards?offset=-1"} {
			status, _ := get(t, app, target)
			assert.Equal(t, http.StatusBadRequest, status, target)
		}
	})

	t.Run("get card", func(t *testing.T) {
		status, body := get(t, app, "/api/cards/tidal-003")
		require.Equal(t, http.StatusOK, status)
		var card types.Card
		require.NoError(t, json.Unmarshal(body, &card))
		assert.Equal(t, "Tidal Surge", card.Name)
	})

	t.Run("unknown card is 404", func(t *testing.T) {
		status, body := get(t, app, "/api/cards/missing")
		assert.Equal(t, http.StatusNotFound, status)
		assert.NotEmpty(t, decodeError(t, body).Error)
	})

	t.Run("variants primary first", func(t *testing.T) {
		status, body := get(t, app, "/api/cards/ember-001/variants")
		require.Equal(t, http.StatusOK, status)
		var variants []types.Variant
		require.NoError(t, json.Unmarshal(body, &variants))
		require.Len(t, variants, 2)
		assert.True(t, variants[0].IsPrimary)

		status, _ = get(t, app, "/api/cards/missing/variants")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestSetsSeriesLookupsAPI(t *testing.T) {
	app, _ := newTestApp(t, seedStore(t))

	status, body := get(t, app, "/api/sets?series_id=genesis")
	require.Equal(t, http.StatusOK, status)
	var sets []types.Set
	require.NoError(t, json.Unmarshal(body, &sets))
	require.Len(t, sets, 1)
	assert.Equal(t, "base", sets[0].ID)

	status, _ = get(t, app, "/api/sets/base")
	assert.Equal(t, http.StatusOK, status)
	status, _ = get(t, app, "/api/sets/nope")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = get(t, app, "/api/series")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Genesis")
	status, _ = get(t, app, "/api/series/nope")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = get(t, app, "/api/lookups/canvas")
	require.Equal(t, http.StatusOK, status)
	var lookups []types.Lookup
	require.NoError(t, json.Unmarshal(body, &lookups))
	require.Len(t, lookups, 1)
	assert.Equal(t, "standard", lookups[0].Name)

	status, _ = get(t, app, "/api/lookups/bogus")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSearchAndStats(t *testing.T) {
	app, _ := newTestApp(t, seedStore(t))

	status, body := get(t, app, "/api/search?q=embr")
	require.Equal(t, http.StatusOK, status)
	var results []SearchResult
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, strings.HasPrefix(r.ID, "ember"), r.ID)
	}

	status, body = get(t, app, "/api/search?q=embr&limit=1")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &results))
	assert.Len(t, results, 1)

	status, _ = get(t, app, "/api/search")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = get(t, app, "/api/stats")
	require.Equal(t, http.StatusOK, status)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(body, &counts))
	assert.Equal(t, 3, counts["cards"])
	assert.Equal(t, 6, counts["variants"])
}

// failingCatalog fails every call it overrides.
type failingCatalog struct {
	Catalog
}

func (failingCatalog) Counts(context.Context) (map[string]int, error) {
	return nil, errors.New("disk on fire")
}

func TestInternalErrorsHideDetails(t *testing.T) {
	app, _ := newTestApp(t, failingCatalog{})

	status, body := get(t, app, "/api/stats")
	assert.Equal(t, http.StatusInternalServerError, status)
	e := decodeError(t, body)
	assert.Equal(t, "internal server error", e.Error)
	assert.Empty(t, e.Details)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{types.ErrNotFound, http.StatusNotFound},
		{types.ErrInvalidFilter, http.StatusBadRequest},
		{types.ErrUnknownLookup, http.StatusBadRequest},
		{invalid(errors.New("x")), http.StatusBadRequest},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{errors.New("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, _ := statusFor(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
	}
}
