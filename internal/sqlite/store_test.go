package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// setupStore opens a file-backed catalog in a temp directory.
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "catalog.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// seedCard inserts a series, a set and one card with two variants.
func seedCard(t *testing.T, s *Store, id string) types.Card {
	t.Helper()
	ctx := context.Background()

	if ok, err := s.SeriesExists(ctx, "genesis"); err == nil && !ok {
		require.NoError(t, s.InsertSeries(ctx, types.Series{ID: "genesis", Name: "Genesis"}))
	}
	if ok, err := s.SetExists(ctx, "base"); err == nil && !ok {
		require.NoError(t, s.InsertSet(ctx, types.Set{ID: "base", Name: "Base Set", SeriesID: strPtr("genesis")}))
	}

	canvasID, err := s.InsertLookup(ctx, types.LookupCanvas, "standard-"+id)
	require.NoError(t, err)

	card := types.Card{
		ID:        id,
		Name:      "Card " + id,
		BaseName:  "Card",
		SetNumber: "001",
		SetOrder:  "1",
		CardType:  types.CardTypeElestral,
		Rarity:    types.RarityCommon,
		Canvas:    &canvasID,
		SetID:     "base",
		Attack:    int64Ptr(2),
		PrizeRank: strPtr("03"),
		TotalCost: int64Ptr(3),
		ElementCosts: types.ElementCosts{
			Fire: 2,
			Omni: 1,
		},
	}
	require.NoError(t, s.InsertCard(ctx, card))
	for _, v := range types.Variants(id, []string{"base", "foil"}, id+".png") {
		_, err := s.InsertVariant(ctx, v)
		require.NoError(t, err)
	}
	return card
}

func TestOpen(t *testing.T) {
	t.Run("creates parent directory and schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.sqlite")
		s, err := Open(context.Background(), path)
		require.NoError(t, err)
		defer s.Close()

		_, err = os.Stat(path)
		require.NoError(t, err)

		counts, err := s.Counts(context.Background())
		require.NoError(t, err)
		assert.Len(t, counts, len(tableNames))
		for table, n := range counts {
			assert.Zero(t, n, table)
		}
	})

	t.Run("reopen keeps rows", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.sqlite")
		s, err := Open(context.Background(), path)
		require.NoError(t, err)
		seedCard(t, s, "ember-001")
		require.NoError(t, s.Close())

		s, err = Open(context.Background(), path)
		require.NoError(t, err)
		defer s.Close()
		_, err = s.GetCard(context.Background(), "ember-001")
		assert.NoError(t, err)
	})

	t.Run("in-memory catalog", func(t *testing.T) {
		s, err := Open(context.Background(), MemoryPath)
		require.NoError(t, err)
		defer s.Close()
		seedCard(t, s, "ember-001")
		counts, err := s.Counts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, counts["cards"])
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		_, err := Open(context.Background(), " ")
		assert.Error(t, err)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		s := setupStore(t)
		assert.NoError(t, s.Close())
		assert.NoError(t, s.Close())
	})
}

func TestLookups(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, found, err := s.FindLookup(ctx, types.LookupFrames, "paper")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := s.InsertLookup(ctx, types.LookupFrames, "paper")
	require.NoError(t, err)

	got, found, err := s.FindLookup(ctx, types.LookupFrames, "paper")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	_, found, err = s.FindLookup(ctx, types.LookupFrames, "Paper")
	require.NoError(t, err)
	assert.False(t, found, "names match exactly")

	_, _, err = s.FindLookup(ctx, types.LookupKind("cards"), "x")
	assert.ErrorIs(t, err, types.ErrUnknownLookup)
	_, err = s.InsertLookup(ctx, types.LookupKind("cards; DROP TABLE cards"), "x")
	assert.ErrorIs(t, err, types.ErrUnknownLookup)

	rows, err := s.ListLookups(ctx, types.LookupFrames)
	require.NoError(t, err)
	assert.Equal(t, []types.Lookup{{ID: id, Name: "paper"}}, rows)
}

func TestEffects(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	id, err := s.InsertEffect(ctx, "Draw a card.")
	require.NoError(t, err)
	got, found, err := s.FindEffect(ctx, "Draw a card.")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)
}

func TestCardRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	want := seedCard(t, s, "ember-001")

	got, err := s.GetCard(ctx, "ember-001")
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.SetOrder, got.SetOrder)
	assert.Equal(t, want.ElementCosts, got.ElementCosts)
	assert.Equal(t, want.Canvas, got.Canvas)
	require.NotNil(t, got.PrizeRank)
	assert.Equal(t, "03", *got.PrizeRank, "prize rank keeps its leading zero")
	assert.Nil(t, got.Title)
	assert.Nil(t, got.IsOrigin)
	assert.Nil(t, got.Subclass1)
	assert.False(t, got.IsPrizeCard)

	_, err = s.GetCard(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetCard(ctx, "")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestInsertCard(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seedCard(t, s, "ember-001")

	t.Run("duplicate id", func(t *testing.T) {
		err := s.InsertCard(ctx, types.Card{ID: "ember-001", SetID: "base"})
		assert.ErrorIs(t, err, types.ErrDuplicateCard)
	})

	t.Run("unknown set violates foreign key", func(t *testing.T) {
		err := s.InsertCard(ctx, types.Card{ID: "orphan", SetID: "nope"})
		assert.Error(t, err)
	})

	t.Run("is_origin and is_prize_card are stored separately", func(t *testing.T) {
		origin := true
		require.NoError(t, s.InsertCard(ctx, types.Card{ID: "prize", SetID: "base", IsOrigin: &origin}))
		got, err := s.GetCard(ctx, "prize")
		require.NoError(t, err)
		assert.False(t, got.IsPrizeCard)
		require.NotNil(t, got.IsOrigin)
		assert.True(t, *got.IsOrigin)
	})
}

func TestSetSubclass(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seedCard(t, s, "ember-001")

	dragon, err := s.InsertLookup(ctx, types.LookupSubclasses, "Dragon")
	require.NoError(t, err)
	beast, err := s.InsertLookup(ctx, types.LookupSubclasses, "Beast")
	require.NoError(t, err)

	require.NoError(t, s.SetSubclass(ctx, "ember-001", 1, dragon))
	require.NoError(t, s.SetSubclass(ctx, "ember-001", 2, beast))

	got, err := s.GetCard(ctx, "ember-001")
	require.NoError(t, err)
	assert.Equal(t, &dragon, got.Subclass1)
	assert.Equal(t, &beast, got.Subclass2)

	assert.ErrorIs(t, s.SetSubclass(ctx, "ember-001", 3, beast), types.ErrInvalidFilter)
	assert.ErrorIs(t, s.SetSubclass(ctx, "missing", 1, beast), types.ErrNotFound)
}

func TestVariantsAndListing(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seedCard(t, s, "ember-001")
	seedCard(t, s, "ember-002")

	variants, err := s.CardVariants(ctx, "ember-001")
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.True(t, variants[0].IsPrimary)
	assert.Equal(t, "ember-001.png", *variants[0].Image)
	assert.False(t, variants[1].IsPrimary)
	assert.Nil(t, variants[1].Image)

	cards, err := s.ListCards(ctx, types.CardFilter{SetID: "base"})
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	cards, err = s.ListCards(ctx, types.CardFilter{SetID: "base", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "ember-002", cards[0].ID)

	cards, err = s.ListCards(ctx, types.CardFilter{Rarity: types.RarityRare})
	require.NoError(t, err)
	assert.Empty(t, cards)

	_, err = s.ListCards(ctx, types.CardFilter{Limit: -1})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)

	names, err := s.CardNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.CardName{{ID: "ember-001", Name: "Card ember-001"}, {ID: "ember-002", Name: "Card ember-002"}}, names)
}

func TestSetsAndSeries(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	seedCard(t, s, "ember-001")

	set, err := s.GetSet(ctx, "base")
	require.NoError(t, err)
	assert.Equal(t, "Base Set", set.Name)
	assert.Equal(t, "genesis", *set.SeriesID)
	assert.Nil(t, set.SetCode)

	sets, err := s.ListSets(ctx, "genesis")
	require.NoError(t, err)
	assert.Len(t, sets, 1)
	sets, err = s.ListSets(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, sets)

	series, err := s.GetSeries(ctx, "genesis")
	require.NoError(t, err)
	assert.Equal(t, "Genesis", series.Name)

	all, err := s.ListSeries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.GetSet(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s.GetSeries(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestTxRollback(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertLookup(ctx, types.LookupCanvas, "standard")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())
	require.NoError(t, tx.Rollback(), "second rollback is a no-op")

	_, found, err := s.FindLookup(ctx, types.LookupCanvas, "standard")
	require.NoError(t, err)
	assert.False(t, found)

	tx, err = s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertLookup(ctx, types.LookupCanvas, "standard")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, found, err = s.FindLookup(ctx, types.LookupCanvas, "standard")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestExportLoadJSONL(t *testing.T) {
	src := setupStore(t)
	ctx := context.Background()
	seedCard(t, src, "ember-001")
	seedCard(t, src, "ember-002")

	dir := t.TempDir()
	written, err := src.ExportJSONL(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, written["cards"])
	assert.Equal(t, 4, written["variants"])

	for _, table := range tableNames {
		_, err := os.Stat(filepath.Join(dir, jsonlFile(table)))
		assert.NoError(t, err, table)
	}

	// A malformed line is skipped on load.
	f, err := os.OpenFile(filepath.Join(dir, "frames.jsonl"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dst := setupStore(t)
	loaded, err := dst.LoadJSONL(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded["cards"])

	srcCounts, err := src.Counts(ctx)
	require.NoError(t, err)
	dstCounts, err := dst.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, srcCounts, dstCounts)

	want, err := src.GetCard(ctx, "ember-001")
	require.NoError(t, err)
	got, err := dst.GetCard(ctx, "ember-001")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = dst.LoadJSONL(ctx, dir)
	assert.ErrorIs(t, err, ErrCatalogNotEmpty)
}

func TestLoadJSONLMissingFiles(t *testing.T) {
	s := setupStore(t)
	loaded, err := s.LoadJSONL(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
