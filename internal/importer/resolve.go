package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/mesh-intelligence/elestrals/internal/logging"
	"github.com/mesh-intelligence/elestrals/internal/sqlite"
	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// cardTx is the transaction for one card. Cache entries resolved inside it
// are staged and only published to the run caches after commit, so a card
// that rolls back leaves no ids behind that point at rolled-back rows.
type cardTx struct {
	*sqlite.Tx
	staged []stagedEntry
}

type stagedEntry struct {
	cache *lru.Cache
	key   string
	value any
}

func (ct *cardTx) cached(cache *lru.Cache, key string) (any, bool) {
	if v, ok := cache.Get(key); ok {
		return v, true
	}
	for _, s := range ct.staged {
		if s.cache == cache && s.key == key {
			return s.value, true
		}
	}
	return nil, false
}

func (ct *cardTx) stage(cache *lru.Cache, key string, value any) {
	ct.staged = append(ct.staged, stagedEntry{cache: cache, key: key, value: value})
}

func (ct *cardTx) publish() {
	for _, s := range ct.staged {
		s.cache.Add(s.key, s.value)
	}
	ct.staged = nil
}

// getOrCreateSeries makes sure series id exists. A missing row is created
// from <data>/series/<id>.json, or from (id, fallbackName) when that file
// cannot be read or does not validate.
func (im *Importer) getOrCreateSeries(ctx context.Context, log *slog.Logger, ct *cardTx, dataPath, id, fallbackName string) error {
	if _, ok := ct.cached(im.series, id); ok {
		return nil
	}

	found, err := ct.SeriesExists(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		path := metadataPath(dataPath, "series", id)
		row, err := readSeriesFile(path, id)
		if err != nil {
			log.Warn(fmt.Sprintf("error reading file for %s at %s, using card data as fallback", id, path), logging.Err(err))
			row = types.Series{ID: id, Name: fallbackName}
		}
		if err := ct.InsertSeries(ctx, row); err != nil {
			return err
		}
	}
	ct.stage(im.series, id, id)
	return nil
}

// getOrCreateSet makes sure the card's set exists and returns its id. A
// missing row is created from <data>/sets/<set_id>.json, or from the card's
// set name and series id when that file cannot be read or does not validate.
func (im *Importer) getOrCreateSet(ctx context.Context, log *slog.Logger, ct *cardTx, dataPath string, rec types.CardRecord) (string, error) {
	id := rec.SetID
	if _, ok := ct.cached(im.sets, id); ok {
		return id, nil
	}

	found, err := ct.SetExists(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		path := metadataPath(dataPath, "sets", id)
		row, err := readSetFile(path, id)
		if err != nil {
			log.Warn(fmt.Sprintf("error reading file for %s at %s, using card data as fallback", id, path), logging.Err(err))
			seriesID := rec.SeriesID
			row = types.Set{ID: id, Name: rec.Set, SeriesID: &seriesID}
		}
		// A set file may name a series the card does not.
		if row.SeriesID != nil && *row.SeriesID != rec.SeriesID {
			if err := im.getOrCreateSeries(ctx, log, ct, dataPath, *row.SeriesID, *row.SeriesID); err != nil {
				return "", err
			}
		}
		if err := ct.InsertSet(ctx, row); err != nil {
			return "", err
		}
	}
	ct.stage(im.sets, id, id)
	return id, nil
}

func metadataPath(dataPath, kind, id string) string {
	return filepath.Join(dataPath, kind, id+".json")
}

// readSetFile loads and validates a set file. The row keeps the card's set id
// so the card's foreign key always resolves.
func readSetFile(path, id string) (types.Set, error) {
	if err := checkFileID(id); err != nil {
		return types.Set{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Set{}, err
	}
	rec, err := types.DecodeSet(data)
	if err != nil {
		return types.Set{}, err
	}
	row := rec.ToSet()
	row.ID = id
	return row, nil
}

func readSeriesFile(path, id string) (types.Series, error) {
	if err := checkFileID(id); err != nil {
		return types.Series{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Series{}, err
	}
	rec, err := types.DecodeSeries(data)
	if err != nil {
		return types.Series{}, err
	}
	row := rec.ToSeries()
	row.ID = id
	return row, nil
}

// checkFileID rejects ids that would resolve outside the metadata directory.
func checkFileID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q is not a valid file name", types.ErrInvalidID, id)
	}
	return nil
}
