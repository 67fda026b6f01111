// Package importer loads card JSON files into the catalog.
//
// A run reads <data>/cards/*.json in name order and writes each card in its
// own transaction. Canvases, frames, subclasses, effects, sets and series are
// resolved lookup-or-create through per-run caches. Set and series rows come
// from <data>/sets/<id>.json and <data>/series/<id>.json when those files are
// readable, and from the fields embedded on the card otherwise.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/mesh-intelligence/elestrals/internal/logging"
	"github.com/mesh-intelligence/elestrals/internal/sqlite"
	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// Defaults for Options fields left at zero.
const (
	DefaultCacheSize     = 1024
	DefaultProgressEvery = 100
)

// Options configures an Importer.
type Options struct {
	Logger        *slog.Logger
	CacheSize     int  // entries per lookup cache
	ProgressEvery int  // log progress every N files
	DryRun        bool // run every card through the pipeline, then roll back
}

// Summary reports the outcome of one run.
type Summary struct {
	RunID       string        `json:"run_id"`
	DataPath    string        `json:"data_path"`
	DryRun      bool          `json:"dry_run"`
	Found       int           `json:"found"`
	Imported    int           `json:"imported"`
	Failed      int           `json:"failed"`
	FailedFiles []string      `json:"failed_files,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// Importer loads card files into a catalog store. An Importer runs one import
// at a time; its caches are reset at the start of every Run.
type Importer struct {
	store *sqlite.Store
	log   *slog.Logger
	opts  Options

	canvas     *lru.Cache
	frames     *lru.Cache
	subclasses *lru.Cache
	effects    *lru.Cache
	sets       *lru.Cache
	series     *lru.Cache

	// card ids a dry run would have inserted so far
	dryRunIDs map[string]struct{}
}

// New creates an Importer writing to store.
func New(store *sqlite.Store, opts Options) (*Importer, error) {
	if store == nil {
		return nil, errors.New("importer: store is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}

	im := &Importer{
		store: store,
		log:   logging.With(opts.Logger, logging.TypeImport),
		opts:  opts,
	}
	for _, c := range []**lru.Cache{&im.canvas, &im.frames, &im.subclasses, &im.effects, &im.sets, &im.series} {
		cache, err := lru.New(opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create lookup cache: %w", err)
		}
		*c = cache
	}
	return im, nil
}

// Run imports every card file under <dataPath>/cards. Failures on a single
// file are logged and counted in the Summary; the run continues with the
// next file. Failing to list the cards directory or a cancelled context ends
// the run with an error.
func (im *Importer) Run(ctx context.Context, dataPath string) (Summary, error) {
	start := time.Now()
	sum := Summary{RunID: newRunID(), DataPath: dataPath, DryRun: im.opts.DryRun}
	log := im.log.With(slog.String("run_id", sum.RunID))

	im.purge()
	log.Info("starting data import", slog.String("data_path", dataPath), slog.Bool("dry_run", im.opts.DryRun))

	cardsPath := filepath.Join(dataPath, "cards")
	files, err := listJSON(cardsPath)
	if err != nil {
		log.Error("error during data import", logging.Err(err))
		return sum, err
	}
	sum.Found = len(files)
	log.Info("importing cards", slog.String("path", cardsPath), slog.Int("files", len(files)))

	for i, name := range files {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("import cancelled: %w", err)
		}

		err := im.importFile(ctx, log, dataPath, filepath.Join(cardsPath, name))
		switch {
		case err == nil:
			sum.Imported++
			if i%im.opts.ProgressEvery == 0 {
				log.Info(fmt.Sprintf("processed %d/%d cards", i+1, len(files)))
			}
		case ctx.Err() != nil:
			return sum, fmt.Errorf("import cancelled: %w", ctx.Err())
		default:
			sum.Failed++
			sum.FailedFiles = append(sum.FailedFiles, name)
			log.Error("error processing file", slog.String("file", name), logging.Err(err))
		}
	}

	sum.Duration = time.Since(start)
	log.Info("data import completed",
		slog.Int("found", sum.Found),
		slog.Int("imported", sum.Imported),
		slog.Int("failed", sum.Failed),
		slog.Duration("took", sum.Duration),
	)
	return sum, nil
}

// importFile reads, validates and writes one card file.
func (im *Importer) importFile(ctx context.Context, log *slog.Logger, dataPath, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	rec, err := types.DecodeCard(data)
	if err != nil {
		return err
	}

	// A dry run rolls back every card, so repeated ids are tracked here.
	if _, ok := im.dryRunIDs[rec.ID]; ok && im.opts.DryRun {
		return fmt.Errorf("insert card %s: %w", rec.ID, types.ErrDuplicateCard)
	}

	tx, err := im.store.Begin(ctx)
	if err != nil {
		return err
	}
	ct := &cardTx{Tx: tx}
	defer tx.Rollback()

	if err := im.processCard(ctx, log, ct, dataPath, rec); err != nil {
		return err
	}
	if im.opts.DryRun {
		if err := tx.Rollback(); err != nil {
			return err
		}
		im.dryRunIDs[rec.ID] = struct{}{}
		return nil
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	ct.publish()
	return nil
}

// processCard resolves the card's references, inserts the card row, then
// backfills its subclasses and inserts its variants.
func (im *Importer) processCard(ctx context.Context, log *slog.Logger, ct *cardTx, dataPath string, rec types.CardRecord) error {
	canvasID, err := im.getOrCreateLookup(ctx, ct, types.LookupCanvas, rec.Canvas)
	if err != nil {
		return err
	}
	frameID, err := im.getOrCreateLookup(ctx, ct, types.LookupFrames, rec.FrameMaterial)
	if err != nil {
		return err
	}
	if err := im.getOrCreateSeries(ctx, log, ct, dataPath, rec.SeriesID, rec.Series); err != nil {
		return err
	}
	setID, err := im.getOrCreateSet(ctx, log, ct, dataPath, rec)
	if err != nil {
		return err
	}

	card := types.NewCard(rec)
	card.Canvas = &canvasID
	card.FrameMaterial = &frameID
	card.SetID = setID

	if rec.Effect != nil && strings.TrimSpace(*rec.Effect) != "" {
		effectID, err := im.getOrCreateEffect(ctx, ct, *rec.Effect)
		if err != nil {
			return err
		}
		card.EffectID = &effectID
	}

	if !types.KnownCardType(rec.CardType) {
		log.Warn("unrecognized card type", slog.String("card", rec.ID), slog.String("card_type", rec.CardType))
	}
	if !types.KnownRarity(rec.Rarity) {
		log.Warn("unrecognized rarity", slog.String("card", rec.ID), slog.String("rarity", rec.Rarity))
	}

	if err := ct.InsertCard(ctx, card); err != nil {
		return err
	}
	if err := im.processSubclasses(ctx, ct, rec.ID, rec.Subclasses); err != nil {
		return err
	}
	return processVariants(ctx, ct, rec.ID, rec.Variants, rec.Image)
}

// processSubclasses backfills subclass_1 and subclass_2 from the first two
// names, in input order. Further names are ignored.
func (im *Importer) processSubclasses(ctx context.Context, ct *cardTx, cardID string, names []string) error {
	for i := 0; i < len(names) && i < 2; i++ {
		id, err := im.getOrCreateLookup(ctx, ct, types.LookupSubclasses, names[i])
		if err != nil {
			return err
		}
		if err := ct.SetSubclass(ctx, cardID, i+1, id); err != nil {
			return err
		}
	}
	return nil
}

// processVariants inserts one row per variant name. Only the first is primary
// and carries the card image.
func processVariants(ctx context.Context, ct *cardTx, cardID string, names []string, image string) error {
	for _, v := range types.Variants(cardID, names, image) {
		if _, err := ct.InsertVariant(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) lookupCache(kind types.LookupKind) *lru.Cache {
	switch kind {
	case types.LookupCanvas:
		return im.canvas
	case types.LookupFrames:
		return im.frames
	default:
		return im.subclasses
	}
}

// getOrCreateLookup returns the id for name in a lookup table: cache, then
// select, then insert.
func (im *Importer) getOrCreateLookup(ctx context.Context, ct *cardTx, kind types.LookupKind, name string) (int64, error) {
	cache := im.lookupCache(kind)
	if v, ok := ct.cached(cache, name); ok {
		return v.(int64), nil
	}

	id, found, err := ct.FindLookup(ctx, kind, name)
	if err != nil {
		return 0, err
	}
	if !found {
		if id, err = ct.InsertLookup(ctx, kind, name); err != nil {
			return 0, err
		}
	}
	ct.stage(cache, name, id)
	return id, nil
}

func (im *Importer) getOrCreateEffect(ctx context.Context, ct *cardTx, text string) (int64, error) {
	if v, ok := ct.cached(im.effects, text); ok {
		return v.(int64), nil
	}

	id, found, err := ct.FindEffect(ctx, text)
	if err != nil {
		return 0, err
	}
	if !found {
		if id, err = ct.InsertEffect(ctx, text); err != nil {
			return 0, err
		}
	}
	ct.stage(im.effects, text, id)
	return id, nil
}

func (im *Importer) purge() {
	for _, c := range []*lru.Cache{im.canvas, im.frames, im.subclasses, im.effects, im.sets, im.series} {
		c.Purge()
	}
	im.dryRunIDs = make(map[string]struct{})
}

// listJSON returns the .json file names in dir in lexical order.
func listJSON(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read cards directory %s: %w", dir, types.ErrDataDirMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("read cards directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

// newRunID returns a UUID v7, falling back to v4.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
