package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// writer holds the catalog statements shared by Store and Tx.
type writer struct {
	q querier
}

// FindLookup returns the id of the first row in the kind table whose name
// matches exactly.
func (w writer) FindLookup(ctx context.Context, kind types.LookupKind, name string) (int64, bool, error) {
	if !kind.Valid() {
		return 0, false, fmt.Errorf("find %s: %w", kind, types.ErrUnknownLookup)
	}
	var id int64
	err := w.q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT id FROM %s WHERE name = ? ORDER BY id LIMIT 1", kind), name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find %s %q: %w", kind, name, err)
	}
	return id, true, nil
}

// InsertLookup adds name to the kind table and returns the new id.
func (w writer) InsertLookup(ctx context.Context, kind types.LookupKind, name string) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("insert %s: %w", kind, types.ErrUnknownLookup)
	}
	res, err := w.q.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", kind), name)
	if err != nil {
		return 0, fmt.Errorf("insert %s %q: %w", kind, name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert %s %q: %w", kind, name, err)
	}
	return id, nil
}

// FindEffect returns the id of the effects row holding text.
func (w writer) FindEffect(ctx context.Context, text string) (int64, bool, error) {
	var id int64
	err := w.q.QueryRowContext(ctx,
		"SELECT id FROM effects WHERE effect = ? ORDER BY id LIMIT 1", text,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find effect: %w", err)
	}
	return id, true, nil
}

// InsertEffect stores an effect text and returns its id.
func (w writer) InsertEffect(ctx context.Context, text string) (int64, error) {
	res, err := w.q.ExecContext(ctx, "INSERT INTO effects (effect) VALUES (?)", text)
	if err != nil {
		return 0, fmt.Errorf("insert effect: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert effect: %w", err)
	}
	return id, nil
}

// SeriesExists reports whether a series row with id exists.
func (w writer) SeriesExists(ctx context.Context, id string) (bool, error) {
	return w.exists(ctx, "series", id)
}

// InsertSeries adds a series row.
func (w writer) InsertSeries(ctx context.Context, s types.Series) error {
	if s.ID == "" {
		return fmt.Errorf("insert series: %w", types.ErrInvalidID)
	}
	_, err := w.q.ExecContext(ctx,
		"INSERT INTO series (id, name, image, icon) VALUES (?, ?, ?, ?)",
		s.ID, s.Name, s.Image, s.Icon,
	)
	if err != nil {
		return fmt.Errorf("insert series %s: %w", s.ID, err)
	}
	return nil
}

// SetExists reports whether a set row with id exists.
func (w writer) SetExists(ctx context.Context, id string) (bool, error) {
	return w.exists(ctx, "sets", id)
}

// InsertSet adds a set row.
func (w writer) InsertSet(ctx context.Context, s types.Set) error {
	if s.ID == "" {
		return fmt.Errorf("insert set: %w", types.ErrInvalidID)
	}
	_, err := w.q.ExecContext(ctx,
		"INSERT INTO sets ("+joinColumns(setColumns)+") VALUES ("+placeholders(len(setColumns))+")",
		s.ID, s.Name, s.SetCode, s.SeriesID, s.SeriesCode, s.ReleaseDate,
		s.Image, s.Icon, s.Stamp, s.Logo,
	)
	if err != nil {
		return fmt.Errorf("insert set %s: %w", s.ID, err)
	}
	return nil
}

// InsertCard adds a card row. It returns ErrDuplicateCard when a card with the
// same id already exists.
func (w writer) InsertCard(ctx context.Context, c types.Card) error {
	if c.ID == "" {
		return fmt.Errorf("insert card: %w", types.ErrInvalidID)
	}
	found, err := w.exists(ctx, "cards", c.ID)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("insert card %s: %w", c.ID, types.ErrDuplicateCard)
	}

	_, err = w.q.ExecContext(ctx,
		"INSERT INTO cards ("+joinColumns(cardColumns)+") VALUES ("+placeholders(len(cardColumns))+")",
		cardArgs(c)...,
	)
	if err != nil {
		return fmt.Errorf("insert card %s: %w", c.ID, err)
	}
	return nil
}

// SetSubclass backfills subclass slot 1 or 2 of an existing card.
func (w writer) SetSubclass(ctx context.Context, cardID string, slot int, subclassID int64) error {
	var column string
	switch slot {
	case 1:
		column = "subclass_1"
	case 2:
		column = "subclass_2"
	default:
		return fmt.Errorf("set subclass slot %d: %w", slot, types.ErrInvalidFilter)
	}

	res, err := w.q.ExecContext(ctx,
		fmt.Sprintf("UPDATE cards SET %s = ? WHERE id = ?", column), subclassID, cardID,
	)
	if err != nil {
		return fmt.Errorf("set %s on card %s: %w", column, cardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set %s on card %s: %w", column, cardID, err)
	}
	if n == 0 {
		return fmt.Errorf("set %s on card %s: %w", column, cardID, types.ErrNotFound)
	}
	return nil
}

// InsertVariant adds a variant row and returns its id.
func (w writer) InsertVariant(ctx context.Context, v types.Variant) (int64, error) {
	res, err := w.q.ExecContext(ctx,
		"INSERT INTO variants (variant, card_id, image, is_primary) VALUES (?, ?, ?, ?)",
		v.Variant, v.CardID, v.Image, boolToInt(v.IsPrimary),
	)
	if err != nil {
		return 0, fmt.Errorf("insert variant %q for card %s: %w", v.Variant, v.CardID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert variant %q for card %s: %w", v.Variant, v.CardID, err)
	}
	return id, nil
}

func (w writer) exists(ctx context.Context, table, id string) (bool, error) {
	var one int
	err := w.q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", table), id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s %s: %w", table, id, err)
	}
	return true, nil
}
