package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// defaultCardLimit is the page size used when a CardFilter leaves Limit at zero.
const defaultCardLimit = 100

// GetCard returns the card with id, or ErrNotFound.
func (s *Store) GetCard(ctx context.Context, id string) (types.Card, error) {
	if id == "" {
		return types.Card{}, types.ErrInvalidID
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT "+joinColumns(cardColumns)+" FROM cards WHERE id = ?", id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Card{}, types.ErrNotFound
	}
	if err != nil {
		return types.Card{}, fmt.Errorf("get card %s: %w", id, err)
	}
	return card, nil
}

// ListCards returns cards matching filter, ordered by set then set order.
func (s *Store) ListCards(ctx context.Context, filter types.CardFilter) ([]types.Card, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.SetID != "" {
		where = append(where, "set_id = ?")
		args = append(args, filter.SetID)
	}
	if filter.CardType != "" {
		where = append(where, "card_type = ?")
		args = append(args, filter.CardType)
	}
	if filter.Rarity != "" {
		where = append(where, "rarity = ?")
		args = append(args, filter.Rarity)
	}

	query := "SELECT " + joinColumns(cardColumns) + " FROM cards"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := filter.Limit
	if limit == 0 {
		limit = defaultCardLimit
	}
	query += " ORDER BY set_id, set_order, id LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards := []types.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// CardVariants returns the variants of a card, primary first.
func (s *Store) CardVariants(ctx context.Context, cardID string) ([]types.Variant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+joinColumns(variantColumns)+" FROM variants WHERE card_id = ? ORDER BY is_primary DESC, id",
		cardID)
	if err != nil {
		return nil, fmt.Errorf("list variants for %s: %w", cardID, err)
	}
	defer rows.Close()

	variants := []types.Variant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list variants for %s: %w", cardID, err)
	}
	return variants, nil
}

// GetSet returns the set with id, or ErrNotFound.
func (s *Store) GetSet(ctx context.Context, id string) (types.Set, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+joinColumns(setColumns)+" FROM sets WHERE id = ?", id)
	set, err := scanSet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Set{}, types.ErrNotFound
	}
	if err != nil {
		return types.Set{}, fmt.Errorf("get set %s: %w", id, err)
	}
	return set, nil
}

// ListSets returns all sets, or only those of seriesID when it is non-empty.
func (s *Store) ListSets(ctx context.Context, seriesID string) ([]types.Set, error) {
	query := "SELECT " + joinColumns(setColumns) + " FROM sets"
	var args []any
	if seriesID != "" {
		query += " WHERE series_id = ?"
		args = append(args, seriesID)
	}
	query += " ORDER BY release_date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	sets := []types.Set{}
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}

// GetSeries returns the series with id, or ErrNotFound.
func (s *Store) GetSeries(ctx context.Context, id string) (types.Series, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+joinColumns(seriesColumns)+" FROM series WHERE id = ?", id)
	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Series{}, types.ErrNotFound
	}
	if err != nil {
		return types.Series{}, fmt.Errorf("get series %s: %w", id, err)
	}
	return series, nil
}

// ListSeries returns every series ordered by id.
func (s *Store) ListSeries(ctx context.Context) ([]types.Series, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+joinColumns(seriesColumns)+" FROM series ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	out := []types.Series{}
	for rows.Next() {
		series, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		out = append(out, series)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	return out, nil
}

// ListLookups returns every row of a lookup table ordered by id.
func (s *Store) ListLookups(ctx context.Context, kind types.LookupKind) ([]types.Lookup, error) {
	if !kind.Valid() {
		return nil, types.ErrUnknownLookup
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", kind))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	out := []types.Lookup{}
	for rows.Next() {
		var (
			l    types.Lookup
			name sql.NullString
		)
		if err := rows.Scan(&l.ID, &name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		l.Name = nullToString(name)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return out, nil
}

// CardNames returns the id and name of every card, for name search.
func (s *Store) CardNames(ctx context.Context) ([]types.CardName, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM cards ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list card names: %w", err)
	}
	defer rows.Close()

	out := []types.CardName{}
	for rows.Next() {
		var (
			c    types.CardName
			name sql.NullString
		)
		if err := rows.Scan(&c.ID, &name); err != nil {
			return nil, fmt.Errorf("scan card name: %w", err)
		}
		c.Name = nullToString(name)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list card names: %w", err)
	}
	return out, nil
}

// Counts returns the number of rows in every catalog table.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tableNames))
	for _, table := range tableNames {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
