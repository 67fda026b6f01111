package sqlite

import (
	"database/sql"

	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// Column lists shared by inserts, selects, and the JSONL export. Order must
// match the corresponding args and scan functions.
var (
	seriesColumns = []string{"id", "name", "image", "icon"}

	setColumns = []string{
		"id", "name", "set_code", "series_id", "series_code", "release_date",
		"image", "icon", "stamp", "logo",
	}

	cardColumns = []string{
		"id", "name", "base_name", "title", "alias", "set_number", "set_order",
		"card_type", "rarity", "canvas", "frame_material", "artist", "set_id",
		"render", "attack", "defense", "serialized_stellar", "serialized_population",
		"is_prize_card", "prize_rank", "printed_effect", "effect_id", "is_origin",
		"subclass_1", "subclass_2", "cost_display", "total_cost",
		"fire_cost", "earth_cost", "thunder_cost", "water_cost", "wind_cost",
		"frost_cost", "lunar_cost", "solar_cost", "omni_cost",
	}

	variantColumns = []string{"id", "variant", "card_id", "image", "is_primary"}
)

func cardArgs(c types.Card) []any {
	return []any{
		c.ID, c.Name, c.BaseName, c.Title, c.Alias, c.SetNumber, c.SetOrder,
		c.CardType, c.Rarity, c.Canvas, c.FrameMaterial, c.Artist, c.SetID,
		c.Render, c.Attack, c.Defense, boolToInt(c.SerializedStellar), c.SerializedPopulation,
		boolToInt(c.IsPrizeCard), c.PrizeRank, c.PrintedEffect, c.EffectID, boolPtrToNull(c.IsOrigin),
		c.Subclass1, c.Subclass2, c.CostDisplay, c.TotalCost,
		c.Fire, c.Earth, c.Thunder, c.Water, c.Wind,
		c.Frost, c.Lunar, c.Solar, c.Omni,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type seriesRow struct {
	id    string
	name  sql.NullString
	image sql.NullString
	icon  sql.NullString
}

func (r *seriesRow) scanArgs() []any {
	return []any{&r.id, &r.name, &r.image, &r.icon}
}

func (r *seriesRow) toDomain() types.Series {
	return types.Series{
		ID:    r.id,
		Name:  nullToString(r.name),
		Image: nullToStringPtr(r.image),
		Icon:  nullToStringPtr(r.icon),
	}
}

type setRow struct {
	id          string
	name        sql.NullString
	setCode     sql.NullString
	seriesID    sql.NullString
	seriesCode  sql.NullString
	releaseDate sql.NullString
	image       sql.NullString
	icon        sql.NullString
	stamp       sql.NullString
	logo        sql.NullString
}

func (r *setRow) scanArgs() []any {
	return []any{
		&r.id, &r.name, &r.setCode, &r.seriesID, &r.seriesCode, &r.releaseDate,
		&r.image, &r.icon, &r.stamp, &r.logo,
	}
}

func (r *setRow) toDomain() types.Set {
	return types.Set{
		ID:          r.id,
		Name:        nullToString(r.name),
		SetCode:     nullToStringPtr(r.setCode),
		SeriesID:    nullToStringPtr(r.seriesID),
		SeriesCode:  nullToStringPtr(r.seriesCode),
		ReleaseDate: nullToStringPtr(r.releaseDate),
		Image:       nullToStringPtr(r.image),
		Icon:        nullToStringPtr(r.icon),
		Stamp:       nullToStringPtr(r.stamp),
		Logo:        nullToStringPtr(r.logo),
	}
}

type cardRow struct {
	id                   string
	name                 sql.NullString
	baseName             sql.NullString
	title                sql.NullString
	alias                sql.NullString
	setNumber            sql.NullString
	setOrder             sql.NullString
	cardType             sql.NullString
	rarity               sql.NullString
	canvas               sql.NullInt64
	frameMaterial        sql.NullInt64
	artist               sql.NullString
	setID                sql.NullString
	render               sql.NullString
	attack               sql.NullInt64
	defense              sql.NullInt64
	serializedStellar    sql.NullInt64
	serializedPopulation sql.NullInt64
	isPrizeCard          sql.NullInt64
	prizeRank            sql.NullString
	printedEffect        sql.NullString
	effectID             sql.NullInt64
	isOrigin             sql.NullInt64
	subclass1            sql.NullInt64
	subclass2            sql.NullInt64
	costDisplay          sql.NullString
	totalCost            sql.NullInt64
	costs                [9]sql.NullInt64
}

func (r *cardRow) scanArgs() []any {
	args := []any{
		&r.id, &r.name, &r.baseName, &r.title, &r.alias, &r.setNumber, &r.setOrder,
		&r.cardType, &r.rarity, &r.canvas, &r.frameMaterial, &r.artist, &r.setID,
		&r.render, &r.attack, &r.defense, &r.serializedStellar, &r.serializedPopulation,
		&r.isPrizeCard, &r.prizeRank, &r.printedEffect, &r.effectID, &r.isOrigin,
		&r.subclass1, &r.subclass2, &r.costDisplay, &r.totalCost,
	}
	for i := range r.costs {
		args = append(args, &r.costs[i])
	}
	return args
}

func (r *cardRow) toDomain() types.Card {
	cost := func(i int) int { return int(r.costs[i].Int64) }
	return types.Card{
		ID:                   r.id,
		Name:                 nullToString(r.name),
		BaseName:             nullToString(r.baseName),
		Title:                nullToStringPtr(r.title),
		Alias:                nullToStringPtr(r.alias),
		SetNumber:            nullToString(r.setNumber),
		SetOrder:             nullToString(r.setOrder),
		CardType:             nullToString(r.cardType),
		Rarity:               nullToString(r.rarity),
		Canvas:               nullToInt64Ptr(r.canvas),
		FrameMaterial:        nullToInt64Ptr(r.frameMaterial),
		Artist:               nullToString(r.artist),
		SetID:                nullToString(r.setID),
		Render:               nullToStringPtr(r.render),
		Attack:               nullToInt64Ptr(r.attack),
		Defense:              nullToInt64Ptr(r.defense),
		SerializedStellar:    nullToBool(r.serializedStellar),
		SerializedPopulation: nullToInt64Ptr(r.serializedPopulation),
		IsPrizeCard:          nullToBool(r.isPrizeCard),
		PrizeRank:            nullToStringPtr(r.prizeRank),
		PrintedEffect:        nullToStringPtr(r.printedEffect),
		EffectID:             nullToInt64Ptr(r.effectID),
		IsOrigin:             nullToBoolPtr(r.isOrigin),
		Subclass1:            nullToInt64Ptr(r.subclass1),
		Subclass2:            nullToInt64Ptr(r.subclass2),
		CostDisplay:          nullToStringPtr(r.costDisplay),
		TotalCost:            nullToInt64Ptr(r.totalCost),
		ElementCosts: types.ElementCosts{
			Fire:    cost(0),
			Earth:   cost(1),
			Thunder: cost(2),
			Water:   cost(3),
			Wind:    cost(4),
			Frost:   cost(5),
			Lunar:   cost(6),
			Solar:   cost(7),
			Omni:    cost(8),
		},
	}
}

type variantRow struct {
	id        int64
	variant   sql.NullString
	cardID    sql.NullString
	image     sql.NullString
	isPrimary sql.NullInt64
}

func (r *variantRow) scanArgs() []any {
	return []any{&r.id, &r.variant, &r.cardID, &r.image, &r.isPrimary}
}

func (r *variantRow) toDomain() types.Variant {
	return types.Variant{
		ID:        r.id,
		Variant:   nullToString(r.variant),
		CardID:    nullToString(r.cardID),
		Image:     nullToStringPtr(r.image),
		IsPrimary: nullToBool(r.isPrimary),
	}
}

func scanCard(s rowScanner) (types.Card, error) {
	var r cardRow
	if err := s.Scan(r.scanArgs()...); err != nil {
		return types.Card{}, err
	}
	return r.toDomain(), nil
}

func scanSet(s rowScanner) (types.Set, error) {
	var r setRow
	if err := s.Scan(r.scanArgs()...); err != nil {
		return types.Set{}, err
	}
	return r.toDomain(), nil
}

func scanSeries(s rowScanner) (types.Series, error) {
	var r seriesRow
	if err := s.Scan(r.scanArgs()...); err != nil {
		return types.Series{}, err
	}
	return r.toDomain(), nil
}

func scanVariant(s rowScanner) (types.Variant, error) {
	var r variantRow
	if err := s.Scan(r.scanArgs()...); err != nil {
		return types.Variant{}, err
	}
	return r.toDomain(), nil
}
