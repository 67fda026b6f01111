package types

// Series is a row in the series table.
type Series struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Image *string `json:"image"`
	Icon  *string `json:"icon"`
}

// Set is a row in the sets table. A set created from card fields alone
// carries only ID, Name and SeriesID.
type Set struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SetCode     *string `json:"set_code"`
	SeriesID    *string `json:"series_id"`
	SeriesCode  *string `json:"series_code"`
	ReleaseDate *string `json:"release_date"`
	Image       *string `json:"image"`
	Icon        *string `json:"icon"`
	Stamp       *string `json:"stamp"`
	Logo        *string `json:"logo"`
}

// Card is a row in the cards table. Canvas, FrameMaterial, EffectID and the
// subclass slots hold lookup-table ids.
type Card struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	BaseName             string  `json:"base_name"`
	Title                *string `json:"title"`
	Alias                *string `json:"alias"`
	SetNumber            string  `json:"set_number"`
	SetOrder             string  `json:"set_order"`
	CardType             string  `json:"card_type"`
	Rarity               string  `json:"rarity"`
	Canvas               *int64  `json:"canvas"`
	FrameMaterial        *int64  `json:"frame_material"`
	Artist               string  `json:"artist"`
	SetID                string  `json:"set_id"`
	Render               *string `json:"render"`
	Attack               *int64  `json:"attack"`
	Defense              *int64  `json:"defense"`
	SerializedStellar    bool    `json:"serialized_stellar"`
	SerializedPopulation *int64  `json:"serialized_population"`
	IsPrizeCard          bool    `json:"is_prize_card"`
	PrizeRank            *string `json:"prize_rank"`
	PrintedEffect        *string `json:"printed_effect"`
	EffectID             *int64  `json:"effect_id"`
	IsOrigin             *bool   `json:"is_origin"`
	Subclass1            *int64  `json:"subclass_1"`
	Subclass2            *int64  `json:"subclass_2"`
	CostDisplay          *string `json:"cost_display"`
	TotalCost            *int64  `json:"total_cost"`
	ElementCosts
}

// NewCard copies the scalar fields of a card record into a row and computes
// the element cost counts. Foreign keys are left for the caller to resolve.
func NewCard(r CardRecord) Card {
	return Card{
		ID:                   r.ID,
		Name:                 r.Name,
		BaseName:             r.BaseName,
		Title:                r.Title,
		Alias:                r.Alias,
		SetNumber:            r.SetNumber,
		SetOrder:             r.SortNumber,
		CardType:             r.CardType,
		Rarity:               r.Rarity,
		Artist:               r.Artist,
		SetID:                r.SetID,
		Render:               r.Render,
		Attack:               r.Attack.Int64(),
		Defense:              r.Defense.Int64(),
		SerializedStellar:    r.SerializedStellar,
		SerializedPopulation: r.SerializedPopulation.Int64(),
		IsPrizeCard:          r.IsPrizeCard,
		PrizeRank:            r.PrizeRank,
		PrintedEffect:        r.PrintedEffect,
		IsOrigin:             r.IsOrigin,
		TotalCost:            r.TotalCost.Int64(),
		ElementCosts:         CostCounts(r.Cost),
	}
}

// Variant is a row in the variants table. Only the primary variant carries
// an image.
type Variant struct {
	ID        int64   `json:"id"`
	Variant   string  `json:"variant"`
	CardID    string  `json:"card_id"`
	Image     *string `json:"image"`
	IsPrimary bool    `json:"is_primary"`
}

// Variants builds the variant rows for a card. The first entry is primary
// and takes image; the rest have no image.
func Variants(cardID string, names []string, image string) []Variant {
	out := make([]Variant, 0, len(names))
	for i, name := range names {
		v := Variant{Variant: name, CardID: cardID}
		if i == 0 {
			img := image
			v.Image = &img
			v.IsPrimary = true
		}
		out = append(out, v)
	}
	return out
}

// Lookup is a row in one of the canvas, frames or subclasses tables.
type Lookup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CardName pairs a card id with its display name for search.
type CardName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardFilter narrows ListCards. Zero values mean no constraint; a Limit of
// zero means the store default.
type CardFilter struct {
	SetID    string
	CardType string
	Rarity   string
	Limit    int
	Offset   int
}

// MaxCardLimit caps the page size for card listings.
const MaxCardLimit = 500

// Validate rejects negative paging values and limits above MaxCardLimit.
func (f CardFilter) Validate() error {
	if f.Limit < 0 || f.Limit > MaxCardLimit || f.Offset < 0 {
		return ErrInvalidFilter
	}
	return nil
}
