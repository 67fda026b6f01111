package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Integer is a whole JSON number. Card files write counts as 2 or 2.0; both
// decode, while 2.5 and quoted numbers are rejected.
type Integer int64

// UnmarshalJSON accepts any JSON number with an integral value.
func (n *Integer) UnmarshalJSON(data []byte) error {
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*n = Integer(i)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return fmt.Errorf("%s is not an integer", bytes.TrimSpace(data))
	}
	*n = Integer(f)
	return nil
}

// Int64 returns n as a nullable column value.
func (n *Integer) Int64() *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}

// CardRecord is one card file as found under <data>/cards. Pointer fields are
// nullable in the source data; a missing key decodes as null.
type CardRecord struct {
	ID                   string   `json:"id"`
	BaseName             string   `json:"base_name"`
	Title                *string  `json:"title"`
	SetNumber            string   `json:"set_number"`
	SortNumber           string   `json:"sort_number"`
	Name                 string   `json:"name"`
	Alias                *string  `json:"alias"`
	CardType             string   `json:"card_type"`
	Rarity               string   `json:"rarity"`
	Canvas               string   `json:"canvas"`
	FrameMaterial        string   `json:"frame_material"`
	Artist               string   `json:"artist"`
	Set                  string   `json:"set"`
	SetID                string   `json:"set_id"`
	Subset               string   `json:"subset"`
	Series               string   `json:"series"`
	SeriesID             string   `json:"series_id"`
	Image                string   `json:"image"`
	Render               *string  `json:"render"`
	CreatureID           *string  `json:"creature_id"`
	TotalCost            *Integer `json:"total_cost"`
	Attack               *Integer `json:"attack"`
	Defense              *Integer `json:"defense"`
	SerializedStellar    bool     `json:"serialized_stellar"`
	SerializedPopulation *Integer `json:"serialized_population"`
	IsPrizeCard          bool     `json:"is_prize_card"`
	IsOrigin             *bool    `json:"is_origin"`
	PrizeRank            *string  `json:"prize_rank"`
	PrintedEffect        *string  `json:"printed_effect"`
	Effect               *string  `json:"effect"`
	Elements             []string `json:"elements"`
	Cost                 []string `json:"cost"`
	Subclasses           []string `json:"subclasses"`
	Variants             []string `json:"varaints"`
}

// cardRequired lists the keys that must be present and non-null in a card file.
var cardRequired = []string{
	"id", "base_name", "set_number", "sort_number", "name", "card_type", "rarity",
	"canvas", "frame_material", "artist", "set", "set_id", "subset", "series",
	"series_id", "image", "serialized_stellar", "is_prize_card",
	"elements", "cost", "subclasses", "varaints",
}

// DecodeCard parses and validates a card file. Errors wrap ErrInvalidCard.
func DecodeCard(data []byte) (CardRecord, error) {
	var rec CardRecord
	if err := decodeRecord(data, cardRequired, &rec); err != nil {
		return CardRecord{}, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if err := rec.Validate(); err != nil {
		return CardRecord{}, err
	}
	return rec, nil
}

// Validate checks the fields the importer needs to resolve foreign keys.
func (r CardRecord) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"id", r.ID},
		{"name", r.Name},
		{"canvas", r.Canvas},
		{"frame_material", r.FrameMaterial},
		{"set_id", r.SetID},
		{"series_id", r.SeriesID},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidCard, f.name)
		}
	}
	if strings.ContainsAny(r.ID, `/\`) {
		return fmt.Errorf("%w: id %q contains a path separator", ErrInvalidCard, r.ID)
	}
	return nil
}

// SetRecord is one set file as found under <data>/sets.
type SetRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Abbr        string  `json:"abbr"`
	Series      string  `json:"series"`
	SeriesID    string  `json:"series_id"`
	ReleaseDate string  `json:"release_date"`
	Image       string  `json:"image"`
	Icon        string  `json:"icon"`
	Stamp       *string `json:"stamp"`
	Logo        *string `json:"logo"`
	SeriesCode  string  `json:"series_code"`
}

var setRequired = []string{
	"id", "name", "type", "abbr", "series", "series_id", "release_date",
	"image", "icon", "series_code",
}

// DecodeSet parses and validates a set file. Errors wrap ErrInvalidSet.
func DecodeSet(data []byte) (SetRecord, error) {
	var rec SetRecord
	if err := decodeRecord(data, setRequired, &rec); err != nil {
		return SetRecord{}, fmt.Errorf("%w: %v", ErrInvalidSet, err)
	}
	if err := rec.Validate(); err != nil {
		return SetRecord{}, err
	}
	return rec, nil
}

// Validate requires an id and a name.
func (r SetRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSet)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSet)
	}
	return nil
}

// ToSet maps the file layout onto the sets table. The file's "type" field
// holds the set code.
func (r SetRecord) ToSet() Set {
	return Set{
		ID:          r.ID,
		Name:        r.Name,
		SetCode:     stringPtr(r.Type),
		SeriesID:    stringPtr(r.SeriesID),
		SeriesCode:  stringPtr(r.SeriesCode),
		ReleaseDate: stringPtr(r.ReleaseDate),
		Image:       stringPtr(r.Image),
		Icon:        stringPtr(r.Icon),
		Stamp:       r.Stamp,
		Logo:        r.Logo,
	}
}

// SeriesRecord is one series file as found under <data>/series.
type SeriesRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Icon      string `json:"icon"`
	SortOrder *int   `json:"sort_order,omitempty"`
}

var seriesRequired = []string{"id", "name", "image", "icon"}

// DecodeSeries parses and validates a series file. Errors wrap ErrInvalidSeries.
func DecodeSeries(data []byte) (SeriesRecord, error) {
	var rec SeriesRecord
	if err := decodeRecord(data, seriesRequired, &rec); err != nil {
		return SeriesRecord{}, fmt.Errorf("%w: %v", ErrInvalidSeries, err)
	}
	if err := rec.Validate(); err != nil {
		return SeriesRecord{}, err
	}
	return rec, nil
}

// Validate requires an id and a name.
func (r SeriesRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSeries)
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSeries)
	}
	return nil
}

// ToSeries maps the file layout onto the series table.
func (r SeriesRecord) ToSeries() Series {
	return Series{
		ID:    r.ID,
		Name:  r.Name,
		Image: stringPtr(r.Image),
		Icon:  stringPtr(r.Icon),
	}
}

// decodeRecord checks that every required key is present and non-null, then
// decodes data into out. Type mismatches surface as decode errors.
func decodeRecord(data []byte, required []string, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	for _, key := range required {
		raw, ok := fields[key]
		if !ok {
			return fmt.Errorf("missing field %s", key)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("field %s must not be null", key)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func stringPtr(s string) *string {
	return &s
}
