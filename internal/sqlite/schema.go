// Package sqlite implements the SQLite storage layer for the card catalog.
package sqlite

// Schema DDL for all tables. Statements are idempotent so opening an existing
// catalog leaves its rows in place.
const (
	createSeries = `CREATE TABLE IF NOT EXISTS series (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT,
    image TEXT,
    icon TEXT
);`

	createSets = `CREATE TABLE IF NOT EXISTS sets (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT,
    set_code TEXT,
    series_id TEXT REFERENCES series(id),
    series_code TEXT,
    release_date TEXT,
    image TEXT,
    icon TEXT,
    stamp TEXT,
    logo TEXT
);`

	createCanvas = `CREATE TABLE IF NOT EXISTS canvas (
    id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
    name TEXT
);`

	createFrames = `CREATE TABLE IF NOT EXISTS frames (
    id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
    name TEXT
);`

	createSubclasses = `CREATE TABLE IF NOT EXISTS subclasses (
    id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
    name TEXT
);`

	createEffects = `CREATE TABLE IF NOT EXISTS effects (
    id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
    effect TEXT
);`

	createCards = `CREATE TABLE IF NOT EXISTS cards (
    id TEXT PRIMARY KEY NOT NULL,
    name TEXT,
    base_name TEXT,
    title TEXT,
    alias TEXT,
    set_number TEXT,
    set_order TEXT,
    card_type TEXT,
    rarity TEXT,
    canvas INTEGER REFERENCES canvas(id),
    frame_material INTEGER REFERENCES frames(id),
    artist TEXT,
    set_id TEXT REFERENCES sets(id),
    render TEXT,
    attack INTEGER,
    defense INTEGER,
    serialized_stellar INTEGER,
    serialized_population INTEGER,
    is_prize_card INTEGER,
    prize_rank TEXT,
    printed_effect TEXT,
    effect_id INTEGER REFERENCES effects(id),
    is_origin INTEGER,
    subclass_1 INTEGER REFERENCES subclasses(id),
    subclass_2 INTEGER REFERENCES subclasses(id),
    cost_display TEXT,
    total_cost INTEGER,
    fire_cost INTEGER,
    earth_cost INTEGER,
    thunder_cost INTEGER,
    water_cost INTEGER,
    wind_cost INTEGER,
    frost_cost INTEGER,
    lunar_cost INTEGER,
    solar_cost INTEGER,
    omni_cost INTEGER
);`

	createVariants = `CREATE TABLE IF NOT EXISTS variants (
    id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
    variant TEXT,
    card_id TEXT REFERENCES cards(id),
    image TEXT,
    is_primary INTEGER
);`
)

// Index DDL for the lookups the importer and the API run.
const (
	idxSetsSeries     = `CREATE INDEX IF NOT EXISTS idx_sets_series ON sets(series_id);`
	idxCardsSet       = `CREATE INDEX IF NOT EXISTS idx_cards_set ON cards(set_id);`
	idxCardsName      = `CREATE INDEX IF NOT EXISTS idx_cards_name ON cards(name);`
	idxVariantsCard   = `CREATE INDEX IF NOT EXISTS idx_variants_card ON variants(card_id);`
	idxCanvasName     = `CREATE INDEX IF NOT EXISTS idx_canvas_name ON canvas(name);`
	idxFramesName     = `CREATE INDEX IF NOT EXISTS idx_frames_name ON frames(name);`
	idxSubclassesName = `CREATE INDEX IF NOT EXISTS idx_subclasses_name ON subclasses(name);`
	idxEffectsEffect  = `CREATE INDEX IF NOT EXISTS idx_effects_effect ON effects(effect);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createSeries,
	createSets,
	createCanvas,
	createFrames,
	createSubclasses,
	createEffects,
	createCards,
	createVariants,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSetsSeries,
	idxCardsSet,
	idxCardsName,
	idxVariantsCard,
	idxCanvasName,
	idxFramesName,
	idxSubclassesName,
	idxEffectsEffect,
}

// tableNames lists the catalog tables in dependency order.
var tableNames = []string{
	"series", "sets", "canvas", "frames", "subclasses", "effects", "cards", "variants",
}
