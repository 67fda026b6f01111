package types

// Card types as printed on the card frame. "rune_staduim" matches the
// spelling used by the card data.
const (
	CardTypeElestral     = "elestral"
	CardTypeSpirit       = "spirit"
	CardTypeRuneDivine   = "rune_divine"
	CardTypeRuneStadium  = "rune_staduim"
	CardTypeRuneArtifact = "rune_artifact"
	CardTypeRuneCounter  = "rune_counter"
	CardTypeRuneInvoke   = "rune_invoke"
)

// CardTypes lists every recognized card type.
var CardTypes = []string{
	CardTypeElestral,
	CardTypeSpirit,
	CardTypeRuneDivine,
	CardTypeRuneStadium,
	CardTypeRuneArtifact,
	CardTypeRuneCounter,
	CardTypeRuneInvoke,
}

// Card rarities.
const (
	RarityRare        = "rare"
	RarityStellarRare = "stellar_rare"
	RarityCommon      = "common"
	RarityUncommon    = "uncommon"
)

// CardRarities lists every recognized rarity.
var CardRarities = []string{
	RarityRare,
	RarityStellarRare,
	RarityCommon,
	RarityUncommon,
}

var (
	knownCardTypes = toSet(CardTypes)
	knownRarities  = toSet(CardRarities)
)

// KnownCardType reports whether s is one of CardTypes.
func KnownCardType(s string) bool { return knownCardTypes[s] }

// KnownRarity reports whether s is one of CardRarities.
func KnownRarity(s string) bool { return knownRarities[s] }

// LookupKind names one of the lookup tables that deduplicate repeated
// descriptive strings into integer ids.
type LookupKind string

// Lookup tables.
const (
	LookupCanvas     LookupKind = "canvas"
	LookupFrames     LookupKind = "frames"
	LookupSubclasses LookupKind = "subclasses"
)

// LookupKinds lists the lookup tables in schema order.
var LookupKinds = []LookupKind{LookupCanvas, LookupFrames, LookupSubclasses}

// Valid reports whether k names a lookup table.
func (k LookupKind) Valid() bool {
	switch k {
	case LookupCanvas, LookupFrames, LookupSubclasses:
		return true
	}
	return false
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
