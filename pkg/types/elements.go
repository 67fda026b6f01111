package types

// Element cost symbols.
const (
	ElementFire    = "fire"
	ElementEarth   = "earth"
	ElementThunder = "thunder"
	ElementWater   = "water"
	ElementWind    = "wind"
	ElementFrost   = "frost"
	ElementLunar   = "lunar"
	ElementSolar   = "solar"
	ElementOmni    = "omni"
)

// Elements lists the element symbols in column order.
var Elements = []string{
	ElementFire,
	ElementEarth,
	ElementThunder,
	ElementWater,
	ElementWind,
	ElementFrost,
	ElementLunar,
	ElementSolar,
	ElementOmni,
}

// ElementCosts holds one count per element. Field tags match the cards table
// columns so the struct flattens into the card JSON.
type ElementCosts struct {
	Fire    int `json:"fire_cost"`
	Earth   int `json:"earth_cost"`
	Thunder int `json:"thunder_cost"`
	Water   int `json:"water_cost"`
	Wind    int `json:"wind_cost"`
	Frost   int `json:"frost_cost"`
	Lunar   int `json:"lunar_cost"`
	Solar   int `json:"solar_cost"`
	Omni    int `json:"omni_cost"`
}

// ElementCost counts the entries of costs equal to element.
func ElementCost(costs []string, element string) int {
	n := 0
	for _, c := range costs {
		if c == element {
			n++
		}
	}
	return n
}

// CostCounts returns the per-element counts for costs. Symbols that are not
// in Elements are ignored.
func CostCounts(costs []string) ElementCosts {
	return ElementCosts{
		Fire:    ElementCost(costs, ElementFire),
		Earth:   ElementCost(costs, ElementEarth),
		Thunder: ElementCost(costs, ElementThunder),
		Water:   ElementCost(costs, ElementWater),
		Wind:    ElementCost(costs, ElementWind),
		Frost:   ElementCost(costs, ElementFrost),
		Lunar:   ElementCost(costs, ElementLunar),
		Solar:   ElementCost(costs, ElementSolar),
		Omni:    ElementCost(costs, ElementOmni),
	}
}

// Total returns the sum of all element counts.
func (e ElementCosts) Total() int {
	return e.Fire + e.Earth + e.Thunder + e.Water + e.Wind + e.Frost + e.Lunar + e.Solar + e.Omni
}
