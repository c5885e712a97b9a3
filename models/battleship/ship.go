package battleship

import "slices"

type ShipTemplate struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// Canonical fleet composition. The carrier is the flagship.
var (
	TemplateCarrier    = ShipTemplate{Name: "Carrier", Length: 5}
	TemplateBattleship = ShipTemplate{Name: "Battleship", Length: 4}
	TemplateCruiser    = ShipTemplate{Name: "Cruiser", Length: 3}
	TemplateSubmarine  = ShipTemplate{Name: "Submarine", Length: 3}
	TemplateDestroyer  = ShipTemplate{Name: "Destroyer", Length: 2}
)

func CanonicalTemplates() []ShipTemplate {
	return []ShipTemplate{
		TemplateCarrier,
		TemplateBattleship,
		TemplateCruiser,
		TemplateSubmarine,
		TemplateDestroyer,
	}
}

// Flagship returns the longest template; the first one wins a tie.
func Flagship(templates []ShipTemplate) (ShipTemplate, bool) {
	if len(templates) == 0 {
		return ShipTemplate{}, false
	}

	flagship := templates[0]
	for _, t := range templates[1:] {
		if t.Length > flagship.Length {
			flagship = t
		}
	}
	return flagship, true
}

type Ship struct {
	Template ShipTemplate `json:"template"`
	Cells    []int        `json:"cells"`
	HitCount int          `json:"hit_count"`
}

func newShip(template ShipTemplate, cells []int) *Ship {
	return &Ship{
		Template: template,
		Cells:    cells,
		HitCount: 0,
	}
}

func (sh *Ship) Occupies(index int) bool {
	return slices.Contains(sh.Cells, index)
}

func (sh *Ship) GotHit() {
	if sh.HitCount < sh.Template.Length {
		sh.HitCount++
	}
}

func (sh *Ship) IsSunk() bool {
	return sh.HitCount == sh.Template.Length
}
