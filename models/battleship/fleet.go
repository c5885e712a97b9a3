package battleship

import (
	"math/rand"

	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

const randomPlacementAttempts = 1000

// Fleet holds one combatant's ships while deploying and battling.
// Ships keep the order in which they were added.
type Fleet struct {
	board     Board
	templates []ShipTemplate
	ships     []*Ship
}

func NewFleet(board Board, templates []ShipTemplate) *Fleet {
	return &Fleet{
		board:     board,
		templates: templates,
		ships:     make([]*Ship, 0, len(templates)),
	}
}

// PlacementPreview reports what a placement would produce
// without touching the fleet.
type PlacementPreview struct {
	Cells  []int  `json:"cells"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (f *Fleet) Ships() []*Ship {
	return f.ships
}

func (f *Fleet) Templates() []ShipTemplate {
	return f.templates
}

func (f *Fleet) Template(name string) (ShipTemplate, error) {
	for _, t := range f.templates {
		if t.Name == name {
			return t, nil
		}
	}
	return ShipTemplate{}, cerr.ErrInvalidShipName(name)
}

func (f *Fleet) Ship(name string) *Ship {
	for _, sh := range f.ships {
		if sh.Template.Name == name {
			return sh
		}
	}
	return nil
}

// ShipAt returns the ship occupying index, or nil.
func (f *Fleet) ShipAt(index int) *Ship {
	for _, sh := range f.ships {
		if sh.Occupies(index) {
			return sh
		}
	}
	return nil
}

// TryPlace validates a placement against the ships already in the fleet
// and returns the new ship. The caller decides whether to Add it.
func (f *Fleet) TryPlace(template ShipTemplate, origin int, horizontal bool) (*Ship, error) {
	cells, err := f.board.ComputeLine(origin, template.Length, horizontal)
	if err != nil {
		return nil, err
	}

	for _, c := range cells {
		if f.ShipAt(c) != nil {
			return nil, cerr.ErrShipOverlap(template.Name, c)
		}
	}
	return newShip(template, cells), nil
}

func (f *Fleet) Preview(template ShipTemplate, origin int, horizontal bool) PlacementPreview {
	ship, err := f.TryPlace(template, origin, horizontal)
	if err != nil {
		// an overlapping line still reports its cells for highlighting
		cells, _ := f.board.ComputeLine(origin, template.Length, horizontal)
		return PlacementPreview{Cells: cells, Valid: false, Reason: err.Error()}
	}
	return PlacementPreview{Cells: ship.Cells, Valid: true}
}

func (f *Fleet) Add(ship *Ship) error {
	if f.Ship(ship.Template.Name) != nil {
		return cerr.ErrShipAlreadyPlaced(ship.Template.Name)
	}
	for _, c := range ship.Cells {
		if !f.board.Contains(c) {
			return cerr.ErrIndexOutOfBound(c)
		}
		if f.ShipAt(c) != nil {
			return cerr.ErrShipOverlap(ship.Template.Name, c)
		}
	}

	f.ships = append(f.ships, ship)
	return nil
}

// Place is TryPlace followed by Add for a template looked up by name.
func (f *Fleet) Place(shipName string, origin int, horizontal bool) (*Ship, error) {
	template, err := f.Template(shipName)
	if err != nil {
		return nil, err
	}
	if f.Ship(shipName) != nil {
		return nil, cerr.ErrShipAlreadyPlaced(shipName)
	}

	ship, err := f.TryPlace(template, origin, horizontal)
	if err != nil {
		return nil, err
	}
	if err := f.Add(ship); err != nil {
		return nil, err
	}
	return ship, nil
}

func (f *Fleet) Remove(shipName string) bool {
	for i, sh := range f.ships {
		if sh.Template.Name == shipName {
			f.ships = append(f.ships[:i], f.ships[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Fleet) Reset() {
	f.ships = make([]*Ship, 0, len(f.templates))
}

// IsReady is true when every template has exactly one ship.
func (f *Fleet) IsReady() bool {
	if len(f.ships) != len(f.templates) {
		return false
	}
	for _, t := range f.templates {
		if f.Ship(t.Name) == nil {
			return false
		}
	}
	return true
}

func (f *Fleet) IsDestroyed() bool {
	if len(f.ships) == 0 {
		return false
	}
	for _, sh := range f.ships {
		if !sh.IsSunk() {
			return false
		}
	}
	return true
}

func (f *Fleet) SunkenShips() int {
	var sunk int
	for _, sh := range f.ships {
		if sh.IsSunk() {
			sunk++
		}
	}
	return sunk
}

// GenerateRandomFleet samples origins and orientations until every template
// fits. The templates must have room on the board together,
// otherwise this never returns.
func GenerateRandomFleet(board Board, templates []ShipTemplate, rng *rand.Rand) *Fleet {
	fleet := NewFleet(board, templates)
	fleet.Randomize(rng)
	return fleet
}

// Randomize places every template that is not in the fleet yet.
// A layout that leaves no room for the remaining ships is thrown away
// and sampled again; ships placed before the call are kept.
func (f *Fleet) Randomize(rng *rand.Rand) {
	preset := len(f.ships)
	for !f.randomizeOnce(rng) {
		f.ships = f.ships[:preset]
	}
}

func (f *Fleet) randomizeOnce(rng *rand.Rand) bool {
	for _, t := range f.templates {
		if f.Ship(t.Name) != nil {
			continue
		}

		placed := false
		for attempt := 0; attempt < randomPlacementAttempts; attempt++ {
			origin := rng.Intn(f.board.Cells())
			horizontal := rng.Intn(2) == 0

			ship, err := f.TryPlace(t, origin, horizontal)
			if err != nil {
				continue
			}
			f.ships = append(f.ships, ship)
			placed = true
			break
		}
		if !placed {
			return false
		}
	}
	return true
}
