package battleship

import (
	"errors"
	"math/rand"
	"testing"

	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

type placement struct {
	name       string
	origin     int
	horizontal bool
}

// Carrier on row 0, every other ship on its own row below.
var stackedLayout = []placement{
	{name: "Carrier", origin: 0, horizontal: true},
	{name: "Battleship", origin: 10, horizontal: true},
	{name: "Cruiser", origin: 20, horizontal: true},
	{name: "Submarine", origin: 30, horizontal: true},
	{name: "Destroyer", origin: 40, horizontal: true},
}

func placeLayout(t *testing.T, fleet *Fleet, layout []placement) {
	t.Helper()
	for _, p := range layout {
		if _, err := fleet.Place(p.name, p.origin, p.horizontal); err != nil {
			t.Fatalf("failed to place %s: %v", p.name, err)
		}
	}
}

func TestTryPlace(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	fleet := NewFleet(board, CanonicalTemplates())
	placeLayout(t, fleet, stackedLayout[:1])

	tests := []struct {
		name        string
		template    ShipTemplate
		origin      int
		horizontal  bool
		expectedErr error
	}{
		{name: "free row", template: TemplateBattleship, origin: 50, horizontal: true},
		{name: "vertical through free column", template: TemplateCruiser, origin: 19, horizontal: false},
		{name: "crosses carrier", template: TemplateCruiser, origin: 2, horizontal: false, expectedErr: cerr.ErrOverlap},
		{name: "touches carrier tail", template: TemplateDestroyer, origin: 4, horizontal: true, expectedErr: cerr.ErrOverlap},
		{name: "wraps row", template: TemplateBattleship, origin: 57, horizontal: true, expectedErr: cerr.ErrOutOfBounds},
		{name: "falls off bottom", template: TemplateSubmarine, origin: 85, horizontal: false, expectedErr: cerr.ErrOutOfBounds},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ship, err := fleet.TryPlace(test.template, test.origin, test.horizontal)
			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected error: %v\tgot: %v", test.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ship.HitCount != 0 || len(ship.Cells) != test.template.Length {
				t.Fatalf("unexpected ship: %+v", ship)
			}
		})
	}

	if len(fleet.Ships()) != 1 {
		t.Fatalf("TryPlace must not add ships\tgot: %d ships", len(fleet.Ships()))
	}
}

func TestPlaceAndReady(t *testing.T) {
	fleet := NewFleet(NewBoard(DefaultBoardSize), CanonicalTemplates())
	placeLayout(t, fleet, stackedLayout[:4])

	if fleet.IsReady() {
		t.Fatal("fleet with four ships must not be ready")
	}

	if _, err := fleet.Place("Cruiser", 60, true); !errors.Is(err, cerr.ErrAlreadyPlaced) {
		t.Fatalf("expected already placed\tgot: %v", err)
	}
	if _, err := fleet.Place("Frigate", 60, true); !errors.Is(err, cerr.ErrUnknownShip) {
		t.Fatalf("expected unknown ship\tgot: %v", err)
	}

	placeLayout(t, fleet, stackedLayout[4:])
	if !fleet.IsReady() {
		t.Fatal("fleet with every template placed must be ready")
	}

	if !fleet.Remove("Destroyer") {
		t.Fatal("expected destroyer to be removed")
	}
	if fleet.IsReady() {
		t.Fatal("fleet must not be ready after removing a ship")
	}
	if fleet.ShipAt(40) != nil {
		t.Fatal("removed ship still occupies its cells")
	}
}

func TestPreviewDoesNotMutate(t *testing.T) {
	fleet := NewFleet(NewBoard(DefaultBoardSize), CanonicalTemplates())
	placeLayout(t, fleet, stackedLayout[:1])

	valid := fleet.Preview(TemplateDestroyer, 77, false)
	if !valid.Valid || len(valid.Cells) != 2 || valid.Cells[1] != 87 {
		t.Fatalf("unexpected preview: %+v", valid)
	}

	overlap := fleet.Preview(TemplateDestroyer, 3, true)
	if overlap.Valid || overlap.Reason == "" || len(overlap.Cells) != 2 {
		t.Fatalf("expected an invalid preview with cells\tgot: %+v", overlap)
	}

	outside := fleet.Preview(TemplateCarrier, 96, true)
	if outside.Valid || outside.Cells != nil {
		t.Fatalf("expected an invalid preview without cells\tgot: %+v", outside)
	}

	if len(fleet.Ships()) != 1 {
		t.Fatalf("preview added ships\tgot: %d ships", len(fleet.Ships()))
	}
}

func TestGenerateRandomFleet(t *testing.T) {
	templates := CanonicalTemplates()

	for size := 5; size <= 12; size++ {
		for seed := int64(1); seed <= 25; seed++ {
			board := NewBoard(size)
			fleet := GenerateRandomFleet(board, templates, rand.New(rand.NewSource(seed)))

			if !fleet.IsReady() {
				t.Fatalf("size %d seed %d: fleet is not ready", size, seed)
			}

			occupied := make(map[int]string)
			for _, sh := range fleet.Ships() {
				if len(sh.Cells) != sh.Template.Length {
					t.Fatalf("size %d seed %d: %s has %d cells", size, seed, sh.Template.Name, len(sh.Cells))
				}
				for _, c := range sh.Cells {
					if !board.Contains(c) {
						t.Fatalf("size %d seed %d: cell %d off board", size, seed, c)
					}
					if other, prs := occupied[c]; prs {
						t.Fatalf("size %d seed %d: %s overlaps %s at %d", size, seed, sh.Template.Name, other, c)
					}
					occupied[c] = sh.Template.Name
				}
			}
		}
	}
}

func TestGenerateRandomFleetDeterministic(t *testing.T) {
	board := NewBoard(DefaultBoardSize)
	first := GenerateRandomFleet(board, CanonicalTemplates(), rand.New(rand.NewSource(42)))
	second := GenerateRandomFleet(board, CanonicalTemplates(), rand.New(rand.NewSource(42)))

	for i, sh := range first.Ships() {
		other := second.Ships()[i]
		if sh.Template != other.Template || sh.Cells[0] != other.Cells[0] || sh.Cells[len(sh.Cells)-1] != other.Cells[len(other.Cells)-1] {
			t.Fatalf("same seed produced different fleets: %+v vs %+v", sh, other)
		}
	}
}

func TestRandomizeKeepsPlacedShips(t *testing.T) {
	fleet := NewFleet(NewBoard(DefaultBoardSize), CanonicalTemplates())
	placeLayout(t, fleet, stackedLayout[:2])

	fleet.Randomize(rand.New(rand.NewSource(7)))

	if !fleet.IsReady() {
		t.Fatal("fleet is not ready after randomize")
	}
	if carrier := fleet.Ship("Carrier"); carrier == nil || carrier.Cells[0] != 0 {
		t.Fatalf("carrier moved during randomize: %+v", carrier)
	}
}
