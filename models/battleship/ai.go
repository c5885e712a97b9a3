package battleship

import (
	"math/rand"
	"slices"
)

type AIMode uint8

const (
	AIModeHunt AIMode = iota
	AIModeTarget
)

func (m AIMode) String() string {
	switch m {
	case AIModeHunt:
		return "hunt"
	case AIModeTarget:
		return "target"
	default:
		return "unknown"
	}
}

// AIMemory is everything the computer remembers between its shots.
// It is derived from the AI's own shots only, never from the defender fleet.
type AIMemory struct {
	Mode          AIMode `json:"mode"`
	PendingProbes []int  `json:"pending_probes"`
	HitChain      []int  `json:"hit_chain"`
}

func NewAIMemory() *AIMemory {
	return &AIMemory{
		Mode:          AIModeHunt,
		PendingProbes: make([]int, 0, 4),
		HitChain:      make([]int, 0, 5),
	}
}

func (m *AIMemory) Reset() {
	m.Mode = AIModeHunt
	m.PendingProbes = m.PendingProbes[:0]
	m.HitChain = m.HitChain[:0]
}

// Observe feeds the outcome of the AI's own attack back into memory.
// A sink wipes the memory; a hit that did not sink switches to target mode
// and queues the unexplored neighbors of the hit.
func (m *AIMemory) Observe(board Board, shotLog []Shot, result AttackResult, rng *rand.Rand) {
	if !result.WasHit {
		return
	}
	if result.SunkShip != nil {
		m.Reset()
		return
	}

	m.Mode = AIModeTarget
	m.HitChain = append(m.HitChain, result.Index)

	shot := shotSet(shotLog)
	neighbors := board.Neighbors(result.Index)
	if rng != nil {
		rng.Shuffle(len(neighbors), func(i, j int) { neighbors[i], neighbors[j] = neighbors[j], neighbors[i] })
	}
	for _, n := range neighbors {
		if shot[n] || slices.Contains(m.PendingProbes, n) {
			continue
		}
		m.PendingProbes = append(m.PendingProbes, n)
	}
}

// ComputeAiMove picks the next cell for the AI. It returns false only when
// every cell of the board has been fired upon.
func ComputeAiMove(memory *AIMemory, shotLog []Shot, board Board, rng *rand.Rand) (int, bool) {
	shot := shotSet(shotLog)
	isOpen := func(index int) bool {
		return board.Contains(index) && !shot[index]
	}

	// a nil memory only hunts
	if memory != nil && memory.Mode == AIModeTarget {
		if index, ok := memory.extendLine(board, isOpen); ok {
			return index, true
		}

		for len(memory.PendingProbes) > 0 {
			index := memory.PendingProbes[0]
			memory.PendingProbes = memory.PendingProbes[1:]
			if isOpen(index) {
				return index, true
			}
		}
	}

	return hunt(board, shot, rng)
}

// extendLine tries both ends of the hit chain once the hits line up.
func (m *AIMemory) extendLine(board Board, isOpen func(int) bool) (int, bool) {
	if len(m.HitChain) < 2 {
		return -1, false
	}

	horizontal, ok := lineOrientation(board, m.HitChain)
	if !ok {
		return -1, false
	}

	first, last := slices.Min(m.HitChain), slices.Max(m.HitChain)
	var candidates []int
	if horizontal {
		if board.Col(first) > 0 {
			candidates = append(candidates, first-1)
		}
		if board.Col(last) < board.Size-1 {
			candidates = append(candidates, last+1)
		}
	} else {
		candidates = append(candidates, first-board.Size, last+board.Size)
	}

	for _, c := range candidates {
		if isOpen(c) {
			return c, true
		}
	}
	return -1, false
}

// lineOrientation reports whether every chain hit shares a row (horizontal)
// or a column (vertical). Hits spread over both axes form no line.
func lineOrientation(board Board, chain []int) (horizontal bool, ok bool) {
	sameRow, sameCol := true, true
	for _, c := range chain[1:] {
		if board.Row(c) != board.Row(chain[0]) {
			sameRow = false
		}
		if board.Col(c) != board.Col(chain[0]) {
			sameCol = false
		}
	}

	switch {
	case sameRow:
		return true, true
	case sameCol:
		return false, true
	default:
		return false, false
	}
}

func hunt(board Board, shot map[int]bool, rng *rand.Rand) (int, bool) {
	open := make([]int, 0, max(board.Cells()-len(shot), 0))
	for i := 0; i < board.Cells(); i++ {
		if !shot[i] {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return -1, false
	}
	return open[rng.Intn(len(open))], true
}

func shotSet(shotLog []Shot) map[int]bool {
	shot := make(map[int]bool, len(shotLog))
	for _, s := range shotLog {
		shot[s.Index] = true
	}
	return shot
}
