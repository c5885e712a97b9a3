package battleship

import (
	"slices"

	"github.com/google/uuid"
)

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type Shot struct {
	Index  int  `json:"index"`
	WasHit bool `json:"was_hit"`
}

// Player is one combatant of a game. Only the AI player carries memory.
type Player struct {
	uuid        string
	name        string
	isAI        bool
	matchStatus int
	moveCount   int
	score       int
	fleet       *Fleet
	shotLog     []Shot
	memory      *AIMemory
}

func NewPlayer(name string, isAI bool, board Board, templates []ShipTemplate) *Player {
	p := &Player{
		uuid:        uuid.NewString()[:10],
		name:        name,
		isAI:        isAI,
		matchStatus: PlayerMatchStatusUndefined,
		fleet:       NewFleet(board, templates),
		shotLog:     make([]Shot, 0, board.Cells()),
	}
	if isAI {
		p.memory = NewAIMemory()
	}
	return p
}

func (p *Player) Uuid() string {
	return p.uuid
}

func (p *Player) Name() string {
	return p.name
}

func (p *Player) IsAI() bool {
	return p.isAI
}

func (p *Player) Fleet() *Fleet {
	return p.fleet
}

func (p *Player) MoveCount() int {
	return p.moveCount
}

func (p *Player) Score() int {
	return p.score
}

func (p *Player) MatchStatus() int {
	return p.matchStatus
}

// ShotLog returns a copy so callers cannot rewrite history.
func (p *Player) ShotLog() []Shot {
	return slices.Clone(p.shotLog)
}

func (p *Player) Memory() *AIMemory {
	return p.memory
}

func (p *Player) HasShotAt(index int) bool {
	return slices.ContainsFunc(p.shotLog, func(s Shot) bool { return s.Index == index })
}

func (p *Player) recordShot(index int, wasHit bool) {
	p.moveCount++
	p.shotLog = append(p.shotLog, Shot{Index: index, WasHit: wasHit})
}

func (p *Player) addScore(points int) {
	p.score += points
}

func (p *Player) setMatchStatus(status int) {
	p.matchStatus = status
}

func (p *Player) reset() {
	p.matchStatus = PlayerMatchStatusUndefined
	p.moveCount = 0
	p.score = 0
	p.shotLog = p.shotLog[:0]
	p.fleet.Reset()
	if p.memory != nil {
		p.memory.Reset()
	}
}
