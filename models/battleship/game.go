package battleship

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

type GamePhase uint8

const (
	GamePhaseDeploying GamePhase = iota
	GamePhaseBattling
	GamePhaseConcluded
)

func (p GamePhase) String() string {
	switch p {
	case GamePhaseDeploying:
		return "deploying"
	case GamePhaseBattling:
		return "battling"
	case GamePhaseConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

const (
	GameModeComputer = "computer"
	GameModePlayer   = "player"
)

// TurnRule decides what happens to the turn after a hit that does not end the game.
type TurnRule uint8

const (
	TurnRuleBonusOnHit TurnRule = iota
	TurnRuleAlwaysSwap
)

const (
	ScoreHit  int = 50
	ScoreSink int = 200
	ScoreWin  int = 1000
)

const (
	WinReasonFlagshipSunk   = "flagship_sunk"
	WinReasonFleetDestroyed = "fleet_destroyed"
)

type AttackResult struct {
	AttackerUuid string        `json:"attacker_uuid"`
	Index        int           `json:"index"`
	WasHit       bool          `json:"was_hit"`
	SunkShip     *ShipTemplate `json:"sunk_ship,omitempty"`
	SunkCells    []int         `json:"sunk_cells,omitempty"`
	Points       int           `json:"points"`
	TurnRetained bool          `json:"turn_retained"`
	IsConcluded  bool          `json:"is_concluded"`
	WinnerUuid   string        `json:"winner_uuid,omitempty"`
	WinReason    string        `json:"win_reason,omitempty"`
}

type GameConfig struct {
	Mode      string
	BoardSize int
	Templates []ShipTemplate
	Names     [2]string
	TurnRule  TurnRule
	Rand      *rand.Rand

	// DisableFlagshipWin plays classic rules: only destroying
	// the whole fleet ends the game.
	DisableFlagshipWin bool
}

// Game is one match between two players. Every mutating method takes mu,
// so an attack is resolved as a single step.
type Game struct {
	uuid        string
	mode        string
	board       Board
	templates   []ShipTemplate
	flagship    ShipTemplate
	hasFlagship bool
	turnRule    TurnRule
	phase       GamePhase
	players     [2]*Player
	activeTurn  int
	winner      *Player
	winReason   string
	held        bool
	startedAt   time.Time
	concludedAt time.Time
	rng         *rand.Rand
	mu          sync.Mutex
}

func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.Mode == "" {
		cfg.Mode = GameModeComputer
	}
	if cfg.Mode != GameModeComputer && cfg.Mode != GameModePlayer {
		return nil, cerr.ErrInvalidGameMode(cfg.Mode)
	}
	if len(cfg.Templates) == 0 {
		cfg.Templates = CanonicalTemplates()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	board := NewBoard(cfg.BoardSize)
	flagship, hasFlagship := Flagship(cfg.Templates)
	if flagship.Length > board.Size {
		return nil, cerr.ErrInvalidBoardSize(board.Size, flagship.Length)
	}
	if board.Size > MaxBoardSize {
		return nil, cerr.ErrBoardTooLarge(board.Size, MaxBoardSize)
	}

	names := cfg.Names
	if names[0] == "" {
		names[0] = "Commander"
	}
	if names[1] == "" {
		names[1] = "Enemy"
		if cfg.Mode == GameModeComputer {
			names[1] = "AI Tactical"
		}
	}

	game := &Game{
		uuid:        newGameUuid(),
		mode:        cfg.Mode,
		board:       board,
		templates:   cfg.Templates,
		flagship:    flagship,
		hasFlagship: hasFlagship && !cfg.DisableFlagshipWin,
		turnRule:    cfg.TurnRule,
		phase:       GamePhaseDeploying,
		rng:         cfg.Rand,
	}
	game.players[0] = NewPlayer(names[0], false, board, cfg.Templates)
	game.players[1] = NewPlayer(names[1], cfg.Mode == GameModeComputer, board, cfg.Templates)

	return game, nil
}

// CreateMatch builds a two-player game with the default rules.
func CreateMatch(boardSize int, templates []ShipTemplate) (*Game, error) {
	return NewGame(GameConfig{Mode: GameModePlayer, BoardSize: boardSize, Templates: templates})
}

// Short ids are easy to read out loud; the game manager
// redraws one on a collision.
func newGameUuid() string {
	return uuid.NewString()[:6]
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) Mode() string {
	return g.mode
}

func (g *Game) Board() Board {
	return g.board
}

func (g *Game) Templates() []ShipTemplate {
	return g.templates
}

func (g *Game) Flagship() ShipTemplate {
	return g.flagship
}

func (g *Game) Phase() GamePhase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// returns a slice of players in the order of first then second.
func (g *Game) Players() []*Player {
	return []*Player{g.players[0], g.players[1]}
}

func (g *Game) FetchPlayer(playerUuid string) (*Player, error) {
	for _, p := range g.players {
		if p.Uuid() == playerUuid {
			return p, nil
		}
	}
	return nil, cerr.ErrPlayerNotExist(playerUuid)
}

func (g *Game) OtherPlayer(p *Player) *Player {
	if p == g.players[0] {
		return g.players[1]
	}
	if p == g.players[1] {
		return g.players[0]
	}
	return nil
}

func (g *Game) AIPlayer() *Player {
	for _, p := range g.players {
		if p.IsAI() {
			return p
		}
	}
	return nil
}

func (g *Game) ActivePlayer() *Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[g.activeTurn]
}

func (g *Game) Winner() (*Player, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winner, g.winReason
}

// ElapsedSeconds counts from the start of the battle to its end,
// or to now while it is still running.
func (g *Game) ElapsedSeconds() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.startedAt.IsZero() {
		return 0
	}
	end := g.concludedAt
	if end.IsZero() {
		end = time.Now()
	}
	return int(end.Sub(g.startedAt).Seconds())
}

func (g *Game) PlaceShip(playerUuid, shipName string, origin int, horizontal bool) (*Ship, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.deployingPlayer(playerUuid)
	if err != nil {
		return nil, err
	}
	return player.fleet.Place(shipName, origin, horizontal)
}

func (g *Game) PreviewShip(playerUuid, shipName string, origin int, horizontal bool) (PlacementPreview, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.FetchPlayer(playerUuid)
	if err != nil {
		return PlacementPreview{}, err
	}
	template, err := player.fleet.Template(shipName)
	if err != nil {
		return PlacementPreview{}, err
	}
	return player.fleet.Preview(template, origin, horizontal), nil
}

func (g *Game) RemoveShip(playerUuid, shipName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.deployingPlayer(playerUuid)
	if err != nil {
		return err
	}
	if !player.fleet.Remove(shipName) {
		return cerr.ErrInvalidShipName(shipName)
	}
	return nil
}

// RandomizeFleet throws away the player's current placements
// and deploys a fresh random fleet.
func (g *Game) RandomizeFleet(playerUuid string) ([]*Ship, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := g.deployingPlayer(playerUuid)
	if err != nil {
		return nil, err
	}
	player.fleet.Reset()
	player.fleet.Randomize(g.rng)
	return player.fleet.Ships(), nil
}

func (g *Game) deployingPlayer(playerUuid string) (*Player, error) {
	if g.phase != GamePhaseDeploying {
		return nil, cerr.ErrGameNotDeploying(g.uuid)
	}
	return g.FetchPlayer(playerUuid)
}

func (g *Game) BeginBattle() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != GamePhaseDeploying {
		return cerr.ErrGameNotDeploying(g.uuid)
	}
	for _, p := range g.players {
		if !p.fleet.IsReady() {
			return cerr.ErrFleetNotReady(p.Uuid())
		}
	}

	g.phase = GamePhaseBattling
	g.activeTurn = 0
	g.startedAt = time.Now()
	return nil
}

// Hold keeps attacks from resolving while the caller paces its presentation
// of the previous one. Release makes the game resolvable again.
func (g *Game) Hold() {
	g.mu.Lock()
	g.held = true
	g.mu.Unlock()
}

func (g *Game) Release() {
	g.mu.Lock()
	g.held = false
	g.mu.Unlock()
}

// IsResolvable reports whether an attack submitted now would be processed.
func (g *Game) IsResolvable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == GamePhaseBattling && !g.held
}

func (g *Game) FireAt(attackerUuid string, index int) (AttackResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fireAt(attackerUuid, index)
}

func (g *Game) fireAt(attackerUuid string, index int) (AttackResult, error) {
	switch g.phase {
	case GamePhaseConcluded:
		return AttackResult{}, cerr.ErrGameConcluded(g.uuid)
	case GamePhaseDeploying:
		return AttackResult{}, cerr.ErrGameNotBattling(g.uuid)
	}
	if g.held {
		return AttackResult{}, cerr.ErrAttackLocked(g.uuid)
	}

	attacker, err := g.FetchPlayer(attackerUuid)
	if err != nil {
		return AttackResult{}, err
	}
	if attacker != g.players[g.activeTurn] {
		return AttackResult{}, cerr.ErrNotPlayerTurn(attackerUuid)
	}
	if !g.board.Contains(index) {
		return AttackResult{}, cerr.ErrIndexOutOfBound(index)
	}
	if attacker.HasShotAt(index) {
		return AttackResult{}, cerr.ErrAttackPositionAlreadyFilled(index)
	}

	defender := g.OtherPlayer(attacker)
	hitShip := defender.fleet.ShipAt(index)
	attacker.recordShot(index, hitShip != nil)

	result := AttackResult{
		AttackerUuid: attacker.Uuid(),
		Index:        index,
		WasHit:       hitShip != nil,
	}

	if hitShip != nil {
		hitShip.GotHit()
		result.Points += ScoreHit

		if hitShip.IsSunk() {
			sunk := hitShip.Template
			result.SunkShip = &sunk
			result.SunkCells = append([]int(nil), hitShip.Cells...)
			result.Points += ScoreSink

			// sinking the flagship ends the game on the spot
			if g.hasFlagship && sunk == g.flagship {
				result.Points += ScoreWin
				g.conclude(attacker, WinReasonFlagshipSunk)
			}
		}

		if g.phase != GamePhaseConcluded && defender.fleet.IsDestroyed() {
			g.conclude(attacker, WinReasonFleetDestroyed)
		}
	}
	attacker.addScore(result.Points)

	if g.phase == GamePhaseConcluded {
		result.IsConcluded = true
		result.WinnerUuid = g.winner.Uuid()
		result.WinReason = g.winReason
	} else if result.WasHit && g.turnRule == TurnRuleBonusOnHit {
		result.TurnRetained = true
	} else {
		g.activeTurn = 1 - g.activeTurn
	}

	if attacker.memory != nil {
		attacker.memory.Observe(g.board, attacker.shotLog, result, g.rng)
	}
	return result, nil
}

func (g *Game) conclude(winner *Player, reason string) {
	g.phase = GamePhaseConcluded
	g.winner = winner
	g.winReason = reason
	g.concludedAt = time.Now()

	winner.setMatchStatus(PlayerMatchStatusWon)
	g.OtherPlayer(winner).setMatchStatus(PlayerMatchStatusLost)
}

// PlayAITurn fires for the computer until it loses the turn or the game ends.
// It returns every attack it made, in order.
func (g *Game) PlayAITurn() ([]AttackResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	results := make([]AttackResult, 0, 1)
	for g.phase == GamePhaseBattling {
		ai := g.players[g.activeTurn]
		if !ai.IsAI() {
			break
		}

		index, ok := ComputeAiMove(ai.memory, ai.shotLog, g.board, g.rng)
		if !ok {
			break
		}

		result, err := g.fireAt(ai.Uuid(), index)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Reset prepares the same two players for a rematch.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, p := range g.players {
		p.reset()
	}
	g.phase = GamePhaseDeploying
	g.activeTurn = 0
	g.winner = nil
	g.winReason = ""
	g.held = false
	g.startedAt = time.Time{}
	g.concludedAt = time.Time{}
}
