package battleship

import (
	"sync"

	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

type GameManager interface {
	CreateGame(cfg GameConfig) (*Game, error)
	FetchGame(gameUuid string) (*Game, error)
	TerminateGame(gameUuid string)
	CountGames() int
}

type BattleshipGameManager struct {
	games map[string]*Game
	mu    sync.RWMutex
}

var _ GameManager = (*BattleshipGameManager)(nil)

func NewBattleshipGameManager() *BattleshipGameManager {
	return &BattleshipGameManager{
		games: make(map[string]*Game, 10),
	}
}

func (bgm *BattleshipGameManager) CreateGame(cfg GameConfig) (*Game, error) {
	game, err := NewGame(cfg)
	if err != nil {
		return nil, err
	}

	bgm.register(game)
	return game, nil
}

// register stores the game under a uuid no other live game holds.
func (bgm *BattleshipGameManager) register(game *Game) {
	bgm.mu.Lock()
	defer bgm.mu.Unlock()

	for {
		if _, prs := bgm.games[game.uuid]; !prs {
			break
		}
		game.uuid = newGameUuid()
	}
	bgm.games[game.uuid] = game
}

func (bgm *BattleshipGameManager) FetchGame(gameUuid string) (*Game, error) {
	bgm.mu.RLock()
	game, prs := bgm.games[gameUuid]
	bgm.mu.RUnlock()
	if !prs {
		return nil, cerr.ErrGameNotExists(gameUuid)
	}

	return game, nil
}

func (bgm *BattleshipGameManager) TerminateGame(gameUuid string) {
	bgm.mu.Lock()
	delete(bgm.games, gameUuid)
	bgm.mu.Unlock()
}

func (bgm *BattleshipGameManager) CountGames() int {
	bgm.mu.RLock()
	defer bgm.mu.RUnlock()
	return len(bgm.games)
}
