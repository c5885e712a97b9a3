package battleship

import (
	"errors"
	"sync"
	"testing"

	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

func TestGameManager(t *testing.T) {
	bgm := NewBattleshipGameManager()

	game, err := bgm.CreateGame(GameConfig{Mode: GameModePlayer})
	if err != nil {
		t.Fatal(err)
	}

	fetched, err := bgm.FetchGame(game.Uuid())
	if err != nil {
		t.Fatal(err)
	}
	if fetched != game {
		t.Fatalf("expected game %s back\tgot: %s", game.Uuid(), fetched.Uuid())
	}

	if _, err := bgm.CreateGame(GameConfig{Mode: "online"}); err == nil {
		t.Fatal("expected an invalid mode to be rejected")
	}
	if bgm.CountGames() != 1 {
		t.Fatalf("expected 1 game\tgot: %d", bgm.CountGames())
	}

	bgm.TerminateGame(game.Uuid())
	if _, err := bgm.FetchGame(game.Uuid()); !errors.Is(err, cerr.ErrNotFound) {
		t.Fatalf("expected not found\tgot: %v", err)
	}
}

func TestGameManagerConcurrentCreate(t *testing.T) {
	bgm := NewBattleshipGameManager()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := bgm.CreateGame(GameConfig{}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if bgm.CountGames() != 20 {
		t.Fatalf("expected 20 games\tgot: %d", bgm.CountGames())
	}
}

func TestGameManagerRedrawsCollidingUuid(t *testing.T) {
	bgm := NewBattleshipGameManager()

	first, err := bgm.CreateGame(GameConfig{})
	if err != nil {
		t.Fatal(err)
	}

	second, err := NewGame(GameConfig{})
	if err != nil {
		t.Fatal(err)
	}
	second.uuid = first.Uuid()
	bgm.register(second)

	if second.Uuid() == first.Uuid() {
		t.Fatalf("expected a fresh uuid for the second game\tgot: %s", second.Uuid())
	}
	if bgm.CountGames() != 2 {
		t.Fatalf("expected 2 games\tgot: %d", bgm.CountGames())
	}

	for _, game := range []*Game{first, second} {
		fetched, err := bgm.FetchGame(game.Uuid())
		if err != nil {
			t.Fatal(err)
		}
		if fetched != game {
			t.Fatalf("expected game %s to be kept", game.Uuid())
		}
	}
}
