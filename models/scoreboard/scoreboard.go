package scoreboard

import (
	"context"
	"sort"
	"sync"
)

const MaxEntries = 10

type Entry struct {
	Name  string `json:"name"`
	Moves int    `json:"moves"`
	Score int    `json:"score"`
	Time  int    `json:"time"`
}

// Snapshot is the whole persisted state: the ranked list and the best score ever.
type Snapshot struct {
	Scores    []Entry `json:"scores"`
	HighScore int     `json:"high_score"`
}

type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

type Scoreboard struct {
	store Store
	mu    sync.Mutex
}

func New(store Store) *Scoreboard {
	return &Scoreboard{store: store}
}

// Rank orders entries by fewer moves first, then by less time,
// and keeps the top MaxEntries.
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Moves != ranked[j].Moves {
			return ranked[i].Moves < ranked[j].Moves
		}
		return ranked[i].Time < ranked[j].Time
	})

	if len(ranked) > MaxEntries {
		ranked = ranked[:MaxEntries]
	}
	return ranked
}

// RecordResult merges one finished game into the persisted list
// and returns the new ranking.
func (sb *Scoreboard) RecordResult(ctx context.Context, entry Entry) ([]Entry, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	snapshot, err := sb.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	snapshot.Scores = Rank(append(snapshot.Scores, entry))
	if entry.Score > snapshot.HighScore {
		snapshot.HighScore = entry.Score
	}

	if err := sb.store.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot.Scores, nil
}

func (sb *Scoreboard) ListTopScores(ctx context.Context) ([]Entry, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	snapshot, err := sb.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(snapshot.Scores), nil
}

func (sb *Scoreboard) HighScore(ctx context.Context) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	snapshot, err := sb.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return snapshot.HighScore, nil
}
