package sqlc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

// ScoreManager persists the scoreboard in postgres.
// Save rewrites the whole ranked list inside one transaction.
type ScoreManager struct {
	db      *sql.DB
	queries *Queries
}

var _ scoreboard.Store = (*ScoreManager)(nil)

func NewScoreManager(db *sql.DB) *ScoreManager {
	return &ScoreManager{db: db, queries: New(db)}
}

func (s *ScoreManager) Load(ctx context.Context) (scoreboard.Snapshot, error) {
	rows, err := s.queries.ListTopScores(ctx, scoreboard.MaxEntries)
	if err != nil {
		return scoreboard.Snapshot{}, err
	}

	highScore, err := s.queries.GetHighScore(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return scoreboard.Snapshot{}, err
	}

	snapshot := scoreboard.Snapshot{
		Scores:    make([]scoreboard.Entry, 0, len(rows)),
		HighScore: int(highScore),
	}
	for _, r := range rows {
		snapshot.Scores = append(snapshot.Scores, scoreboard.Entry{
			Name:  r.Name,
			Moves: int(r.Moves),
			Score: int(r.Score),
			Time:  int(r.Time),
		})
	}
	return snapshot, nil
}

func (s *ScoreManager) Save(ctx context.Context, snapshot scoreboard.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)
	if err := q.DeleteAllScores(ctx); err != nil {
		return err
	}
	for _, e := range snapshot.Scores {
		if err := q.InsertScore(ctx, InsertScoreParams{
			Name:  e.Name,
			Moves: int32(e.Moves),
			Score: int32(e.Score),
			Time:  int32(e.Time),
		}); err != nil {
			return err
		}
	}
	if err := q.UpsertHighScore(ctx, int32(snapshot.HighScore)); err != nil {
		return err
	}

	return tx.Commit()
}
