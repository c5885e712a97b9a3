package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsReport is what one game server has counted so far.
type AnalyticsReport struct {
	GamesCreated  int64
	RematchCalled int64
}

// AnalyticsManager keys every counter by the address of the server
// that hosted the game.
type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func toInet(serverIpNet net.IPNet) pqtype.Inet {
	return pqtype.Inet{IPNet: serverIpNet, Valid: serverIpNet.IP != nil}
}

func (a *AnalyticsManager) GameCreated(ctx context.Context, serverIpNet net.IPNet) error {
	return a.queries.IncrementGamesCreatedCount(ctx, toInet(serverIpNet))
}

func (a *AnalyticsManager) RematchCalled(ctx context.Context, serverIpNet net.IPNet) error {
	return a.queries.IncrementRematchCalledCount(ctx, toInet(serverIpNet))
}

func (a *AnalyticsManager) Report(ctx context.Context, serverIpNet net.IPNet) (AnalyticsReport, error) {
	inet := toInet(serverIpNet)

	gamesCreated, err := a.queries.GetGamesCreatedCount(ctx, inet)
	if err != nil {
		return AnalyticsReport{}, err
	}
	rematchCalled, err := a.queries.GetRematchCalledCount(ctx, inet)
	if err != nil {
		return AnalyticsReport{}, err
	}

	return AnalyticsReport{GamesCreated: gamesCreated, RematchCalled: rematchCalled}, nil
}
