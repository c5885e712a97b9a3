package error

import (
	"errors"
	"fmt"
)

// Every rejected placement or attack wraps one of these,
// so callers can branch with errors.Is.
var (
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrOverlap          = errors.New("overlap")
	ErrAlreadyShot      = errors.New("already shot")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrMatchConcluded   = errors.New("match concluded")
	ErrNotReady         = errors.New("not ready")
	ErrNotBattling      = errors.New("not battling")
	ErrNotDeploying     = errors.New("not deploying")
	ErrAttackInProgress = errors.New("attack in progress")
	ErrAlreadyPlaced    = errors.New("already placed")
	ErrUnknownShip      = errors.New("unknown ship")
	ErrNotFound         = errors.New("not found")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("%w: game with this uuid does not exist, uuid: %s", ErrNotFound, gameUuid)
}

func ErrPlayerNotExist(playerUuid string) error {
	return fmt.Errorf("%w: player with this uuid does not exist, uuid: %s", ErrNotFound, playerUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("%w: session with this id does not exist, id: %s", ErrNotFound, sessionId)
}

func ErrLineOutOfBound(origin, length int, horizontal bool) error {
	return fmt.Errorf("%w: line does not fit the board\torigin: %d\tlength: %d\thorizontal: %t", ErrOutOfBounds, origin, length, horizontal)
}

func ErrIndexOutOfBound(index int) error {
	return fmt.Errorf("%w: incoming index is out of board bound\tindex: %d", ErrOutOfBounds, index)
}

func ErrShipOverlap(shipName string, index int) error {
	return fmt.Errorf("%w: ship %s collides with another ship at index %d", ErrOverlap, shipName, index)
}

func ErrShipAlreadyPlaced(shipName string) error {
	return fmt.Errorf("%w: ship %s is already in the fleet", ErrAlreadyPlaced, shipName)
}

func ErrInvalidShipName(shipName string) error {
	return fmt.Errorf("%w: no template with name %s", ErrUnknownShip, shipName)
}

func ErrAttackPositionAlreadyFilled(index int) error {
	return fmt.Errorf("%w: this position is already hit by the attacker in previous rounds\tindex: %d", ErrAlreadyShot, index)
}

func ErrNotPlayerTurn(playerUuid string) error {
	return fmt.Errorf("%w: player %s attempted to attack out of turn", ErrNotYourTurn, playerUuid)
}

func ErrGameConcluded(gameUuid string) error {
	return fmt.Errorf("%w: game %s already has a winner", ErrMatchConcluded, gameUuid)
}

func ErrGameNotBattling(gameUuid string) error {
	return fmt.Errorf("%w: game %s is still deploying", ErrNotBattling, gameUuid)
}

func ErrGameNotDeploying(gameUuid string) error {
	return fmt.Errorf("%w: fleets of game %s are locked once the battle begins", ErrNotDeploying, gameUuid)
}

func ErrFleetNotReady(playerUuid string) error {
	return fmt.Errorf("%w: fleet of player %s is incomplete", ErrNotReady, playerUuid)
}

func ErrAttackLocked(gameUuid string) error {
	return fmt.Errorf("%w: game %s is resolving another attack", ErrAttackInProgress, gameUuid)
}

func ErrInvalidBoardSize(size, longest int) error {
	return fmt.Errorf("%w: board size %d cannot fit a ship of length %d", ErrOutOfBounds, size, longest)
}

func ErrInvalidGameMode(mode string) error {
	return fmt.Errorf("invalid game mode: %s", mode)
}

func ErrPlayerIsComputer(playerUuid string) error {
	return fmt.Errorf("player %s is controlled by the computer", playerUuid)
}

func ErrNoGameInSession(sessionId string) error {
	return fmt.Errorf("%w: session %s has not created a game yet", ErrNotFound, sessionId)
}

func ErrBoardTooLarge(size, max int) error {
	return fmt.Errorf("%w: board size %d exceeds the maximum of %d", ErrOutOfBounds, size, max)
}
