package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID
	CodeCreateGame
	CodePlaceShip
	CodePreviewShip
	CodeRemoveShip
	CodeRandomFleet
	CodeStartGame
	CodeAttack
	CodeEndGame
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Reset the finished game and deploy again
	CodeRematch

	// Ranked list and high score
	CodeTopScores
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
