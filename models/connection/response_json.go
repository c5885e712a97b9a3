package connection

import (
	mb "github.com/saeidalz13/battleship-elite/models/battleship"
	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

type RespPlayer struct {
	PlayerUuid string `json:"player_uuid"`
	Name       string `json:"name"`
	IsAI       bool   `json:"is_ai"`
}

type RespCreateGame struct {
	GameUuid  string            `json:"game_uuid"`
	BoardSize int               `json:"board_size"`
	Templates []mb.ShipTemplate `json:"templates"`
	Players   [2]RespPlayer     `json:"players"`
}

type RespPlaceShip struct {
	Ship    *mb.Ship `json:"ship"`
	IsReady bool     `json:"is_ready"`
}

type RespFleet struct {
	Ships   []*mb.Ship `json:"ships"`
	IsReady bool       `json:"is_ready"`
}

type RespStartGame struct {
	ActivePlayerUuid string `json:"active_player_uuid"`
}

// RespAttack carries the attack of the sender followed by
// every attack the computer made in reply.
type RespAttack struct {
	Attack           mb.AttackResult   `json:"attack"`
	AIAttacks        []mb.AttackResult `json:"ai_attacks,omitempty"`
	ActivePlayerUuid string            `json:"active_player_uuid"`
	Score            int               `json:"score"`
	MoveCount        int               `json:"move_count"`
}

type RespEndGame struct {
	WinnerUuid string `json:"winner_uuid"`
	WinnerName string `json:"winner_name"`
	Reason     string `json:"reason"`
	Score      int    `json:"score"`
	Moves      int    `json:"moves"`
	Time       int    `json:"time"`
}

type RespTopScores struct {
	Scores    []scoreboard.Entry `json:"scores"`
	HighScore int                `json:"high_score"`
}

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
