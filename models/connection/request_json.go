package connection

type ReqCreateGame struct {
	Mode      string    `json:"mode"`
	BoardSize int       `json:"board_size"`
	Names     [2]string `json:"names"`

	// Hits pass the turn like a miss would
	AlwaysSwapTurn bool `json:"always_swap_turn"`
}

type ReqPlaceShip struct {
	PlayerUuid string `json:"player_uuid"`
	ShipName   string `json:"ship_name"`
	Origin     int    `json:"origin"`
	Horizontal bool   `json:"horizontal"`
}

type ReqRemoveShip struct {
	PlayerUuid string `json:"player_uuid"`
	ShipName   string `json:"ship_name"`
}

type ReqRandomFleet struct {
	PlayerUuid string `json:"player_uuid"`
}

type ReqAttack struct {
	PlayerUuid string `json:"player_uuid"`
	Index      int    `json:"index"`
}
