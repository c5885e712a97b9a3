package api

import (
	"context"
	"encoding/json"
	"log"

	cerr "github.com/saeidalz13/battleship-elite/internal/error"
	mb "github.com/saeidalz13/battleship-elite/models/battleship"
	mc "github.com/saeidalz13/battleship-elite/models/connection"
	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame])
	HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip]
	HandlePreviewShip(game *mb.Game) mc.Message[mb.PlacementPreview]
	HandleRemoveShip(game *mb.Game) mc.Message[mc.RespFleet]
	HandleRandomFleet(game *mb.Game) mc.Message[mc.RespFleet]
	HandleStartGame(game *mb.Game) mc.Message[mc.RespStartGame]
	HandleAttack(game *mb.Game) mc.Message[mc.RespAttack]
	HandleRematch(game *mb.Game) mc.Message[mc.RespCreateGame]
	HandleTopScores(ctx context.Context, sb *scoreboard.Scoreboard) mc.Message[mc.RespTopScores]
}

// Every incoming frame is handled through a Request that
// carries the raw payload of that frame.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) *Request {
	req := Request{}
	if len(payload) != 0 {
		req.payload = payload[0]
	}
	return &req
}

func unmarshalPayload[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg.Payload, err
	}
	return msg.Payload, nil
}

// humanPlayer fetches a player the connection is allowed to command.
func humanPlayer(game *mb.Game, playerUuid string) (*mb.Player, error) {
	player, err := game.FetchPlayer(playerUuid)
	if err != nil {
		return nil, err
	}
	if player.IsAI() {
		return nil, cerr.ErrPlayerIsComputer(playerUuid)
	}
	return player, nil
}

func newRespCreateGame(game *mb.Game) mc.RespCreateGame {
	resp := mc.RespCreateGame{
		GameUuid:  game.Uuid(),
		BoardSize: game.Board().Size,
		Templates: game.Templates(),
	}
	for i, p := range game.Players() {
		resp.Players[i] = mc.RespPlayer{PlayerUuid: p.Uuid(), Name: p.Name(), IsAI: p.IsAI()}
	}
	return resp
}

// The computer deploys its fleet as soon as the game exists
// so the human only has to deploy theirs.
func deployComputerFleet(game *mb.Game) error {
	ai := game.AIPlayer()
	if ai == nil {
		return nil
	}
	_, err := game.RandomizeFleet(ai.Uuid())
	return err
}

func (r *Request) HandleCreateGame(gm mb.GameManager) (*mb.Game, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	req, err := unmarshalPayload[mc.ReqCreateGame](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal create game request")
		return nil, resp
	}

	cfg := mb.GameConfig{
		Mode:      req.Mode,
		BoardSize: req.BoardSize,
		Names:     req.Names,
	}
	if req.AlwaysSwapTurn {
		cfg.TurnRule = mb.TurnRuleAlwaysSwap
	}

	game, err := gm.CreateGame(cfg)
	if err != nil {
		resp.AddError(err.Error(), "failed to create game")
		return nil, resp
	}
	if err := deployComputerFleet(game); err != nil {
		gm.TerminateGame(game.Uuid())
		resp.AddError(err.Error(), "failed to deploy computer fleet")
		return nil, resp
	}

	resp.AddPayload(newRespCreateGame(game))
	return game, resp
}

func (r *Request) HandlePlaceShip(game *mb.Game) mc.Message[mc.RespPlaceShip] {
	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)

	req, err := unmarshalPayload[mc.ReqPlaceShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal place ship request")
		return resp
	}

	player, err := humanPlayer(game, req.PlayerUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to place ship")
		return resp
	}

	ship, err := game.PlaceShip(req.PlayerUuid, req.ShipName, req.Origin, req.Horizontal)
	if err != nil {
		resp.AddError(err.Error(), "failed to place ship")
		return resp
	}

	resp.AddPayload(mc.RespPlaceShip{Ship: ship, IsReady: player.Fleet().IsReady()})
	return resp
}

func (r *Request) HandlePreviewShip(game *mb.Game) mc.Message[mb.PlacementPreview] {
	resp := mc.NewMessage[mb.PlacementPreview](mc.CodePreviewShip)

	req, err := unmarshalPayload[mc.ReqPlaceShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal preview ship request")
		return resp
	}

	if _, err := humanPlayer(game, req.PlayerUuid); err != nil {
		resp.AddError(err.Error(), "failed to preview ship")
		return resp
	}

	preview, err := game.PreviewShip(req.PlayerUuid, req.ShipName, req.Origin, req.Horizontal)
	if err != nil {
		resp.AddError(err.Error(), "failed to preview ship")
		return resp
	}

	resp.AddPayload(preview)
	return resp
}

func (r *Request) HandleRemoveShip(game *mb.Game) mc.Message[mc.RespFleet] {
	resp := mc.NewMessage[mc.RespFleet](mc.CodeRemoveShip)

	req, err := unmarshalPayload[mc.ReqRemoveShip](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal remove ship request")
		return resp
	}

	player, err := humanPlayer(game, req.PlayerUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to remove ship")
		return resp
	}

	if err := game.RemoveShip(req.PlayerUuid, req.ShipName); err != nil {
		resp.AddError(err.Error(), "failed to remove ship")
		return resp
	}

	resp.AddPayload(mc.RespFleet{Ships: player.Fleet().Ships(), IsReady: player.Fleet().IsReady()})
	return resp
}

func (r *Request) HandleRandomFleet(game *mb.Game) mc.Message[mc.RespFleet] {
	resp := mc.NewMessage[mc.RespFleet](mc.CodeRandomFleet)

	req, err := unmarshalPayload[mc.ReqRandomFleet](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal random fleet request")
		return resp
	}

	player, err := humanPlayer(game, req.PlayerUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to generate random fleet")
		return resp
	}

	ships, err := game.RandomizeFleet(req.PlayerUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to generate random fleet")
		return resp
	}

	resp.AddPayload(mc.RespFleet{Ships: ships, IsReady: player.Fleet().IsReady()})
	return resp
}

func (r *Request) HandleStartGame(game *mb.Game) mc.Message[mc.RespStartGame] {
	resp := mc.NewMessage[mc.RespStartGame](mc.CodeStartGame)

	if err := game.BeginBattle(); err != nil {
		resp.AddError(err.Error(), "failed to start the battle")
		return resp
	}

	resp.AddPayload(mc.RespStartGame{ActivePlayerUuid: game.ActivePlayer().Uuid()})
	return resp
}

// HandleAttack resolves the sender's shot and, against the computer,
// every shot the computer fires back while it holds the turn.
func (r *Request) HandleAttack(game *mb.Game) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)

	req, err := unmarshalPayload[mc.ReqAttack](r.payload)
	if err != nil {
		resp.AddError(err.Error(), "failed to unmarshal attack request")
		return resp
	}

	attacker, err := humanPlayer(game, req.PlayerUuid)
	if err != nil {
		resp.AddError(err.Error(), "failed to attack")
		return resp
	}

	result, err := game.FireAt(req.PlayerUuid, req.Index)
	if err != nil {
		resp.AddError(err.Error(), "failed to attack")
		return resp
	}

	payload := mc.RespAttack{Attack: result}
	if !result.IsConcluded && game.ActivePlayer().IsAI() {
		aiAttacks, err := game.PlayAITurn()
		if err != nil {
			log.Printf("computer turn failed in game %s: %v\n", game.Uuid(), err)
		}
		payload.AIAttacks = aiAttacks
	}

	payload.ActivePlayerUuid = game.ActivePlayer().Uuid()
	payload.Score = attacker.Score()
	payload.MoveCount = attacker.MoveCount()

	resp.AddPayload(payload)
	return resp
}

func (r *Request) HandleRematch(game *mb.Game) mc.Message[mc.RespCreateGame] {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeRematch)

	game.Reset()
	if err := deployComputerFleet(game); err != nil {
		resp.AddError(err.Error(), "failed to deploy computer fleet")
		return resp
	}

	resp.AddPayload(newRespCreateGame(game))
	return resp
}

func (r *Request) HandleTopScores(ctx context.Context, sb *scoreboard.Scoreboard) mc.Message[mc.RespTopScores] {
	resp := mc.NewMessage[mc.RespTopScores](mc.CodeTopScores)

	scores, err := sb.ListTopScores(ctx)
	if err != nil {
		resp.AddError(err.Error(), "failed to load top scores")
		return resp
	}
	highScore, err := sb.HighScore(ctx)
	if err != nil {
		resp.AddError(err.Error(), "failed to load high score")
		return resp
	}

	resp.AddPayload(mc.RespTopScores{Scores: scores, HighScore: highScore})
	return resp
}

// newEndGameMessage describes the winner of a concluded game.
func newEndGameMessage(game *mb.Game) mc.Message[mc.RespEndGame] {
	resp := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)

	winner, reason := game.Winner()
	if winner == nil {
		resp.AddError("", "game has no winner yet")
		return resp
	}

	resp.AddPayload(mc.RespEndGame{
		WinnerUuid: winner.Uuid(),
		WinnerName: winner.Name(),
		Reason:     reason,
		Score:      winner.Score(),
		Moves:      winner.MoveCount(),
		Time:       game.ElapsedSeconds(),
	})
	return resp
}

// recordWinner adds a human winner to the scoreboard.
// Games won by the computer are not ranked.
func recordWinner(ctx context.Context, sb *scoreboard.Scoreboard, game *mb.Game, end mc.RespEndGame) error {
	winner, err := game.FetchPlayer(end.WinnerUuid)
	if err != nil {
		return err
	}
	if winner.IsAI() {
		return nil
	}

	_, err = sb.RecordResult(ctx, scoreboard.Entry{
		Name:  end.WinnerName,
		Moves: end.Moves,
		Score: end.Score,
		Time:  end.Time,
	})
	return err
}
