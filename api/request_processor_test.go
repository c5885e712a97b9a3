package api

import (
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-elite/db/sqlc"
	mb "github.com/saeidalz13/battleship-elite/models/battleship"
	mc "github.com/saeidalz13/battleship-elite/models/connection"
	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

type Test[T, K any] struct {
	name string

	expectedCode uint8
	expectErr    bool

	reqPayload  T
	respPayload K
}

var dialer = websocket.Dialer{HandshakeTimeout: 10 * time.Second}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()

	sb := scoreboard.New(scoreboard.NewFileStore(filepath.Join(t.TempDir(), "scores.json")))
	opts = append([]Option{WithScoreboard(sb)}, opts...)

	ts := httptest.NewServer(NewServer(opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func wsUrl(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + RouteBattleship
}

// dial connects and consumes the session id the server sends first.
func dial(t *testing.T, ts *httptest.Server) (*websocket.Conn, string) {
	t.Helper()

	conn, _, err := dialer.Dial(wsUrl(ts), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	var resp mc.Message[mc.RespSessionId]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeSessionID || resp.Payload.SessionID == "" {
		t.Fatalf("expected session id message\tgot: %+v", resp)
	}
	return conn, resp.Payload.SessionID
}

func roundTrip[T, K any](t *testing.T, conn *websocket.Conn, req T) K {
	t.Helper()

	if err := conn.WriteJSON(req); err != nil {
		t.Fatal(err)
	}
	var resp K
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func createGame(t *testing.T, conn *websocket.Conn, req mc.ReqCreateGame) mc.RespCreateGame {
	t.Helper()

	resp := roundTrip[mc.Message[mc.ReqCreateGame], mc.Message[mc.RespCreateGame]](t, conn,
		mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: req})
	if resp.Error != nil {
		t.Fatalf("failed to create game: %+v", resp.Error)
	}
	return resp.Payload
}

func randomFleet(t *testing.T, conn *websocket.Conn, playerUuid string) mc.RespFleet {
	t.Helper()

	resp := roundTrip[mc.Message[mc.ReqRandomFleet], mc.Message[mc.RespFleet]](t, conn,
		mc.Message[mc.ReqRandomFleet]{Code: mc.CodeRandomFleet, Payload: mc.ReqRandomFleet{PlayerUuid: playerUuid}})
	if resp.Error != nil {
		t.Fatalf("failed to generate random fleet: %+v", resp.Error)
	}
	return resp.Payload
}

func startGame(t *testing.T, conn *websocket.Conn) mc.Message[mc.RespStartGame] {
	t.Helper()
	return roundTrip[mc.Message[mc.NoPayload], mc.Message[mc.RespStartGame]](t, conn, mc.NewMessage[mc.NoPayload](mc.CodeStartGame))
}

func attack(t *testing.T, conn *websocket.Conn, playerUuid string, index int) mc.Message[mc.RespAttack] {
	t.Helper()
	return roundTrip[mc.Message[mc.ReqAttack], mc.Message[mc.RespAttack]](t, conn,
		mc.Message[mc.ReqAttack]{Code: mc.CodeAttack, Payload: mc.ReqAttack{PlayerUuid: playerUuid, Index: index}})
}

func TestInvalidCode(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	tests := []Test[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]]{
		{
			name:         "random invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](255),
		},
		{
			name:         "another invalid code",
			expectedCode: mc.CodeInvalidSignal,
			reqPayload:   mc.NewMessage[mc.NoPayload](200),
		},
		{
			name:         "attack before creating a game",
			expectedCode: mc.CodeAttack,
			expectErr:    true,
			reqPayload:   mc.NewMessage[mc.NoPayload](mc.CodeAttack),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = roundTrip[mc.Message[mc.NoPayload], mc.Message[mc.NoPayload]](t, conn, test.reqPayload)

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\tgot: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.respPayload.Error == nil {
				t.Fatalf("expected an error in the response")
			}
		})
	}
}

func TestSignalAbsent(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	var resp mc.Message[mc.NoPayload]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeSignalAbsent {
		t.Fatalf("expected code: %d\tgot: %d", mc.CodeSignalAbsent, resp.Code)
	}
}

func TestReconnectWithUnknownSession(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialer.Dial(wsUrl(ts)+"?"+URLQuerySessionIDKeyword+"=unknown", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	var resp mc.Message[mc.NoPayload]
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != mc.CodeReceivedInvalidSessionID {
		t.Fatalf("expected code: %d\tgot: %d", mc.CodeReceivedInvalidSessionID, resp.Code)
	}
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	tests := []Test[mc.ReqCreateGame, mc.Message[mc.RespCreateGame]]{
		{
			name:         "computer game",
			expectedCode: mc.CodeCreateGame,
			reqPayload:   mc.ReqCreateGame{Mode: mb.GameModeComputer, Names: [2]string{"Ada", ""}},
		},
		{
			name:         "hot seat game on a small board",
			expectedCode: mc.CodeCreateGame,
			reqPayload:   mc.ReqCreateGame{Mode: mb.GameModePlayer, BoardSize: 7},
		},
		{
			name:         "unknown mode",
			expectedCode: mc.CodeCreateGame,
			expectErr:    true,
			reqPayload:   mc.ReqCreateGame{Mode: "online"},
		},
		{
			name:         "board larger than the maximum",
			expectedCode: mc.CodeCreateGame,
			expectErr:    true,
			reqPayload:   mc.ReqCreateGame{BoardSize: 20000},
		},
		{
			name:         "board too small for the carrier",
			expectedCode: mc.CodeCreateGame,
			expectErr:    true,
			reqPayload:   mc.ReqCreateGame{BoardSize: 4},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = roundTrip[mc.Message[mc.ReqCreateGame], mc.Message[mc.RespCreateGame]](t, conn,
				mc.Message[mc.ReqCreateGame]{Code: mc.CodeCreateGame, Payload: test.reqPayload})

			if test.respPayload.Code != test.expectedCode {
				t.Fatalf("expected code: %d\tgot: %d", test.expectedCode, test.respPayload.Code)
			}
			if test.expectErr {
				if test.respPayload.Error == nil {
					t.Fatal("expected an error in the response")
				}
				return
			}
			if test.respPayload.Error != nil {
				t.Fatalf("error: %s", test.respPayload.Error.ErrorDetails)
			}

			game := test.respPayload.Payload
			if game.GameUuid == "" || len(game.Templates) != 5 {
				t.Fatalf("unexpected game payload: %+v", game)
			}
			if isAI := test.reqPayload.Mode == mb.GameModeComputer; game.Players[1].IsAI != isAI {
				t.Fatalf("expected second player ai: %t\tgot: %t", isAI, game.Players[1].IsAI)
			}
			if test.reqPayload.Names[0] != "" && game.Players[0].Name != test.reqPayload.Names[0] {
				t.Fatalf("expected name %s\tgot: %s", test.reqPayload.Names[0], game.Players[0].Name)
			}
		})
	}
}

func TestDeployment(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	game := createGame(t, conn, mc.ReqCreateGame{Mode: mb.GameModeComputer})
	human, ai := game.Players[0].PlayerUuid, game.Players[1].PlayerUuid

	placeTests := []Test[mc.ReqPlaceShip, mc.Message[mc.RespPlaceShip]]{
		{name: "carrier", reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Carrier", Origin: 0, Horizontal: true}},
		{name: "battleship", reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Battleship", Origin: 10, Horizontal: true}},
		{name: "overlapping cruiser", expectErr: true, reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Cruiser", Origin: 2}},
		{name: "wrapping cruiser", expectErr: true, reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Cruiser", Origin: 28, Horizontal: true}},
		{name: "cruiser", reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Cruiser", Origin: 20, Horizontal: true}},
		{name: "carrier twice", expectErr: true, reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Carrier", Origin: 50, Horizontal: true}},
		{name: "unknown ship", expectErr: true, reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Canoe", Origin: 50}},
		{name: "computer fleet", expectErr: true, reqPayload: mc.ReqPlaceShip{PlayerUuid: ai, ShipName: "Carrier", Origin: 50}},
		{name: "submarine", reqPayload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Submarine", Origin: 30, Horizontal: true}},
	}

	for _, test := range placeTests {
		t.Run(test.name, func(t *testing.T) {
			test.respPayload = roundTrip[mc.Message[mc.ReqPlaceShip], mc.Message[mc.RespPlaceShip]](t, conn,
				mc.Message[mc.ReqPlaceShip]{Code: mc.CodePlaceShip, Payload: test.reqPayload})

			if test.expectErr != (test.respPayload.Error != nil) {
				t.Fatalf("expected error: %t\tgot: %+v", test.expectErr, test.respPayload.Error)
			}
			if !test.expectErr && test.respPayload.Payload.Ship.Template.Name != test.reqPayload.ShipName {
				t.Fatalf("expected ship %s\tgot: %+v", test.reqPayload.ShipName, test.respPayload.Payload.Ship)
			}
		})
	}

	t.Run("preview does not place", func(t *testing.T) {
		preview := roundTrip[mc.Message[mc.ReqPlaceShip], mc.Message[mb.PlacementPreview]](t, conn,
			mc.Message[mc.ReqPlaceShip]{Code: mc.CodePreviewShip, Payload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Destroyer", Origin: 1}})
		if preview.Error != nil || preview.Payload.Valid {
			t.Fatalf("expected an invalid preview over the carrier\tgot: %+v", preview)
		}

		preview = roundTrip[mc.Message[mc.ReqPlaceShip], mc.Message[mb.PlacementPreview]](t, conn,
			mc.Message[mc.ReqPlaceShip]{Code: mc.CodePreviewShip, Payload: mc.ReqPlaceShip{PlayerUuid: human, ShipName: "Destroyer", Origin: 40, Horizontal: true}})
		if !preview.Payload.Valid || len(preview.Payload.Cells) != 2 {
			t.Fatalf("expected a valid preview of two cells\tgot: %+v", preview)
		}
	})

	t.Run("start with incomplete fleet", func(t *testing.T) {
		if resp := startGame(t, conn); resp.Error == nil {
			t.Fatal("expected the battle to refuse an incomplete fleet")
		}
	})

	t.Run("remove ship", func(t *testing.T) {
		resp := roundTrip[mc.Message[mc.ReqRemoveShip], mc.Message[mc.RespFleet]](t, conn,
			mc.Message[mc.ReqRemoveShip]{Code: mc.CodeRemoveShip, Payload: mc.ReqRemoveShip{PlayerUuid: human, ShipName: "Submarine"}})
		if resp.Error != nil || len(resp.Payload.Ships) != 3 {
			t.Fatalf("expected three ships left\tgot: %+v", resp)
		}
	})

	t.Run("random fleet then start", func(t *testing.T) {
		fleet := randomFleet(t, conn, human)
		if !fleet.IsReady || len(fleet.Ships) != 5 {
			t.Fatalf("expected a complete random fleet\tgot: %+v", fleet)
		}

		resp := startGame(t, conn)
		if resp.Error != nil {
			t.Fatalf("error: %s", resp.Error.ErrorDetails)
		}
		if resp.Payload.ActivePlayerUuid != human {
			t.Fatalf("expected %s to move first\tgot: %s", human, resp.Payload.ActivePlayerUuid)
		}
	})

	t.Run("fleet locked once battling", func(t *testing.T) {
		resp := roundTrip[mc.Message[mc.ReqRandomFleet], mc.Message[mc.RespFleet]](t, conn,
			mc.Message[mc.ReqRandomFleet]{Code: mc.CodeRandomFleet, Payload: mc.ReqRandomFleet{PlayerUuid: human}})
		if resp.Error == nil {
			t.Fatal("expected deployment to be closed")
		}
	})
}

func TestPlayAgainstComputer(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	game := createGame(t, conn, mc.ReqCreateGame{Mode: mb.GameModeComputer, Names: [2]string{"Ada", ""}})
	human := game.Players[0].PlayerUuid
	randomFleet(t, conn, human)
	if resp := startGame(t, conn); resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	var concluded bool
	for index := 0; index < 100 && !concluded; index++ {
		resp := attack(t, conn, human, index)
		if resp.Error != nil {
			t.Fatalf("attack at %d failed: %s", index, resp.Error.ErrorDetails)
		}

		concluded = resp.Payload.Attack.IsConcluded
		for _, aiAttack := range resp.Payload.AIAttacks {
			if aiAttack.AttackerUuid == human {
				t.Fatalf("computer attacks must come from the computer: %+v", aiAttack)
			}
			concluded = concluded || aiAttack.IsConcluded
		}
		if !concluded && resp.Payload.ActivePlayerUuid != human {
			t.Fatalf("expected the turn back at %s\tgot: %s", human, resp.Payload.ActivePlayerUuid)
		}
		if resp.Payload.MoveCount != index+1 {
			t.Fatalf("expected move count %d\tgot: %d", index+1, resp.Payload.MoveCount)
		}
	}
	if !concluded {
		t.Fatal("expected the game to end within a hundred shots")
	}

	var end mc.Message[mc.RespEndGame]
	if err := conn.ReadJSON(&end); err != nil {
		t.Fatal(err)
	}
	if end.Code != mc.CodeEndGame || end.Error != nil {
		t.Fatalf("expected end game message\tgot: %+v", end)
	}
	if end.Payload.Reason != mb.WinReasonFlagshipSunk && end.Payload.Reason != mb.WinReasonFleetDestroyed {
		t.Fatalf("unexpected win reason: %s", end.Payload.Reason)
	}

	t.Run("attack after the end", func(t *testing.T) {
		if resp := attack(t, conn, human, 99); resp.Error == nil {
			t.Fatal("expected a concluded game to refuse attacks")
		}
	})

	t.Run("only human winners are ranked", func(t *testing.T) {
		resp := roundTrip[mc.Message[mc.NoPayload], mc.Message[mc.RespTopScores]](t, conn, mc.NewMessage[mc.NoPayload](mc.CodeTopScores))
		if resp.Error != nil {
			t.Fatalf("error: %s", resp.Error.ErrorDetails)
		}

		expected := 0
		if end.Payload.WinnerUuid == human {
			expected = 1
		}
		if len(resp.Payload.Scores) != expected {
			t.Fatalf("expected %d ranked scores\tgot: %+v", expected, resp.Payload.Scores)
		}
		if expected == 1 {
			entry := resp.Payload.Scores[0]
			if entry.Name != "Ada" || entry.Score != end.Payload.Score || resp.Payload.HighScore != end.Payload.Score {
				t.Fatalf("unexpected ranking %+v for end game %+v", resp.Payload, end.Payload)
			}
		}
	})

	t.Run("rematch goes back to deployment", func(t *testing.T) {
		resp := roundTrip[mc.Message[mc.NoPayload], mc.Message[mc.RespCreateGame]](t, conn, mc.NewMessage[mc.NoPayload](mc.CodeRematch))
		if resp.Error != nil || resp.Payload.GameUuid != game.GameUuid {
			t.Fatalf("expected the same game back\tgot: %+v", resp)
		}

		// the human fleet was cleared, the computer deployed again
		if start := startGame(t, conn); start.Error == nil {
			t.Fatal("expected the human fleet to be empty after a rematch")
		}
		randomFleet(t, conn, human)
		if start := startGame(t, conn); start.Error != nil {
			t.Fatalf("error: %s", start.Error.ErrorDetails)
		}
	})
}

func TestHotSeatAlwaysSwap(t *testing.T) {
	ts := newTestServer(t)
	conn, _ := dial(t, ts)

	game := createGame(t, conn, mc.ReqCreateGame{Mode: mb.GameModePlayer, AlwaysSwapTurn: true})
	first, second := game.Players[0].PlayerUuid, game.Players[1].PlayerUuid
	randomFleet(t, conn, first)
	randomFleet(t, conn, second)
	if resp := startGame(t, conn); resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	tests := []struct {
		name           string
		attacker       string
		index          int
		expectErr      bool
		expectedActive string
	}{
		{name: "first shot", attacker: first, index: 0, expectedActive: second},
		{name: "out of turn", attacker: first, index: 1, expectErr: true},
		{name: "reply", attacker: second, index: 0, expectedActive: first},
		{name: "repeat shot", attacker: first, index: 0, expectErr: true},
		{name: "out of bounds", attacker: first, index: 100, expectErr: true},
		{name: "next shot", attacker: first, index: 1, expectedActive: second},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp := attack(t, conn, test.attacker, test.index)
			if test.expectErr {
				if resp.Error == nil {
					t.Fatal("expected an error in the response")
				}
				return
			}
			if resp.Error != nil {
				t.Fatalf("error: %s", resp.Error.ErrorDetails)
			}
			if resp.Payload.Attack.TurnRetained || len(resp.Payload.AIAttacks) != 0 {
				t.Fatalf("turn must always pass in hot seat: %+v", resp.Payload)
			}
			if resp.Payload.ActivePlayerUuid != test.expectedActive {
				t.Fatalf("expected active player %s\tgot: %s", test.expectedActive, resp.Payload.ActivePlayerUuid)
			}
		})
	}
}

func TestAnalyticsCountsGames(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ts := newTestServer(t, WithAnalytics(sqlc.NewDbManager(db).Analytics))
	conn, _ := dial(t, ts)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, games_created)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_server_analytics (server_ip, rematch_called)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	createGame(t, conn, mc.ReqCreateGame{})
	resp := roundTrip[mc.Message[mc.NoPayload], mc.Message[mc.RespCreateGame]](t, conn, mc.NewMessage[mc.NoPayload](mc.CodeRematch))
	if resp.Error != nil {
		t.Fatalf("error: %s", resp.Error.ErrorDetails)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
