package api

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/saeidalz13/battleship-elite/db/sqlc"
	cerr "github.com/saeidalz13/battleship-elite/internal/error"
	mb "github.com/saeidalz13/battleship-elite/models/battleship"
	mc "github.com/saeidalz13/battleship-elite/models/connection"
	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

// Analytics counts server activity. It is optional; a nil
// Analytics turns the counters off.
type Analytics interface {
	GameCreated(ctx context.Context, serverIpNet net.IPNet) error
	RematchCalled(ctx context.Context, serverIpNet net.IPNet) error
}

var _ Analytics = (*sqlc.AnalyticsManager)(nil)

type RequestProcessor struct {
	upgrader       websocket.Upgrader
	sessionManager mc.SessionManager
	gameManager    mb.GameManager
	scoreboard     *scoreboard.Scoreboard
	analytics      Analytics
	ipnet          net.IPNet
}

func NewRequestProcessor(
	upgrader websocket.Upgrader,
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	sb *scoreboard.Scoreboard,
	analytics Analytics,
) *RequestProcessor {
	rp := &RequestProcessor{
		upgrader:       upgrader,
		sessionManager: sessionManager,
		gameManager:    gameManager,
		scoreboard:     sb,
		analytics:      analytics,
	}

	ipnet, err := findServerIpNet()
	if err != nil {
		log.Printf("falling back to loopback for analytics: %v\n", err)
		ipnet = net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}
	}
	rp.ipnet = ipnet
	return rp
}

// findServerIpNet picks the first non-loopback IPv4 of an interface that is up.
func findServerIpNet() (net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return net.IPNet{}, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			return net.IPNet{}, err
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
				return net.IPNet{IP: ip, Mask: net.CIDRMask(32, 32)}, nil
			}
		}
	}

	return net.IPNet{}, errors.New("no ipv4 address found on any interface")
}

// Exposed for tests
func (rp *RequestProcessor) GetIpNet() net.IPNet {
	return rp.ipnet
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := rp.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader already replied to the client
		log.Println(err)
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		// the read loop of the session resumes on the new connection
		if _, err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			log.Println(err)
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			conn.Close()
		}
	}
}

func (rp *RequestProcessor) countAnalytics(count func(ctx context.Context, serverIpNet net.IPNet) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	// analytics never break a game
	if err := count(ctx, rp.ipnet); err != nil {
		log.Println(err)
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	sessionId := session.Id()

	defer func() {
		if game := session.Game(); game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewErrorMessage(mc.CodeSignalAbsent, err, "incoming req payload must be json with a 'code' field")
			if err := rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		if err := rp.dispatch(session, code, payload); err != nil {
			break sessionLoop
		}
	}
}

// dispatch answers one frame. A returned error means the
// connection is gone and the session has to end.
func (rp *RequestProcessor) dispatch(session *mc.Session, code uint8, payload []byte) error {
	req := NewRequest(payload)
	game := session.Game()

	switch code {
	case mc.CodeCreateGame:
		if game != nil {
			rp.gameManager.TerminateGame(game.Uuid())
			session.SetGame(nil)
		}

		newGame, respMsg := req.HandleCreateGame(rp.gameManager)
		if newGame != nil {
			session.SetGame(newGame)
			if rp.analytics != nil {
				rp.countAnalytics(rp.analytics.GameCreated)
			}
		}
		return rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON)

	case mc.CodeTopScores:
		ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
		defer cancel()
		return rp.sessionManager.WriteToSessionConn(session, req.HandleTopScores(ctx, rp.scoreboard), mc.MessageTypeJSON)

	case mc.CodePlaceShip, mc.CodePreviewShip, mc.CodeRemoveShip, mc.CodeRandomFleet,
		mc.CodeStartGame, mc.CodeAttack, mc.CodeRematch:
		if game == nil {
			msg := mc.NewErrorMessage(code, cerr.ErrNoGameInSession(session.Id()), "create a game first")
			return rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON)
		}
		return rp.dispatchGame(session, game, req, code)

	default:
		respInvalidSignal := mc.NewErrorMessage(mc.CodeInvalidSignal, nil, "invalid code in the incoming payload")
		return rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON)
	}
}

func (rp *RequestProcessor) dispatchGame(session *mc.Session, game *mb.Game, req *Request, code uint8) error {
	switch code {
	case mc.CodePlaceShip:
		return rp.sessionManager.WriteToSessionConn(session, req.HandlePlaceShip(game), mc.MessageTypeJSON)

	case mc.CodePreviewShip:
		return rp.sessionManager.WriteToSessionConn(session, req.HandlePreviewShip(game), mc.MessageTypeJSON)

	case mc.CodeRemoveShip:
		return rp.sessionManager.WriteToSessionConn(session, req.HandleRemoveShip(game), mc.MessageTypeJSON)

	case mc.CodeRandomFleet:
		return rp.sessionManager.WriteToSessionConn(session, req.HandleRandomFleet(game), mc.MessageTypeJSON)

	case mc.CodeStartGame:
		return rp.sessionManager.WriteToSessionConn(session, req.HandleStartGame(game), mc.MessageTypeJSON)

	case mc.CodeRematch:
		if rp.analytics != nil {
			rp.countAnalytics(rp.analytics.RematchCalled)
		}
		return rp.sessionManager.WriteToSessionConn(session, req.HandleRematch(game), mc.MessageTypeJSON)

	case mc.CodeAttack:
		respMsg := req.HandleAttack(game)
		if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
			return err
		}
		if respMsg.Error != nil || game.Phase() != mb.GamePhaseConcluded {
			return nil
		}
		return rp.concludeGame(session, game)
	}

	return nil
}

// concludeGame announces the winner and ranks the result.
func (rp *RequestProcessor) concludeGame(session *mc.Session, game *mb.Game) error {
	endMsg := newEndGameMessage(game)
	if endMsg.Error == nil {
		ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
		defer cancel()

		if err := recordWinner(ctx, rp.scoreboard, game, endMsg.Payload); err != nil {
			log.Printf("failed to record result of game %s: %v\n", game.Uuid(), err)
		}
	}
	return rp.sessionManager.WriteToSessionConn(session, endMsg, mc.MessageTypeJSON)
}
