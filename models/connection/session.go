package connection

import (
	"errors"
	"log"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	mb "github.com/saeidalz13/battleship-elite/models/battleship"
)

const (
	maxWriteWsRetries uint8         = 2
	backOffFactor     uint8         = 2
	gracePeriod       time.Duration = time.Minute * 2
)

const (
	MessageTypeBytes uint8 = iota
	MessageTypeJSON
)

type ConnectionHandler interface {
	reconnect(conn *websocket.Conn)
	handleReadFromConnErr(err error, retries uint8) uint8
	writeToConnWithRetry(msg interface{}, msgType uint8) error
	onConnErr(err error) uint8
}

// Session binds one websocket connection to the game it drives.
// A page reload reconnects to the same session and keeps the game.
type Session struct {
	id                     string
	conn                   *websocket.Conn
	game                   *mb.Game
	reconnectionSignalChan chan bool
	createdAt              time.Time
	mu                     sync.Mutex
}

var _ ConnectionHandler = (*Session)(nil)

func NewSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:                     id,
		conn:                   conn,
		reconnectionSignalChan: make(chan bool),
		createdAt:              time.Now(),
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Conn() *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

func (s *Session) Game() *mb.Game {
	return s.game
}

func (s *Session) SetGame(game *mb.Game) {
	s.game = game
}

// onConnErr maps a websocket error to what the read/write loop does next.
func (s *Session) onConnErr(err error) uint8 {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		log.Println("timeout error:", err)
		return ConnLoopRetry
	}

	switch {
	case websocket.IsCloseError(err, websocket.CloseTryAgainLater):
		log.Println("high server load/traffic error:", err)
		return ConnLoopRetry

	// browser tab suspended or reloaded
	case websocket.IsCloseError(err, websocket.CloseAbnormalClosure):
		log.Println("abnormal closure error:", err)
		return ConnLoopAbnormalClosureRetry

	case websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure):
		log.Println("close error:", err)
		return ConnLoopBreak

	default:
		log.Println("unexpected error:", err)
		return ConnLoopBreak
	}
}

// Writes to the connection of that session, retrying with a
// linear back off on timeouts.
func (s *Session) writeToConnWithRetry(msg interface{}, msgType uint8) error {
	var retries uint8

	for {
		var err error

		switch msgType {
		case MessageTypeJSON:
			err = s.Conn().WriteJSON(msg)

		case MessageTypeBytes:
			respBytes, ok := msg.([]byte)
			if !ok {
				return NewConnErr(ConnInvalidMsgType).AddDesc("msg type expected: []byte got invalid")
			}
			err = s.Conn().WriteMessage(websocket.TextMessage, respBytes)

		default:
			return NewConnErr(ConnInvalidMsgType).AddDesc("invalid message type to write with retry")
		}

		if err == nil {
			return nil
		}

		switch s.onConnErr(err) {
		case ConnLoopRetry:
			if retries >= maxWriteWsRetries {
				log.Printf("max retries reached for writing to ws [%s]:%s", s.Conn().RemoteAddr().String(), err)
				return NewConnErr(ConnLoopBreak).AddDesc("max write retries reached").Wrap(err)
			}
			retries++
			log.Printf("writing to ws [%s] failed; retrying... (retry no. %d)\n", s.Conn().RemoteAddr().String(), retries)
			time.Sleep(time.Duration(retries*backOffFactor) * time.Second)

		case ConnLoopAbnormalClosureRetry:
			return NewConnErr(ConnLoopAbnormalClosureRetry).Wrap(err)

		default:
			return NewConnErr(ConnLoopBreak).AddDesc("breaking write loop").Wrap(err)
		}
	}
}

func (s *Session) handleReadFromConnErr(err error, retries uint8) uint8 {
	switch s.onConnErr(err) {
	case ConnLoopAbnormalClosureRetry:
		return ConnLoopAbnormalClosureRetry

	case ConnLoopRetry:
		if retries >= maxWriteWsRetries {
			return ConnLoopBreak
		}
		log.Printf("failed to read from ws conn [%s]; retrying... (retry no. %d)\n", s.Conn().RemoteAddr().String(), retries)
		time.Sleep(time.Duration(retries*backOffFactor) * time.Second)
		return ConnLoopContinue

	default:
		log.Printf("break ws conn loop [%s] due to: %s\n", s.Conn().RemoteAddr().String(), err)
		return ConnLoopBreak
	}
}

func (s *Session) reconnect(conn *websocket.Conn) {
	s.mu.Lock()
	signal := s.reconnectionSignalChan
	s.conn = conn
	s.reconnectionSignalChan = make(chan bool)
	s.mu.Unlock()

	close(signal)
}

// waitForReconnection blocks until the client comes back with its
// session id or the grace period runs out.
func (s *Session) waitForReconnection(grace time.Duration) error {
	if s.game == nil {
		return NewConnErr(ConnLoopBreak).AddDesc("no game to resume")
	}

	s.mu.Lock()
	signal := s.reconnectionSignalChan
	s.mu.Unlock()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-timer.C:
		log.Printf("session terminated: %s\n", s.id)
		return NewConnErr(ConnLoopBreak).AddDesc("grace period is over for session: " + s.id)

	case <-signal:
		log.Printf("player reconnected, session: %s\n", s.id)
		return nil
	}
}
