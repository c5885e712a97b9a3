package connection

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-elite/internal/error"
)

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	CleanupPeriodically()

	FindSession(sessionId string) (*Session, error)
	TerminateSession(sessionId string)
	ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error)
	CountSessions() int

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

func NewBattleshipSessionManager() *BattleshipSessionManager {
	initMapSize := 10

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: time.Minute * 20,
	}
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.NewString()))
	session := NewSession(sessionId, conn)

	bsm.mu.Lock()
	bsm.sessions[sessionId] = session
	bsm.mu.Unlock()

	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs || session == nil {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}
	return session, nil
}

func (bsm *BattleshipSessionManager) TerminateSession(sessionId string) {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()
	delete(bsm.sessions, sessionId)
}

func (bsm *BattleshipSessionManager) CountSessions() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

// ReconnectSession hands a fresh connection to a session whose
// previous connection closed abnormally.
func (bsm *BattleshipSessionManager) ReconnectSession(sessionId string, conn *websocket.Conn) (*Session, error) {
	session, err := bsm.FindSession(sessionId)
	if err != nil {
		return nil, err
	}

	session.reconnect(conn)
	return session, nil
}

// Connections living longer than the cleanup interval are
// assumed dangling and dropped.
func (bsm *BattleshipSessionManager) CleanupPeriodically() {
	assumedClosedConns := 10

	for {
		time.Sleep(bsm.cleanupInterval)

		bsm.mu.Lock()
		toDelete := make([]string, 0, assumedClosedConns)

		for id, session := range bsm.sessions {
			if time.Since(session.createdAt) > bsm.cleanupInterval {
				toDelete = append(toDelete, id)
			}
		}

		for _, id := range toDelete {
			delete(bsm.sessions, id)
			log.Printf("removed stale session: %s", id)
		}
		bsm.mu.Unlock()
	}
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	err := session.writeToConnWithRetry(msg, msgType)
	if err == nil {
		return nil
	}

	var connErr ConnErr
	if !errors.As(err, &connErr) {
		return err
	}

	switch connErr.Code() {
	case ConnLoopAbnormalClosureRetry:
		if err := session.waitForReconnection(gracePeriod); err != nil {
			return err
		}
		return session.writeToConnWithRetry(msg, msgType)

	default:
		return connErr
	}
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		messageType, payload, err := session.Conn().ReadMessage()
		if err == nil {
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		case ConnLoopAbnormalClosureRetry:
			if err := session.waitForReconnection(gracePeriod); err != nil {
				return -1, []byte{}, err
			}
			retries = 0

		default:
			return -1, []byte{}, err
		}
	}
}

// FetchCodeFromMsg reads only the code of an incoming frame.
func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal Signal
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}
	return signal.Code, nil
}
