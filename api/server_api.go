package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	mb "github.com/saeidalz13/battleship-elite/models/battleship"
	mc "github.com/saeidalz13/battleship-elite/models/connection"
	"github.com/saeidalz13/battleship-elite/models/scoreboard"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	RouteBattleship = "/battleship"
	defaultPort     = "8000"
)

type Server struct {
	port           string
	stage          string
	allowedOrigins map[string]bool
	scoreboard     *scoreboard.Scoreboard
	analytics      Analytics
	sessionManager *mc.BattleshipSessionManager
	gameManager    *mb.BattleshipGameManager
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:           defaultPort,
		stage:          StageDev,
		allowedOrigins: make(map[string]bool),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}
	if server.scoreboard == nil {
		panic("server needs a scoreboard; use WithScoreboard")
	}

	server.sessionManager = mc.NewBattleshipSessionManager()
	server.gameManager = mb.NewBattleshipGameManager()
	return &server
}

func WithPort(port string) Option {
	return func(s *Server) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != StageProd && stage != StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

// WithAllowedOrigins restricts websocket upgrades in prod.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) error {
		for _, origin := range origins {
			if origin != "" {
				s.allowedOrigins[origin] = true
			}
		}
		return nil
	}
}

func WithScoreboard(sb *scoreboard.Scoreboard) Option {
	return func(s *Server) error {
		s.scoreboard = sb
		return nil
	}
}

func WithAnalytics(analytics Analytics) Option {
	return func(s *Server) error {
		s.analytics = analytics
		return nil
	}
}

func (s *Server) upgrader() websocket.Upgrader {
	upgrader := websocket.Upgrader{
		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// a whole fleet or a burst of AI attacks fits in this comfortably
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	if s.stage == StageProd {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return s.allowedOrigins[r.Header.Get("Origin")]
		}
	}
	return upgrader
}

// Handler builds the http routes of the game server.
func (s *Server) Handler() http.Handler {
	rp := NewRequestProcessor(s.upgrader(), s.sessionManager, s.gameManager, s.scoreboard, s.analytics)

	mux := http.NewServeMux()
	mux.Handle("GET "+RouteBattleship, rp)
	return mux
}

func (s *Server) Run() error {
	go s.sessionManager.CleanupPeriodically()

	log.Printf("Listening to port %s (stage: %s)\n", s.port, s.stage)
	return http.ListenAndServe("0.0.0.0:"+s.port, s.Handler())
}
