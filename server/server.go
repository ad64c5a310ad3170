// File: server/server.go
package server

import (
	"time"

	"github.com/lguibr/basicbank/utils"
	"github.com/lguibr/bollywood"
)

// askTimeoutSlack pads the HTTP admin ask deadline beyond one full directory
// lookup, which blocks a shard for the configured delay.
const askTimeoutSlack = 3 * time.Second

// Server is the external gateway: websocket ATM sessions and a small HTTP
// admin API over the bank front.
type Server struct {
	engine      *bollywood.Engine
	cfg         utils.Config
	bankPID     *bollywood.PID
	mediatorPID *bollywood.PID
}

// NewServer creates a gateway over the given bank front and mediator.
func NewServer(engine *bollywood.Engine, cfg utils.Config, bankPID, mediatorPID *bollywood.PID) *Server {
	return &Server{
		engine:      engine,
		cfg:         cfg,
		bankPID:     bankPID,
		mediatorPID: mediatorPID,
	}
}

func (s *Server) askTimeout() time.Duration {
	return s.cfg.LookupDelay + askTimeoutSlack
}
