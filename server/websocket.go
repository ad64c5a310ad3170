// File: server/websocket.go
package server

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/lguibr/basicbank/atm"
	"github.com/lguibr/bollywood"
	"golang.org/x/net/websocket"
)

// inputFrame is one line of user input from the websocket client.
type inputFrame struct {
	Input string `json:"input"`
}

// outputFrame is one render request pushed to the websocket client.
type outputFrame struct {
	Text  string `json:"text"`
	Clear bool   `json:"clear"`
}

// wsRenderer delivers console output frames over a websocket connection.
type wsRenderer struct {
	conn *websocket.Conn
}

func (r *wsRenderer) Render(text string, clear bool) error {
	return websocket.JSON.Send(r.conn, outputFrame{Text: text, Clear: clear})
}

// HandleATM sets up one ATM session per websocket connection: a console
// actor rendering to the socket and an ATM actor bound to the bank front.
// Both are stopped when the connection goes away.
func (s *Server) HandleATM() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		connectionAddr := ws.RemoteAddr().String()
		fmt.Printf("HandleATM: New ATM session from %s\n", connectionAddr)

		defer func() {
			if r := recover(); r != nil {
				fmt.Printf("PANIC recovered in HandleATM for %s: %v\nStack trace:\n%s\n", connectionAddr, r, string(debug.Stack()))
			}
			fmt.Printf("HandleATM: Session ending for %s, ensuring connection is closed.\n", connectionAddr)
			_ = ws.Close()
		}()

		consolePID := s.engine.Spawn(bollywood.NewProps(atm.NewConsoleActorProducer(&wsRenderer{conn: ws})))
		if consolePID == nil {
			fmt.Printf("HandleATM: Failed to spawn console for %s.\n", connectionAddr)
			return
		}

		atmPID := s.engine.Spawn(bollywood.NewProps(atm.NewAtmActorProducer(s.cfg, consolePID, s.mediatorPID)))
		if atmPID == nil {
			fmt.Printf("HandleATM: Failed to spawn ATM for %s.\n", connectionAddr)
			s.engine.Stop(consolePID)
			return
		}

		defer func() {
			s.engine.Stop(atmPID)
			s.engine.Stop(consolePID)
		}()

		// The directory-ready notice: the ATM renders its welcome screen and
		// starts accepting input.
		s.engine.Send(atmPID, atm.BankReadyMessage{Bank: s.bankPID}, nil)

		s.readLoop(ws, atmPID)

		fmt.Printf("HandleATM: readLoop finished for %s.\n", connectionAddr)
	}
}

// readLoop forwards input lines from one websocket connection to its ATM.
func (s *Server) readLoop(conn *websocket.Conn, atmPID *bollywood.PID) {
	connectionAddr := conn.RemoteAddr().String()

	for {
		var frame inputFrame
		err := websocket.JSON.Receive(conn, &frame)

		if err != nil {
			isClosedErr := err == io.EOF ||
				strings.Contains(err.Error(), "use of closed network connection") ||
				strings.Contains(err.Error(), "closed")
			if !isClosedErr {
				fmt.Printf("readLoop: Error receiving from %s: %v\n", connectionAddr, err)
			}
			return
		}

		s.engine.Send(atmPID, atm.ConsoleInputMessage{Input: frame.Input}, nil)
	}
}
