// File: atm/console_actor.go
package atm

import (
	"fmt"

	"github.com/lguibr/bollywood"
)

// Renderer is the output half of the console collaborator. Implementations
// deliver rendered text to wherever the user is: stdout, a websocket, a test
// recorder.
type Renderer interface {
	Render(text string, clear bool) error
}

// ConsoleActor is the ATM's screen. It accepts ConsoleOutputMessage and bare
// strings (convenience for one-line prompts) and pushes them through its
// renderer. Render failures are logged and dropped: output is
// fire-and-forget.
type ConsoleActor struct {
	renderer Renderer
	selfPID  *bollywood.PID
}

// NewConsoleActorProducer creates a producer for a ConsoleActor writing to
// the given renderer.
func NewConsoleActorProducer(renderer Renderer) bollywood.Producer {
	return func() bollywood.Actor {
		return &ConsoleActor{
			renderer: renderer,
		}
	}
}

// Receive handles render requests for the ConsoleActor.
func (a *ConsoleActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:

	case ConsoleOutputMessage:
		a.render(msg.Text, msg.Clear)

	case string:
		a.render(msg+"\n", false)

	case bollywood.Stopping:
	case bollywood.Stopped:

	default:
		fmt.Printf("ConsoleActor %s: Received unknown message type: %T\n", a.selfPID, msg)
	}
}

func (a *ConsoleActor) render(text string, clear bool) {
	if a.renderer == nil {
		return
	}
	if err := a.renderer.Render(text, clear); err != nil {
		fmt.Printf("ConsoleActor %s: Failed to render output: %v\n", a.selfPID, err)
	}
}

// StdoutRenderer renders to the local terminal, clearing with an ANSI escape.
type StdoutRenderer struct{}

// Render writes the text to stdout.
func (StdoutRenderer) Render(text string, clear bool) error {
	if clear {
		fmt.Print("\033[2J\033[H")
	}
	fmt.Print(text)
	return nil
}
