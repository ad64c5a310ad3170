package bollywood

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrTimeout is returned by Ask when no reply arrives within the deadline.
var ErrTimeout = errors.New("bollywood: ask timed out")

// Engine manages the lifecycle and message dispatching for actors.
type Engine struct {
	pidCounter uint64
	askCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex // Protects the actors map
	futures    map[string]chan interface{}
	futuresMu  sync.Mutex  // Protects the futures map
	stopping   atomic.Bool // Indicates if the engine is shutting down
}

// NewEngine creates a new actor engine.
func NewEngine() *Engine {
	return &Engine{
		actors:  make(map[string]*process),
		futures: make(map[string]chan interface{}),
	}
}

// nextPID generates a unique process ID.
func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn creates and starts a new actor based on the provided Props.
// It returns the PID of the newly created actor.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		fmt.Println("Engine is stopping, cannot spawn new actors")
		return nil
	}

	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()

	e.Send(pid, Started{}, nil)

	return pid
}

// Send delivers a message to the actor identified by the PID.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if pid == nil {
		return
	}

	// Allow system messages during shutdown for cleanup
	_, isStopping := message.(Stopping)
	_, isStopped := message.(Stopped)
	isSystemMsg := isStopping || isStopped || (message == Started{})

	if e.stopping.Load() && !isSystemMsg {
		return
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if ok {
		proc.sendMessage(&messageEnvelope{Sender: sender, Message: message})
	}
	// Unknown PIDs drop the message silently; the target may have stopped.
}

// Forward re-delivers the message currently being processed to another actor,
// preserving the original sender and any pending Ask correlation. Replies from
// the final recipient route straight back to the original requester.
func (e *Engine) Forward(pid *PID, ctx Context) {
	if pid == nil {
		if ctx.RequestID() != "" {
			e.resolveFuture(ctx.RequestID(), errors.New("bollywood: forward target is nil"))
		}
		return
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if ok {
		proc.sendMessage(&messageEnvelope{
			Sender:    ctx.Sender(),
			Message:   ctx.Message(),
			RequestID: ctx.RequestID(),
		})
	} else if ctx.RequestID() != "" {
		e.resolveFuture(ctx.RequestID(), fmt.Errorf("bollywood: actor %s not found", pid.ID))
	}
}

// Ask delivers a message to the actor and waits for a reply issued through
// ctx.Reply, up to the given timeout. A reply carrying an error value is
// returned as the error.
func (e *Engine) Ask(pid *PID, message interface{}, timeout time.Duration) (interface{}, error) {
	if pid == nil {
		return nil, errors.New("bollywood: ask target is nil")
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("bollywood: actor %s not found", pid.ID)
	}

	requestID := fmt.Sprintf("ask-%d", atomic.AddUint64(&e.askCounter, 1))
	future := make(chan interface{}, 1)

	e.futuresMu.Lock()
	e.futures[requestID] = future
	e.futuresMu.Unlock()

	defer func() {
		e.futuresMu.Lock()
		delete(e.futures, requestID)
		e.futuresMu.Unlock()
	}()

	proc.sendMessage(&messageEnvelope{Message: message, RequestID: requestID})

	select {
	case result := <-future:
		if err, isErr := result.(error); isErr {
			return nil, err
		}
		return result, nil
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

// resolveFuture completes a pending Ask. Late replies (after timeout cleanup)
// are dropped.
func (e *Engine) resolveFuture(requestID string, result interface{}) {
	e.futuresMu.Lock()
	future, ok := e.futures[requestID]
	delete(e.futures, requestID)
	e.futuresMu.Unlock()

	if ok {
		future <- result // Buffered, never blocks
	}
}

// Stop requests an actor to stop processing messages and shut down.
// It sends the Stopping message and also directly signals the actor's stop channel.
func (e *Engine) Stop(pid *PID) {
	if pid == nil {
		return
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if ok {
		// Send Stopping message first to allow graceful cleanup within the actor's context
		e.Send(pid, Stopping{}, nil)

		// Directly signal the stop channel to ensure termination even if mailbox is full
		select {
		case <-proc.stopCh: // Already closed
		default:
			close(proc.stopCh)
		}
	}
}

// remove removes an actor process from the engine's tracking.
func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops all actors and waits for them to terminate gracefully.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		fmt.Println("Engine already shutting down")
		return
	}
	fmt.Println("Engine shutdown initiated...")

	e.mu.RLock()
	pidsToStop := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pidsToStop = append(pidsToStop, proc.pid)
	}
	e.mu.RUnlock()

	fmt.Printf("Stopping %d actors...\n", len(pidsToStop))
	for _, pid := range pidsToStop {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			fmt.Println("All actors stopped.")
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	e.mu.Lock()
	if remaining := len(e.actors); remaining > 0 {
		fmt.Printf("Engine shutdown timeout: %d actors did not stop gracefully.\n", remaining)
		e.actors = make(map[string]*process)
	}
	e.mu.Unlock()

	fmt.Println("Engine shutdown complete.")
}
