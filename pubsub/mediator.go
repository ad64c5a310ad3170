// File: pubsub/mediator.go
package pubsub

import (
	"fmt"
	"runtime/debug"

	"github.com/lguibr/bollywood"
)

// MediatorActor is a topic-keyed broadcast fan-out. Subscribers register a
// PID against a topic name; every message published on that topic is sent to
// every subscriber. Delivery order relative to directed sends is not
// guaranteed.
type MediatorActor struct {
	topics  map[string][]*bollywood.PID
	selfPID *bollywood.PID
}

// Subscribe registers a subscriber PID for a topic.
type Subscribe struct {
	Topic      string
	Subscriber *bollywood.PID
}

// Unsubscribe removes a subscriber PID from a topic.
type Unsubscribe struct {
	Topic      string
	Subscriber *bollywood.PID
}

// Publish fans the wrapped message out to every subscriber of the topic.
type Publish struct {
	Topic   string
	Message interface{}
}

// NewMediatorProducer creates a producer for the MediatorActor.
func NewMediatorProducer() bollywood.Producer {
	return func() bollywood.Actor {
		return &MediatorActor{
			topics: make(map[string][]*bollywood.PID),
		}
	}
}

// Receive handles messages for the MediatorActor.
func (a *MediatorActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			pidStr := "unknown"
			if a.selfPID != nil {
				pidStr = a.selfPID.String()
			}
			fmt.Printf("PANIC recovered in MediatorActor %s Receive: %v\nStack trace:\n%s\n", pidStr, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:

	case Subscribe:
		if msg.Subscriber == nil || msg.Topic == "" {
			return
		}
		for _, pid := range a.topics[msg.Topic] {
			if pid.ID == msg.Subscriber.ID {
				return // Already subscribed
			}
		}
		a.topics[msg.Topic] = append(a.topics[msg.Topic], msg.Subscriber)

	case Unsubscribe:
		subs := a.topics[msg.Topic]
		for i, pid := range subs {
			if msg.Subscriber != nil && pid.ID == msg.Subscriber.ID {
				a.topics[msg.Topic] = append(subs[:i], subs[i+1:]...)
				break
			}
		}

	case Publish:
		// The publisher stays the sender so subscribers reply directly to it,
		// not to the mediator.
		for _, pid := range a.topics[msg.Topic] {
			ctx.Engine().Send(pid, msg.Message, ctx.Sender())
		}

	case bollywood.Stopping:
		a.topics = make(map[string][]*bollywood.PID)

	case bollywood.Stopped:

	default:
		fmt.Printf("MediatorActor %s: Received unknown message type: %T\n", a.selfPID, msg)
	}
}
