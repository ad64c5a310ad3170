// File: pubsub/mediator_test.go
package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/lguibr/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBlurb struct {
	Text string
}

// subscriberActor records published messages and their senders.
type subscriberActor struct {
	mu       sync.Mutex
	received []testBlurb
	senders  []*bollywood.PID
}

func (a *subscriberActor) Receive(ctx bollywood.Context) {
	if blurb, ok := ctx.Message().(testBlurb); ok {
		a.mu.Lock()
		a.received = append(a.received, blurb)
		a.senders = append(a.senders, ctx.Sender())
		a.mu.Unlock()
	}
}

func (a *subscriberActor) Received() ([]testBlurb, []*bollywood.PID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	received := make([]testBlurb, len(a.received))
	copy(received, a.received)
	senders := make([]*bollywood.PID, len(a.senders))
	copy(senders, a.senders)
	return received, senders
}

func setupMediatorTest(t *testing.T) (*bollywood.Engine, *bollywood.PID) {
	t.Helper()
	engine := bollywood.NewEngine()
	mediatorPID := engine.Spawn(bollywood.NewProps(NewMediatorProducer()))
	require.NotNil(t, mediatorPID)
	time.Sleep(50 * time.Millisecond)
	return engine, mediatorPID
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	engine, mediatorPID := setupMediatorTest(t)
	defer engine.Shutdown(1 * time.Second)

	first := &subscriberActor{}
	second := &subscriberActor{}
	firstPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return first }))
	secondPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return second }))
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Subscribe{Topic: "advert", Subscriber: firstPID}, nil)
	engine.Send(mediatorPID, Subscribe{Topic: "advert", Subscriber: secondPID}, nil)
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Publish{Topic: "advert", Message: testBlurb{Text: "EAT AT JOE'S"}}, nil)
	time.Sleep(100 * time.Millisecond)

	firstReceived, _ := first.Received()
	secondReceived, _ := second.Received()
	require.Len(t, firstReceived, 1)
	require.Len(t, secondReceived, 1)
	assert.Equal(t, "EAT AT JOE'S", firstReceived[0].Text)
	assert.Equal(t, "EAT AT JOE'S", secondReceived[0].Text)
}

func TestPublishPreservesPublisherAsSender(t *testing.T) {
	engine, mediatorPID := setupMediatorTest(t)
	defer engine.Shutdown(1 * time.Second)

	subscriber := &subscriberActor{}
	subscriberPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return subscriber }))
	publisher := &subscriberActor{}
	publisherPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return publisher }))
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Subscribe{Topic: "advert", Subscriber: subscriberPID}, nil)
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Publish{Topic: "advert", Message: testBlurb{Text: "hello"}}, publisherPID)
	time.Sleep(100 * time.Millisecond)

	_, senders := subscriber.Received()
	require.Len(t, senders, 1)
	require.NotNil(t, senders[0])
	assert.Equal(t, publisherPID.ID, senders[0].ID)
}

func TestPublishOnTopicWithoutSubscribersIsDropped(t *testing.T) {
	engine, mediatorPID := setupMediatorTest(t)
	defer engine.Shutdown(1 * time.Second)

	// Must not panic or block.
	engine.Send(mediatorPID, Publish{Topic: "empty", Message: testBlurb{Text: "anyone?"}}, nil)
	time.Sleep(50 * time.Millisecond)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	engine, mediatorPID := setupMediatorTest(t)
	defer engine.Shutdown(1 * time.Second)

	subscriber := &subscriberActor{}
	subscriberPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return subscriber }))
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Subscribe{Topic: "advert", Subscriber: subscriberPID}, nil)
	time.Sleep(50 * time.Millisecond)
	engine.Send(mediatorPID, Unsubscribe{Topic: "advert", Subscriber: subscriberPID}, nil)
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Publish{Topic: "advert", Message: testBlurb{Text: "gone"}}, nil)
	time.Sleep(100 * time.Millisecond)

	received, _ := subscriber.Received()
	assert.Empty(t, received)
}

func TestDuplicateSubscribeDeliversOnce(t *testing.T) {
	engine, mediatorPID := setupMediatorTest(t)
	defer engine.Shutdown(1 * time.Second)

	subscriber := &subscriberActor{}
	subscriberPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return subscriber }))
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Subscribe{Topic: "advert", Subscriber: subscriberPID}, nil)
	engine.Send(mediatorPID, Subscribe{Topic: "advert", Subscriber: subscriberPID}, nil)
	time.Sleep(50 * time.Millisecond)

	engine.Send(mediatorPID, Publish{Topic: "advert", Message: testBlurb{Text: "once"}}, nil)
	time.Sleep(100 * time.Millisecond)

	received, _ := subscriber.Received()
	assert.Len(t, received, 1)
}
