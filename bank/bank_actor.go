// File: bank/bank_actor.go
package bank

import (
	"fmt"
	"runtime/debug"

	"github.com/lguibr/basicbank/utils"
	"github.com/lguibr/bollywood"
)

// BankActor is the stateless front of the customer directory. It spawns the
// shard pool and forwards every directory request to the shard owning the
// request's customer number, preserving the original sender so replies skip
// this actor entirely. Callers never see the sharding.
type BankActor struct {
	engine      *bollywood.Engine
	cfg         utils.Config
	mediatorPID *bollywood.PID
	shards      []*bollywood.PID
	selfPID     *bollywood.PID
}

// NewBankActorProducer creates a producer for the BankActor.
func NewBankActorProducer(engine *bollywood.Engine, cfg utils.Config, mediatorPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &BankActor{
			engine:      engine,
			cfg:         cfg,
			mediatorPID: mediatorPID,
		}
	}
}

// Receive handles messages for the BankActor.
func (a *BankActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			pidStr := "unknown"
			if a.selfPID != nil {
				pidStr = a.selfPID.String()
			}
			fmt.Printf("PANIC recovered in BankActor %s Receive: %v\nStack trace:\n%s\n", pidStr, r, string(debug.Stack()))
			if ctx.RequestID() != "" {
				ctx.Reply(fmt.Errorf("bank panicked: %v", r))
			}
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		a.spawnShards()
		fmt.Printf("BankActor %s: Started with %d directory shards.\n", a.selfPID, len(a.shards))

	case CreateCustomerRequest:
		a.forwardToShard(ctx, msg.Customer.CustomerNumber)

	case GetCustomerRequest:
		a.forwardToShard(ctx, msg.CustomerNumber)

	case bollywood.Stopping:
		fmt.Printf("BankActor %s: Stopping. Shutting down %d shards.\n", a.selfPID, len(a.shards))
		for _, shard := range a.shards {
			a.engine.Stop(shard)
		}
		a.shards = nil

	case bollywood.Stopped:

	default:
		fmt.Printf("BankActor %s: Received unknown message type: %T\n", a.selfPID, msg)
		if ctx.RequestID() != "" {
			ctx.Reply(fmt.Errorf("unknown message type: %T", msg))
		}
	}
}

func (a *BankActor) spawnShards() {
	shardCount := a.cfg.ShardCount
	if shardCount < 1 {
		shardCount = 1
	}
	a.shards = make([]*bollywood.PID, 0, shardCount)
	for i := 0; i < shardCount; i++ {
		props := bollywood.NewProps(NewCustomerDirectoryProducer(a.engine, a.cfg, a.mediatorPID))
		shardPID := a.engine.Spawn(props)
		if shardPID == nil {
			fmt.Printf("ERROR: BankActor %s: Failed to spawn directory shard %d.\n", a.selfPID, i)
			continue
		}
		a.shards = append(a.shards, shardPID)
	}
}

// forwardToShard routes by the customer number, never by anything derived
// from the message itself, so create and lookup for the same customer always
// land on the same shard.
func (a *BankActor) forwardToShard(ctx bollywood.Context, customerNumber int) {
	if len(a.shards) == 0 {
		if ctx.RequestID() != "" {
			ctx.Reply(fmt.Errorf("bank has no directory shards"))
			return
		}
		if ctx.Sender() != nil {
			a.engine.Send(ctx.Sender(), GetCustomerResponse{Error: "The bank is unavailable."}, a.selfPID)
		}
		return
	}
	shard := a.shards[ShardForCustomer(customerNumber, len(a.shards))]
	a.engine.Forward(shard, ctx)
}
