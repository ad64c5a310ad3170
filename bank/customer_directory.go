// File: bank/customer_directory.go
package bank

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/lguibr/basicbank/pubsub"
	"github.com/lguibr/basicbank/utils"
	"github.com/lguibr/bollywood"
)

// CustomerDirectoryActor is one shard of the customer directory pool. It
// owns the customer-number -> CustomerAccount map for the numbers routed to
// it and supervises the account actors it spawns.
//
// Lookup and list operations block the shard's own receive loop for a
// simulated latency per item, so a shard services at most one Create/Get/List
// at a time. That is the design's stand-in for a slow external dependency.
type CustomerDirectoryActor struct {
	engine      *bollywood.Engine
	cfg         utils.Config
	mediatorPID *bollywood.PID

	customerAccounts map[int]CustomerAccount
	children         map[string]*bollywood.PID // child PID id -> PID
	faultWindows     map[string]*faultWindow   // child PID id -> rolling fault counter
	selfPID          *bollywood.PID
}

// NewCustomerDirectoryProducer creates a producer for one directory shard.
// mediatorPID may be nil when no broadcast topics are wired (tests).
func NewCustomerDirectoryProducer(engine *bollywood.Engine, cfg utils.Config, mediatorPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &CustomerDirectoryActor{
			engine:           engine,
			cfg:              cfg,
			mediatorPID:      mediatorPID,
			customerAccounts: make(map[int]CustomerAccount),
			children:         make(map[string]*bollywood.PID),
			faultWindows:     make(map[string]*faultWindow),
		}
	}
}

// Receive handles directory requests and child supervision for the shard.
func (a *CustomerDirectoryActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			pidStr := "unknown"
			if a.selfPID != nil {
				pidStr = a.selfPID.String()
			}
			fmt.Printf("PANIC recovered in CustomerDirectoryActor %s Receive: %v\nStack trace:\n%s\n", pidStr, r, string(debug.Stack()))
			if ctx.RequestID() != "" {
				ctx.Reply(fmt.Errorf("customer directory panicked: %v", r))
			}
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		if a.mediatorPID != nil {
			ctx.Engine().Send(a.mediatorPID, pubsub.Subscribe{
				Topic:      utils.TopicAccountDirectory,
				Subscriber: a.selfPID,
			}, a.selfPID)
		}

	case CreateCustomerRequest:
		a.handleCreateCustomer(ctx, msg)

	case GetCustomerRequest:
		a.handleGetCustomer(ctx, msg)

	case GetCustomersRequest:
		a.handleGetCustomers(ctx)

	case bollywood.Failure:
		a.handleChildFailure(ctx, msg)

	case bollywood.Stopping:
		fmt.Printf("CustomerDirectoryActor %s: Stopping. Shutting down %d accounts.\n", a.selfPID, len(a.children))
		a.stopAllChildren()

	case bollywood.Stopped:

	default:
		fmt.Printf("CustomerDirectoryActor %s: Received unknown message type: %T\n", a.selfPID, msg)
		if ctx.RequestID() != "" {
			ctx.Reply(fmt.Errorf("unknown message type: %T", msg))
		}
	}
}

// Handler Methods

func (a *CustomerDirectoryActor) handleCreateCustomer(ctx bollywood.Context, msg CreateCustomerRequest) {
	number := msg.Customer.CustomerNumber

	if _, exists := a.customerAccounts[number]; exists {
		a.respond(ctx, GetCustomerResponse{Error: "The account already exists."})
		return
	}

	props := bollywood.NewProps(NewAccountActorProducer(number)).WithSupervisor(a.selfPID)
	accountPID := a.engine.Spawn(props)
	if accountPID == nil {
		fmt.Printf("ERROR: CustomerDirectoryActor %s: Failed to spawn account for customer %d.\n", a.selfPID, number)
		a.respond(ctx, GetCustomerResponse{Error: "The account could not be created."})
		return
	}

	customerAccount := CustomerAccount{Customer: msg.Customer, Account: accountPID}
	a.customerAccounts[number] = customerAccount
	a.children[accountPID.ID] = accountPID

	a.respond(ctx, GetCustomerResponse{OK: true, CustomerAccount: customerAccount})
}

func (a *CustomerDirectoryActor) handleGetCustomer(ctx bollywood.Context, msg GetCustomerRequest) {
	// Pretend that it takes some time to find an account. This deliberately
	// blocks the shard's mailbox: one lookup at a time.
	time.Sleep(a.cfg.LookupDelay)

	if customerAccount, found := a.customerAccounts[msg.CustomerNumber]; found {
		a.respond(ctx, GetCustomerResponse{OK: true, CustomerAccount: customerAccount})
		return
	}

	a.respond(ctx, GetCustomerResponse{Error: "No account found."})
}

func (a *CustomerDirectoryActor) handleGetCustomers(ctx bollywood.Context) {
	if ctx.Sender() == nil {
		return
	}
	// One response per entry, each paying the lookup latency. Entries added
	// mid-iteration may or may not be included; there is no snapshot.
	for _, customerAccount := range a.customerAccounts {
		time.Sleep(a.cfg.LookupDelay)
		a.engine.Send(ctx.Sender(), GetCustomerResponse{OK: true, CustomerAccount: customerAccount}, a.selfPID)
	}
}

// handleChildFailure applies the supervision policy when an account child
// reports a fault: resume negative-balance faults within the budget,
// escalate everything else. Escalation is fatal to this shard, not to the
// rest of the pool.
func (a *CustomerDirectoryActor) handleChildFailure(ctx bollywood.Context, failure bollywood.Failure) {
	if failure.Who == nil {
		return
	}
	childID := failure.Who.ID
	if _, supervised := a.children[childID]; !supervised {
		fmt.Printf("CustomerDirectoryActor %s: Failure from unsupervised actor %s, ignoring.\n", a.selfPID, childID)
		return
	}

	if classifyFault(failure.Reason) == DirectiveResume {
		window, ok := a.faultWindows[childID]
		if !ok {
			window = &faultWindow{}
			a.faultWindows[childID] = window
		}
		count := window.record(time.Now(), a.cfg.FaultWindow)
		if count <= a.cfg.MaxAccountFaults {
			fmt.Printf("CustomerDirectoryActor %s: Resuming account %s after fault %d/%d: %v\n",
				a.selfPID, childID, count, a.cfg.MaxAccountFaults, failure.Reason)
			return
		}
		fmt.Printf("CustomerDirectoryActor %s: Account %s exceeded fault budget (%d in %s). Escalating.\n",
			a.selfPID, childID, count, a.cfg.FaultWindow)
	} else {
		fmt.Printf("CustomerDirectoryActor %s: Unclassified fault from account %s: %v. Escalating.\n",
			a.selfPID, childID, failure.Reason)
	}

	// Escalate: this shard is no longer healthy. Take the children down and
	// stop the shard itself.
	a.stopAllChildren()
	a.engine.Stop(a.selfPID)
}

func (a *CustomerDirectoryActor) stopAllChildren() {
	for _, pid := range a.children {
		a.engine.Stop(pid)
	}
	a.children = make(map[string]*bollywood.PID)
	a.faultWindows = make(map[string]*faultWindow)
}

// respond routes a reply to whoever asked: the pending Ask if there is one,
// otherwise the original sender (possibly several hops upstream, preserved
// by the bank front's forward).
func (a *CustomerDirectoryActor) respond(ctx bollywood.Context, response GetCustomerResponse) {
	if ctx.RequestID() != "" {
		ctx.Reply(response)
		return
	}
	if ctx.Sender() != nil {
		a.engine.Send(ctx.Sender(), response, a.selfPID)
	}
}
