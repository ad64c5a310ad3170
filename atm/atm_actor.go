// File: atm/atm_actor.go
package atm

import (
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/lguibr/basicbank/bank"
	"github.com/lguibr/basicbank/pubsub"
	"github.com/lguibr/basicbank/utils"
	"github.com/lguibr/bollywood"
)

// sessionState is the ATM state machine's tagged state. Exactly one is
// active at a time; every transition happens inside Receive.
type sessionState int

const (
	stateAwaitingBank sessionState = iota
	stateAwaitingCustomerNumber
	stateAwaitingCustomer
	stateMainMenu
	stateAwaitingWithdrawal
	stateAwaitingDeposit
	stateAwaitingReceipt
)

func (s sessionState) String() string {
	switch s {
	case stateAwaitingBank:
		return "AwaitingBank"
	case stateAwaitingCustomerNumber:
		return "AwaitingCustomerNumber"
	case stateAwaitingCustomer:
		return "AwaitingCustomer"
	case stateMainMenu:
		return "MainMenu"
	case stateAwaitingWithdrawal:
		return "AwaitingWithdrawal"
	case stateAwaitingDeposit:
		return "AwaitingDeposit"
	case stateAwaitingReceipt:
		return "AwaitingReceipt"
	}
	return "Unknown"
}

// AtmActor drives one user's session end-to-end: identify the customer,
// choose a transaction, wait for the receipt, reset. It cycles forever; a
// session ends by completing, timing out, or failing a lookup, and the
// machine returns to waiting for the next customer number.
//
// The receipt timer is one-shot and unguarded: it is not cancelled when a
// receipt arrives first, and a receipt is not suppressed when the timer won
// the race. Whichever event finds the session already reset is ignored by
// the state check in its handler.
type AtmActor struct {
	cfg         utils.Config
	consolePID  *bollywood.PID
	mediatorPID *bollywood.PID

	state           sessionState
	bankPID         *bollywood.PID
	customerAccount *bank.CustomerAccount
	selfPID         *bollywood.PID
}

// NewAtmActorProducer creates a producer for an AtmActor wired to a console.
// mediatorPID may be nil when no advert topic is wired (tests).
func NewAtmActorProducer(cfg utils.Config, consolePID *bollywood.PID, mediatorPID *bollywood.PID) bollywood.Producer {
	return func() bollywood.Actor {
		return &AtmActor{
			cfg:         cfg,
			consolePID:  consolePID,
			mediatorPID: mediatorPID,
			state:       stateAwaitingBank,
		}
	}
}

// Receive dispatches on (message kind, current state).
func (a *AtmActor) Receive(ctx bollywood.Context) {
	defer func() {
		if r := recover(); r != nil {
			pidStr := "unknown"
			if a.selfPID != nil {
				pidStr = a.selfPID.String()
			}
			fmt.Printf("PANIC recovered in AtmActor %s Receive: %v\nStack trace:\n%s\n", pidStr, r, string(debug.Stack()))
		}
	}()

	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:
		if a.mediatorPID != nil {
			ctx.Engine().Send(a.mediatorPID, pubsub.Subscribe{
				Topic:      utils.TopicAdverts,
				Subscriber: a.selfPID,
			}, a.selfPID)
		}

	case BankReadyMessage:
		a.handleBankReady(ctx, msg)

	case ConsoleInputMessage:
		a.handleConsoleInput(ctx, msg)

	case AdvertisementMessage:
		a.handleAdvertisement(ctx, msg)

	case bank.GetCustomerResponse:
		a.handleCustomerResponse(ctx, msg)

	case bank.ReceiptMessage:
		a.handleReceipt(ctx, msg)

	case receiptTimedOutMessage:
		a.handleReceiptTimedOut(ctx)

	case bollywood.Stopping:
		if a.mediatorPID != nil {
			ctx.Engine().Send(a.mediatorPID, pubsub.Unsubscribe{
				Topic:      utils.TopicAdverts,
				Subscriber: a.selfPID,
			}, a.selfPID)
		}

	case bollywood.Stopped:

	default:
		fmt.Printf("AtmActor %s: Received unknown message type: %T\n", a.selfPID, msg)
	}
}

// Handler Methods

func (a *AtmActor) handleBankReady(ctx bollywood.Context, msg BankReadyMessage) {
	if a.state != stateAwaitingBank || msg.Bank == nil {
		return
	}
	a.bankPID = msg.Bank
	a.state = stateAwaitingCustomerNumber
	a.tellConsole(ctx, makeWelcomeScreen(""))
}

// handleConsoleInput routes a line of input by the current state. Input in a
// state with no console handler is the generic unexpected-input case: beep,
// no transition.
func (a *AtmActor) handleConsoleInput(ctx bollywood.Context, msg ConsoleInputMessage) {
	switch a.state {
	case stateAwaitingCustomerNumber:
		a.handleCustomerNumberInput(ctx, msg)
	case stateMainMenu:
		a.handleMainMenuInput(ctx, msg)
	case stateAwaitingWithdrawal:
		a.handleAmountInput(ctx, msg, false)
	case stateAwaitingDeposit:
		a.handleAmountInput(ctx, msg, true)
	default:
		a.tellConsole(ctx, "BEEP BEEP BEEP. UNEXPECTED CONSOLE INPUT!")
	}
}

func (a *AtmActor) handleCustomerNumberInput(ctx bollywood.Context, msg ConsoleInputMessage) {
	customerNumber, err := strconv.Atoi(msg.Input)
	if err != nil {
		a.tellConsole(ctx, "That's not an account number! Try again:")
		return
	}

	ctx.Engine().Send(a.bankPID, bank.GetCustomerRequest{CustomerNumber: customerNumber}, a.selfPID)
	a.tellConsole(ctx, "Please wait.. taking to the bank.\n")
	a.state = stateAwaitingCustomer
}

func (a *AtmActor) handleAdvertisement(ctx bollywood.Context, msg AdvertisementMessage) {
	// Ads only interrupt the idle welcome screen. Mid-session they produce
	// no output and no state change.
	if a.state != stateAwaitingCustomerNumber {
		return
	}
	a.tellConsole(ctx, makeWelcomeScreen(msg.Blurb))
}

func (a *AtmActor) handleCustomerResponse(ctx bollywood.Context, msg bank.GetCustomerResponse) {
	if a.state != stateAwaitingCustomer {
		return
	}

	if msg.OK {
		customerAccount := msg.CustomerAccount
		a.customerAccount = &customerAccount
		a.state = stateMainMenu
		a.tellConsole(ctx, makeMainMenuScreen(customerAccount.Customer.CustomerName))
		return
	}

	a.tellConsole(ctx, "Unknown account!")
	a.state = stateAwaitingCustomerNumber
	a.scheduleWelcome(ctx)
}

func (a *AtmActor) handleMainMenuInput(ctx bollywood.Context, msg ConsoleInputMessage) {
	switch msg.Input {
	case "w":
		a.state = stateAwaitingWithdrawal
		a.tellConsole(ctx, ConsoleOutputMessage{Text: withdrawalScreen, Clear: true})

	case "d":
		a.state = stateAwaitingDeposit
		a.tellConsole(ctx, ConsoleOutputMessage{Text: depositScreen, Clear: true})

	default:
		a.tellConsole(ctx, makeMainMenuScreen(a.customerAccount.Customer.CustomerName))
		a.tellConsole(ctx, "What!? Try again...")
	}
}

func (a *AtmActor) handleAmountInput(ctx bollywood.Context, msg ConsoleInputMessage, deposit bool) {
	amount, err := strconv.Atoi(msg.Input)
	if err != nil {
		a.tellConsole(ctx, "That's not money! Try again:")
		return
	}

	if deposit {
		ctx.Engine().Send(a.customerAccount.Account, bank.DepositMoneyMessage{Amount: amount}, a.selfPID)
	} else {
		ctx.Engine().Send(a.customerAccount.Account, bank.WithdrawMoneyMessage{Amount: amount}, a.selfPID)
	}
	a.tellConsole(ctx, "Please wait.. taking to the bank.\n")

	engine := ctx.Engine()
	selfPID := a.selfPID
	time.AfterFunc(a.cfg.ReceiptTimeout, func() {
		engine.Send(selfPID, receiptTimedOutMessage{}, nil)
	})

	a.state = stateAwaitingReceipt
}

func (a *AtmActor) handleReceipt(ctx bollywood.Context, msg bank.ReceiptMessage) {
	// A receipt that lost the race against the timeout finds the session
	// already cleared and is dropped here.
	if a.state != stateAwaitingReceipt {
		return
	}

	a.tellConsole(ctx, "Your transaction is complete!...\n")
	a.tellConsole(ctx, fmt.Sprintf("The balance of your account is: $%d\n", msg.Balance))
	a.tellConsole(ctx, fmt.Sprintf("Transaction reference: %s\n", msg.TransactionID))

	a.customerAccount = nil
	a.state = stateAwaitingCustomerNumber
	a.scheduleWelcome(ctx)
}

func (a *AtmActor) handleReceiptTimedOut(ctx bollywood.Context) {
	// The timer from an already-completed transaction finds the session
	// cleared and is dropped here.
	if a.state != stateAwaitingReceipt {
		return
	}

	fmt.Printf("AtmActor %s: Receipt timed out, resetting session.\n", a.selfPID)
	a.customerAccount = nil
	a.state = stateAwaitingCustomerNumber
	a.tellConsole(ctx, makeWelcomeScreen(""))
}

// scheduleWelcome re-renders the welcome screen after the configured delay.
// The render goes straight to the console; the ATM state already moved on.
func (a *AtmActor) scheduleWelcome(ctx bollywood.Context) {
	engine := ctx.Engine()
	consolePID := a.consolePID
	selfPID := a.selfPID
	time.AfterFunc(a.cfg.WelcomeDelay, func() {
		engine.Send(consolePID, makeWelcomeScreen(""), selfPID)
	})
}

func (a *AtmActor) tellConsole(ctx bollywood.Context, msg interface{}) {
	ctx.Engine().Send(a.consolePID, msg, a.selfPID)
}
