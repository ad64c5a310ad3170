// File: bank/account_actor.go
package bank

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lguibr/bollywood"
)

// AccountActor owns one balance. It is a leaf actor: the balance is mutated
// only by messages delivered through its own mailbox, so mutations for one
// account never interleave.
type AccountActor struct {
	customerNumber int
	balance        int
	selfPID        *bollywood.PID
}

// NewAccountActorProducer creates a Producer for an AccountActor with a zero
// starting balance.
func NewAccountActorProducer(customerNumber int) bollywood.Producer {
	return func() bollywood.Actor {
		return &AccountActor{
			customerNumber: customerNumber,
		}
	}
}

// Receive handles deposit and withdrawal messages for the AccountActor.
func (a *AccountActor) Receive(ctx bollywood.Context) {
	if a.selfPID == nil {
		a.selfPID = ctx.Self()
	}

	switch msg := ctx.Message().(type) {
	case bollywood.Started:

	case DepositMoneyMessage:
		a.balance += msg.Amount
		a.reply(ctx)

	case WithdrawMoneyMessage:
		a.balance -= msg.Amount
		a.reply(ctx)

	case bollywood.Stopping:
	case bollywood.Stopped:

	default:
		fmt.Printf("AccountActor %s (customer %d): Received unknown message type: %T\n", a.selfPID, a.customerNumber, msg)
	}
}

func (a *AccountActor) reply(ctx bollywood.Context) {
	receipt := ReceiptMessage{
		TransactionID: uuid.NewString(),
		Balance:       a.balance,
	}
	if ctx.RequestID() != "" {
		ctx.Reply(receipt)
		return
	}
	if ctx.Sender() != nil {
		ctx.Engine().Send(ctx.Sender(), receipt, a.selfPID)
	}
}
