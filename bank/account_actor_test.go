// File: bank/account_actor_test.go
package bank

import (
	"sync"
	"testing"
	"time"

	"github.com/lguibr/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receiptCollector records every receipt it is sent.
type receiptCollector struct {
	mu       sync.Mutex
	receipts []ReceiptMessage
}

func (c *receiptCollector) Receive(ctx bollywood.Context) {
	if receipt, ok := ctx.Message().(ReceiptMessage); ok {
		c.mu.Lock()
		c.receipts = append(c.receipts, receipt)
		c.mu.Unlock()
	}
}

func (c *receiptCollector) Receipts() []ReceiptMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	receipts := make([]ReceiptMessage, len(c.receipts))
	copy(receipts, c.receipts)
	return receipts
}

func TestAccountBalanceIsSumOfSignedAmounts(t *testing.T) {
	engine := bollywood.NewEngine()
	defer engine.Shutdown(1 * time.Second)

	accountPID := engine.Spawn(bollywood.NewProps(NewAccountActorProducer(7)))
	require.NotNil(t, accountPID)

	reply, err := engine.Ask(accountPID, DepositMoneyMessage{Amount: 50}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 50, reply.(ReceiptMessage).Balance)

	reply, err = engine.Ask(accountPID, WithdrawMoneyMessage{Amount: 20}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 30, reply.(ReceiptMessage).Balance)

	reply, err = engine.Ask(accountPID, DepositMoneyMessage{Amount: 5}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 35, reply.(ReceiptMessage).Balance)
}

func TestAccountWithdrawalMayGoNegative(t *testing.T) {
	engine := bollywood.NewEngine()
	defer engine.Shutdown(1 * time.Second)

	accountPID := engine.Spawn(bollywood.NewProps(NewAccountActorProducer(13)))
	require.NotNil(t, accountPID)

	// No minimum-balance enforcement: this must succeed, not fault.
	reply, err := engine.Ask(accountPID, WithdrawMoneyMessage{Amount: 100}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, -100, reply.(ReceiptMessage).Balance)
}

func TestAccountRepliesToSenderWithUniqueTransactionIDs(t *testing.T) {
	engine := bollywood.NewEngine()
	defer engine.Shutdown(1 * time.Second)

	collector := &receiptCollector{}
	collectorPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return collector }))
	accountPID := engine.Spawn(bollywood.NewProps(NewAccountActorProducer(42)))
	require.NotNil(t, collectorPID)
	require.NotNil(t, accountPID)
	time.Sleep(50 * time.Millisecond)

	engine.Send(accountPID, DepositMoneyMessage{Amount: 10}, collectorPID)
	engine.Send(accountPID, DepositMoneyMessage{Amount: 10}, collectorPID)
	time.Sleep(100 * time.Millisecond)

	receipts := collector.Receipts()
	require.Len(t, receipts, 2)
	assert.Equal(t, 10, receipts[0].Balance)
	assert.Equal(t, 20, receipts[1].Balance)
	assert.NotEmpty(t, receipts[0].TransactionID)
	assert.NotEqual(t, receipts[0].TransactionID, receipts[1].TransactionID)
}
