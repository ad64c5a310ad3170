// File: bank/customer_directory_test.go
package bank

import (
	"sync"
	"testing"
	"time"

	"github.com/lguibr/basicbank/pubsub"
	"github.com/lguibr/basicbank/utils"
	"github.com/lguibr/bollywood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// responseCollector records directory responses sent to it.
type responseCollector struct {
	mu        sync.Mutex
	responses []GetCustomerResponse
}

func (c *responseCollector) Receive(ctx bollywood.Context) {
	if response, ok := ctx.Message().(GetCustomerResponse); ok {
		c.mu.Lock()
		c.responses = append(c.responses, response)
		c.mu.Unlock()
	}
}

func (c *responseCollector) Responses() []GetCustomerResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	responses := make([]GetCustomerResponse, len(c.responses))
	copy(responses, c.responses)
	return responses
}

func setupDirectoryTest(t *testing.T) (*bollywood.Engine, *bollywood.PID) {
	t.Helper()
	engine := bollywood.NewEngine()
	cfg := utils.TestConfig()

	shardPID := engine.Spawn(bollywood.NewProps(NewCustomerDirectoryProducer(engine, cfg, nil)))
	require.NotNil(t, shardPID)
	time.Sleep(50 * time.Millisecond)
	return engine, shardPID
}

func TestCreateCustomerThenDuplicateIsRejected(t *testing.T) {
	engine, shardPID := setupDirectoryTest(t)
	defer engine.Shutdown(1 * time.Second)

	customer := Customer{CustomerNumber: 7, CustomerName: "Buck Rogers"}

	reply, err := engine.Ask(shardPID, CreateCustomerRequest{Customer: customer}, time.Second)
	require.NoError(t, err)
	first := reply.(GetCustomerResponse)
	require.True(t, first.OK)
	assert.Equal(t, customer, first.CustomerAccount.Customer)
	require.NotNil(t, first.CustomerAccount.Account)

	reply, err = engine.Ask(shardPID, CreateCustomerRequest{Customer: customer}, time.Second)
	require.NoError(t, err)
	second := reply.(GetCustomerResponse)
	assert.False(t, second.OK)
	assert.Equal(t, "The account already exists.", second.Error)
	assert.Nil(t, second.CustomerAccount.Account)
}

func TestGetCustomerUnknownNumberIsNotFound(t *testing.T) {
	engine, shardPID := setupDirectoryTest(t)
	defer engine.Shutdown(1 * time.Second)

	reply, err := engine.Ask(shardPID, GetCustomerRequest{CustomerNumber: 999}, time.Second)
	require.NoError(t, err)
	response := reply.(GetCustomerResponse)
	assert.False(t, response.OK)
	assert.Equal(t, "No account found.", response.Error)
}

func TestGetCustomerReturnsStoredAccount(t *testing.T) {
	engine, shardPID := setupDirectoryTest(t)
	defer engine.Shutdown(1 * time.Second)

	customer := Customer{CustomerNumber: 13, CustomerName: "Wilma Deering"}
	reply, err := engine.Ask(shardPID, CreateCustomerRequest{Customer: customer}, time.Second)
	require.NoError(t, err)
	created := reply.(GetCustomerResponse)
	require.True(t, created.OK)

	reply, err = engine.Ask(shardPID, GetCustomerRequest{CustomerNumber: 13}, time.Second)
	require.NoError(t, err)
	found := reply.(GetCustomerResponse)
	require.True(t, found.OK)
	assert.Equal(t, customer, found.CustomerAccount.Customer)
	assert.Equal(t, created.CustomerAccount.Account.ID, found.CustomerAccount.Account.ID)
}

func TestGetCustomersStreamsOneResponsePerEntry(t *testing.T) {
	engine, shardPID := setupDirectoryTest(t)
	defer engine.Shutdown(1 * time.Second)

	for i := 1; i <= 3; i++ {
		_, err := engine.Ask(shardPID, CreateCustomerRequest{
			Customer: Customer{CustomerNumber: i, CustomerName: "Customer"},
		}, time.Second)
		require.NoError(t, err)
	}

	collector := &responseCollector{}
	collectorPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return collector }))
	require.NotNil(t, collectorPID)
	time.Sleep(50 * time.Millisecond)

	engine.Send(shardPID, GetCustomersRequest{}, collectorPID)
	time.Sleep(300 * time.Millisecond) // Three entries, one lookup delay each

	responses := collector.Responses()
	require.Len(t, responses, 3)
	numbers := map[int]bool{}
	for _, response := range responses {
		assert.True(t, response.OK)
		numbers[response.CustomerAccount.Customer.CustomerNumber] = true
	}
	assert.Len(t, numbers, 3)
}

func TestDirectoryAnswersRequestsPublishedOnTopic(t *testing.T) {
	engine := bollywood.NewEngine()
	defer engine.Shutdown(1 * time.Second)
	cfg := utils.TestConfig()

	mediatorPID := engine.Spawn(bollywood.NewProps(pubsub.NewMediatorProducer()))
	shardPID := engine.Spawn(bollywood.NewProps(NewCustomerDirectoryProducer(engine, cfg, mediatorPID)))
	require.NotNil(t, mediatorPID)
	require.NotNil(t, shardPID)
	time.Sleep(50 * time.Millisecond) // Let the shard subscribe

	_, err := engine.Ask(shardPID, CreateCustomerRequest{
		Customer: Customer{CustomerNumber: 7, CustomerName: "Buck Rogers"},
	}, time.Second)
	require.NoError(t, err)

	collector := &responseCollector{}
	collectorPID := engine.Spawn(bollywood.NewProps(func() bollywood.Actor { return collector }))
	require.NotNil(t, collectorPID)
	time.Sleep(50 * time.Millisecond)

	// The mediator preserves the publisher as sender, so the shard streams
	// its entries straight back to the collector.
	engine.Send(mediatorPID, pubsub.Publish{
		Topic:   utils.TopicAccountDirectory,
		Message: GetCustomersRequest{},
	}, collectorPID)
	time.Sleep(200 * time.Millisecond)

	responses := collector.Responses()
	require.Len(t, responses, 1)
	assert.Equal(t, 7, responses[0].CustomerAccount.Customer.CustomerNumber)
}

func TestShardResumesAccountOnNegativeBalanceFault(t *testing.T) {
	engine, shardPID := setupDirectoryTest(t)
	defer engine.Shutdown(1 * time.Second)

	reply, err := engine.Ask(shardPID, CreateCustomerRequest{
		Customer: Customer{CustomerNumber: 7, CustomerName: "Buck Rogers"},
	}, time.Second)
	require.NoError(t, err)
	created := reply.(GetCustomerResponse)
	require.True(t, created.OK)
	accountPID := created.CustomerAccount.Account

	engine.Send(shardPID, bollywood.Failure{
		Who:    accountPID,
		Reason: NegativeBalanceError{CustomerNumber: 7, Balance: -1},
	}, accountPID)
	time.Sleep(50 * time.Millisecond)

	// Shard and account both survive a resumable fault.
	reply, err = engine.Ask(shardPID, GetCustomerRequest{CustomerNumber: 7}, time.Second)
	require.NoError(t, err)
	assert.True(t, reply.(GetCustomerResponse).OK)

	receipt, err := engine.Ask(accountPID, DepositMoneyMessage{Amount: 10}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 10, receipt.(ReceiptMessage).Balance)
}

func TestShardEscalatesUnclassifiedFault(t *testing.T) {
	engine, shardPID := setupDirectoryTest(t)
	defer engine.Shutdown(1 * time.Second)

	reply, err := engine.Ask(shardPID, CreateCustomerRequest{
		Customer: Customer{CustomerNumber: 7, CustomerName: "Buck Rogers"},
	}, time.Second)
	require.NoError(t, err)
	created := reply.(GetCustomerResponse)
	require.True(t, created.OK)

	engine.Send(shardPID, bollywood.Failure{
		Who:    created.CustomerAccount.Account,
		Reason: "unexpected explosion",
	}, created.CustomerAccount.Account)
	time.Sleep(200 * time.Millisecond)

	// The shard failed fast: it no longer answers.
	_, err = engine.Ask(shardPID, GetCustomerRequest{CustomerNumber: 7}, 300*time.Millisecond)
	assert.Error(t, err)
}

func TestShardEscalatesAfterFaultBudgetExhausted(t *testing.T) {
	engine := bollywood.NewEngine()
	defer engine.Shutdown(1 * time.Second)
	cfg := utils.TestConfig()
	cfg.MaxAccountFaults = 3

	shardPID := engine.Spawn(bollywood.NewProps(NewCustomerDirectoryProducer(engine, cfg, nil)))
	require.NotNil(t, shardPID)
	time.Sleep(50 * time.Millisecond)

	reply, err := engine.Ask(shardPID, CreateCustomerRequest{
		Customer: Customer{CustomerNumber: 7, CustomerName: "Buck Rogers"},
	}, time.Second)
	require.NoError(t, err)
	accountPID := reply.(GetCustomerResponse).CustomerAccount.Account

	for i := 0; i < cfg.MaxAccountFaults+1; i++ {
		engine.Send(shardPID, bollywood.Failure{
			Who:    accountPID,
			Reason: NegativeBalanceError{CustomerNumber: 7, Balance: -1},
		}, accountPID)
	}
	time.Sleep(200 * time.Millisecond)

	// Chronic faults exceed the rolling budget and fail the shard.
	_, err = engine.Ask(shardPID, GetCustomerRequest{CustomerNumber: 7}, 300*time.Millisecond)
	assert.Error(t, err)
}
