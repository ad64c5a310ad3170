// File: bank/messages.go
package bank

// --- Directory Messages (callers <-> BankActor <-> directory shards) ---

// CreateCustomerRequest registers a new customer and opens an account with a
// zero balance. Rejected if the customer number is already registered.
type CreateCustomerRequest struct {
	Customer Customer
}

// GetCustomerRequest looks a customer up by number.
type GetCustomerRequest struct {
	CustomerNumber int
}

// GetCustomersRequest asks for every stored customer account. Published on
// the account-directory topic so each shard streams its own entries, one
// GetCustomerResponse per entry. No snapshot guarantee.
type GetCustomersRequest struct{}

// GetCustomerResponse answers create and lookup requests. Either OK with the
// customer account, or an error description.
type GetCustomerResponse struct {
	OK              bool
	CustomerAccount CustomerAccount
	Error           string
}

// --- Account Messages (callers <-> AccountActor) ---

// DepositMoneyMessage adds the amount to the account balance.
type DepositMoneyMessage struct {
	Amount int
}

// WithdrawMoneyMessage subtracts the amount from the account balance. No
// minimum-balance check: the balance may go negative.
type WithdrawMoneyMessage struct {
	Amount int
}

// ReceiptMessage confirms a completed deposit or withdrawal.
type ReceiptMessage struct {
	TransactionID string
	Balance       int
}
