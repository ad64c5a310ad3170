// File: bank/customer.go
package bank

import "github.com/lguibr/bollywood"

// Customer is an immutable identity record. The customer number is the
// unique key every directory operation routes on.
type Customer struct {
	CustomerNumber int    `json:"customerNumber"`
	CustomerName   string `json:"customerName"`
}

// CustomerAccount pairs a customer identity with its account ledger actor.
// The reference is non-owning: the directory shard that created the account
// owns its lifecycle.
type CustomerAccount struct {
	Customer Customer       `json:"customer"`
	Account  *bollywood.PID `json:"-"`
}
