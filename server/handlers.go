// File: server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/lguibr/basicbank/bank"
	"github.com/lguibr/bollywood"
)

// customerView is the JSON shape returned by the admin endpoints.
type customerView struct {
	CustomerNumber int    `json:"customerNumber"`
	CustomerName   string `json:"customerName"`
	AccountPID     string `json:"accountPid"`
}

// HandleHealth reports gateway liveness.
func (s *Server) HandleHealth() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// HandleCustomers serves the admin API: POST creates a customer, GET looks
// one up. Both go through the bank front via Ask, so the response is the
// shard's own GetCustomerResponse.
func (s *Server) HandleCustomers() func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Printf("PANIC recovered in HandleCustomers: %v\nStack trace:\n%s\n", rec, string(debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		number, err := strconv.Atoi(r.URL.Query().Get("number"))
		if err != nil {
			http.Error(w, `{"error":"number must be an integer"}`, http.StatusBadRequest)
			return
		}

		switch r.Method {
		case http.MethodPost:
			name := r.URL.Query().Get("name")
			if name == "" {
				http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
				return
			}
			request := bank.CreateCustomerRequest{
				Customer: bank.Customer{CustomerNumber: number, CustomerName: name},
			}
			s.askBank(w, request, http.StatusCreated, http.StatusConflict)

		case http.MethodGet:
			s.askBank(w, bank.GetCustomerRequest{CustomerNumber: number}, http.StatusOK, http.StatusNotFound)

		default:
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		}
	}
}

// askBank runs one directory request through the bank front and writes the
// outcome, mapping a rejection to rejectStatus.
func (s *Server) askBank(w http.ResponseWriter, request interface{}, okStatus, rejectStatus int) {
	w.Header().Set("Content-Type", "application/json")

	reply, err := s.engine.Ask(s.bankPID, request, s.askTimeout())
	if err != nil {
		if errors.Is(err, bollywood.ErrTimeout) {
			http.Error(w, `{"error":"bank did not answer in time"}`, http.StatusGatewayTimeout)
			return
		}
		fmt.Printf("askBank: Ask failed: %v\n", err)
		http.Error(w, `{"error":"bank request failed"}`, http.StatusInternalServerError)
		return
	}

	response, ok := reply.(bank.GetCustomerResponse)
	if !ok {
		fmt.Printf("askBank: Unexpected reply type %T\n", reply)
		http.Error(w, `{"error":"unexpected bank reply"}`, http.StatusInternalServerError)
		return
	}

	if !response.OK {
		w.WriteHeader(rejectStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": response.Error})
		return
	}

	view := customerView{
		CustomerNumber: response.CustomerAccount.Customer.CustomerNumber,
		CustomerName:   response.CustomerAccount.Customer.CustomerName,
	}
	if response.CustomerAccount.Account != nil {
		view.AccountPID = response.CustomerAccount.Account.String()
	}
	w.WriteHeader(okStatus)
	_ = json.NewEncoder(w).Encode(view)
}
