/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ledger is the client boundary to the external double-entry
// accounts-and-balances service. The service owns the accounts; this package
// only moves requests and responses across the wire.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Account is a ledger account as reported by the accounts-and-balances
// service.
type Account struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"owner_id"`
	Type          string          `json:"type"`
	CurrencyCode  string          `json:"currency_code"`
	DebitBalance  decimal.Decimal `json:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
	Balance       decimal.Decimal `json:"balance"`
}

// CreateAccountRequest asks the ledger to open an account for an owner.
type CreateAccountRequest struct {
	RequestedID  string `json:"requested_id"`
	OwnerID      string `json:"owner_id"`
	Type         string `json:"type"`
	CurrencyCode string `json:"currency_code"`
}

// JournalEntryRequest is a single double-entry posting between two accounts.
type JournalEntryRequest struct {
	RequestedID       string          `json:"requested_id"`
	OwnerID           string          `json:"owner_id"`
	CurrencyCode      string          `json:"currency_code"`
	Amount            decimal.Decimal `json:"amount"`
	Pending           bool            `json:"pending"`
	DebitedAccountID  string          `json:"debited_account_id"`
	CreditedAccountID string          `json:"credited_account_id"`
}

// Service is the ledger collaborator contract. CreateJournalEntries is atomic
// and order-preserving: either every posting in the batch lands or none does.
// Calls run under the hub's service identity; SetToken replaces that identity
// when the service token rotates.
type Service interface {
	SetToken(accessToken string)
	CreateAccount(ctx context.Context, req CreateAccountRequest) (string, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetAccounts(ctx context.Context, ids []string) ([]*Account, error)
	CreateJournalEntry(ctx context.Context, req JournalEntryRequest) (string, error)
	CreateJournalEntries(ctx context.Context, reqs []JournalEntryRequest) ([]string, error)
}
