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

package model

import "github.com/shopspring/decimal"

// AccountType identifies a participant ledger account role.
type AccountType string

const (
	AccountTypePosition                 AccountType = "POSITION"
	AccountTypeSettlement               AccountType = "SETTLEMENT"
	AccountTypeHubMultilateralSettlement AccountType = "HUB_MULTILATERAL_SETTLEMENT"
	AccountTypeHubReconciliation        AccountType = "HUB_RECONCILIATION"
)

// IsHubAccountType reports whether the type is reserved for the hub
// participant.
func IsHubAccountType(t AccountType) bool {
	return t == AccountTypeHubMultilateralSettlement || t == AccountTypeHubReconciliation
}

// Account references a ledger account by id. Balances are mirrored from the
// ledger on read paths; they are never computed locally.
type Account struct {
	ID           string      `json:"id" bson:"id"`
	Type         AccountType `json:"type" bson:"type"`
	CurrencyCode string      `json:"currency_code" bson:"currency_code"`

	// Balance snapshot, refreshed from the ledger. Not authoritative here.
	DebitBalance  decimal.Decimal `json:"debit_balance" bson:"debit_balance"`
	CreditBalance decimal.Decimal `json:"credit_balance" bson:"credit_balance"`
	Balance       decimal.Decimal `json:"balance" bson:"balance"`

	// External bank account metadata. Only SETTLEMENT accounts carry it.
	ExternalBankAccountID   string `json:"external_bank_account_id,omitempty" bson:"external_bank_account_id,omitempty"`
	ExternalBankAccountName string `json:"external_bank_account_name,omitempty" bson:"external_bank_account_name,omitempty"`
}
