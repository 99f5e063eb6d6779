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

// FundsMovementDirection identifies an operator-initiated funds movement.
type FundsMovementDirection string

const (
	FundsMovementDeposit    FundsMovementDirection = "DEPOSIT"
	FundsMovementWithdrawal FundsMovementDirection = "WITHDRAWAL"
)

// FundsMovement is an operator-initiated deposit into or withdrawal from a
// participant's settlement account. TransferID is populated only after the
// ledger posting succeeds on approval.
type FundsMovement struct {
	ID           string                 `json:"id" bson:"id"`
	Direction    FundsMovementDirection `json:"direction" bson:"direction"`
	CurrencyCode string                 `json:"currency_code" bson:"currency_code"`
	Amount       decimal.Decimal        `json:"amount" bson:"amount"`
	Note         string                 `json:"note,omitempty" bson:"note,omitempty"`
	ExtReference string                 `json:"ext_reference,omitempty" bson:"ext_reference,omitempty"`
	CreatedBy    string                 `json:"created_by" bson:"created_by"`
	CreatedDate  int64                  `json:"created_date" bson:"created_date"`
	Approved     bool                   `json:"approved" bson:"approved"`
	ApprovedBy   string                 `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedDate int64                  `json:"approved_date,omitempty" bson:"approved_date,omitempty"`
	TransferID   string                 `json:"transfer_id,omitempty" bson:"transfer_id,omitempty"`
}
