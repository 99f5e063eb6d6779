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

// NdcType identifies how a net debit cap is derived.
type NdcType string

const (
	NdcTypeAbsolute   NdcType = "ABSOLUTE"
	NdcTypePercentage NdcType = "PERCENTAGE"
)

// NetDebitCap is a participant's debit ceiling for one currency. There is at
// most one per (participant, currency). CurrentValue is derived by the
// calculator; it is never hand-edited outside the approval and recalculation
// paths.
type NetDebitCap struct {
	CurrencyCode string           `json:"currency_code" bson:"currency_code"`
	Type         NdcType          `json:"type" bson:"type"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty" bson:"percentage,omitempty"`
	FixedValue   *decimal.Decimal `json:"fixed_value,omitempty" bson:"fixed_value,omitempty"`
	CurrentValue decimal.Decimal  `json:"current_value" bson:"current_value"`
}
