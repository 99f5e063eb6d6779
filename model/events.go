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

// ParticipantChangedEvent is the domain event emitted after every successful
// mutating action, consumed by downstream subscribers.
type ParticipantChangedEvent struct {
	ParticipantID string `json:"participant_id"`
	ActionName    string `json:"action_name"`
}

// SettlementParticipantEntry is one participant's settled outcome inside a
// settlement matrix.
type SettlementParticipantEntry struct {
	ParticipantID        string `json:"participant_id"`
	CurrencyCode         string `json:"currency_code"`
	SettledCreditBalance string `json:"settled_credit_balance"`
	SettledDebitBalance  string `json:"settled_debit_balance"`
}

// SettlementMatrixSettledEvent is the inbound notification that a settlement
// matrix has been settled by the hub and its outcomes must be applied to the
// participants' ledger accounts.
type SettlementMatrixSettledEvent struct {
	SettlementMatrixID string                       `json:"settlement_matrix_id"`
	SettledTimestamp   int64                        `json:"settled_timestamp"`
	ParticipantList    []SettlementParticipantEntry `json:"participant_list"`
}
