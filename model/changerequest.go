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

// RequestType distinguishes a request that adds a new record from one that
// changes an existing record.
type RequestType string

const (
	RequestTypeAdd    RequestType = "ADD"
	RequestTypeChange RequestType = "CHANGE"
)

// ChangeRequest is the generic maker-checker envelope shared by every
// change-request category. A request is approved at most once and approval is
// terminal; the approver must differ from the creator.
type ChangeRequest[P any] struct {
	ID           string      `json:"id" bson:"id"`
	RequestType  RequestType `json:"request_type" bson:"request_type"`
	Payload      P           `json:"payload" bson:"payload"`
	CreatedBy    string      `json:"created_by" bson:"created_by"`
	CreatedDate  int64       `json:"created_date" bson:"created_date"`
	Approved     bool        `json:"approved" bson:"approved"`
	ApprovedBy   string      `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedDate int64       `json:"approved_date,omitempty" bson:"approved_date,omitempty"`
}

// AccountChange is the payload of an account change request.
type AccountChange struct {
	// AccountID is the target account for CHANGE requests; empty for ADD.
	AccountID               string      `json:"account_id,omitempty" bson:"account_id,omitempty"`
	Type                    AccountType `json:"type" bson:"type"`
	CurrencyCode            string      `json:"currency_code" bson:"currency_code"`
	ExternalBankAccountID   string      `json:"external_bank_account_id,omitempty" bson:"external_bank_account_id,omitempty"`
	ExternalBankAccountName string      `json:"external_bank_account_name,omitempty" bson:"external_bank_account_name,omitempty"`
}

// SourceIPChange is the payload of a source IP change request.
type SourceIPChange struct {
	SourceIPID    string   `json:"source_ip_id,omitempty" bson:"source_ip_id,omitempty"`
	CIDR          string   `json:"cidr" bson:"cidr"`
	PortMode      PortMode `json:"port_mode" bson:"port_mode"`
	Ports         []uint16 `json:"ports,omitempty" bson:"ports,omitempty"`
	PortRangeFrom uint16   `json:"port_range_from,omitempty" bson:"port_range_from,omitempty"`
	PortRangeTo   uint16   `json:"port_range_to,omitempty" bson:"port_range_to,omitempty"`
}

// ContactInfoChange is the payload of a contact-info change request.
type ContactInfoChange struct {
	ContactID   string `json:"contact_id,omitempty" bson:"contact_id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phone_number" bson:"phone_number"`
	Role        string `json:"role" bson:"role"`
}

// NdcChange is the payload of a net-debit-cap change request. FixedValue is
// required for ABSOLUTE caps, Percentage for PERCENTAGE caps.
type NdcChange struct {
	CurrencyCode string           `json:"currency_code" bson:"currency_code"`
	Type         NdcType          `json:"type" bson:"type"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty" bson:"percentage,omitempty"`
	FixedValue   *decimal.Decimal `json:"fixed_value,omitempty" bson:"fixed_value,omitempty"`
}
