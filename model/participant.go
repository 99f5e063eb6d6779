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

// ParticipantType distinguishes regular participants from the single
// system-reserved hub participant.
type ParticipantType string

const (
	ParticipantTypeRegular ParticipantType = "REGULAR"
	ParticipantTypeHub     ParticipantType = "HUB"
)

// ChangeAction identifies an entry in a participant's append-only change log.
type ChangeAction string

const (
	ChangeActionCreate                   ChangeAction = "CREATE"
	ChangeActionApprove                  ChangeAction = "APPROVE"
	ChangeActionActivate                 ChangeAction = "ACTIVATE"
	ChangeActionDeactivate               ChangeAction = "DEACTIVATE"
	ChangeActionAddAccount               ChangeAction = "ADD_ACCOUNT"
	ChangeActionChangeAccountBankDetails ChangeAction = "CHANGE_ACCOUNT_BANK_DETAILS"
	ChangeActionAddAccountRequest        ChangeAction = "ADD_ACCOUNT_CHANGE_REQUEST"
	ChangeActionApproveAccountRequest    ChangeAction = "APPROVE_ACCOUNT_CHANGE_REQUEST"
	ChangeActionAddEndpoint              ChangeAction = "ADD_ENDPOINT"
	ChangeActionChangeEndpoint           ChangeAction = "CHANGE_ENDPOINT"
	ChangeActionRemoveEndpoint           ChangeAction = "REMOVE_ENDPOINT"
	ChangeActionAddSourceIP              ChangeAction = "ADD_SOURCE_IP"
	ChangeActionChangeSourceIP           ChangeAction = "CHANGE_SOURCE_IP"
	ChangeActionAddSourceIPRequest       ChangeAction = "ADD_SOURCE_IP_CHANGE_REQUEST"
	ChangeActionApproveSourceIPRequest   ChangeAction = "APPROVE_SOURCE_IP_CHANGE_REQUEST"
	ChangeActionAddContactInfo           ChangeAction = "ADD_CONTACT_INFO"
	ChangeActionChangeContactInfo        ChangeAction = "CHANGE_CONTACT_INFO"
	ChangeActionAddContactInfoRequest    ChangeAction = "ADD_CONTACT_INFO_CHANGE_REQUEST"
	ChangeActionApproveContactInfoReq    ChangeAction = "APPROVE_CONTACT_INFO_CHANGE_REQUEST"
	ChangeActionAddNdc                   ChangeAction = "ADD_NDC"
	ChangeActionChangeNdc                ChangeAction = "CHANGE_NDC"
	ChangeActionAddNdcRequest            ChangeAction = "ADD_NDC_CHANGE_REQUEST"
	ChangeActionApproveNdcRequest        ChangeAction = "APPROVE_NDC_CHANGE_REQUEST"
	ChangeActionCreateFundsMovement      ChangeAction = "CREATE_FUNDS_MOVEMENT"
	ChangeActionApproveFundsMovement     ChangeAction = "APPROVE_FUNDS_MOVEMENT"
	ChangeActionNdcRecalculated          ChangeAction = "NDC_RECALCULATED"
)

// ChangeLogEntry is one timestamped action in a participant's change log.
// Timestamps are unix milliseconds; entries are kept newest-first.
type ChangeLogEntry struct {
	ChangeType ChangeAction `json:"change_type" bson:"change_type"`
	User       string       `json:"user" bson:"user"`
	Timestamp  int64        `json:"timestamp" bson:"timestamp"`
	Notes      string       `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Endpoint is a participant-facing API endpoint. Endpoints mutate directly,
// without the change-request indirection used by the other sub-entities.
type Endpoint struct {
	ID       string `json:"id" bson:"id"`
	Type     string `json:"type" bson:"type"`         // e.g. FSPIOP, ISO20022
	Protocol string `json:"protocol" bson:"protocol"` // e.g. HTTPs/REST
	Value    string `json:"value" bson:"value"`
}

// PortMode describes how a source IP entry constrains ports.
type PortMode string

const (
	PortModeAny      PortMode = "ANY"
	PortModeSpecific PortMode = "SPECIFIC"
	PortModeRange    PortMode = "RANGE"
)

// SourceIP is an allowed source address entry for a participant connection.
type SourceIP struct {
	ID            string   `json:"id" bson:"id"`
	CIDR          string   `json:"cidr" bson:"cidr"`
	PortMode      PortMode `json:"port_mode" bson:"port_mode"`
	Ports         []uint16 `json:"ports,omitempty" bson:"ports,omitempty"`
	PortRangeFrom uint16   `json:"port_range_from,omitempty" bson:"port_range_from,omitempty"`
	PortRangeTo   uint16   `json:"port_range_to,omitempty" bson:"port_range_to,omitempty"`
}

// Contact is a participant contact-info entry.
type Contact struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phone_number" bson:"phone_number"`
	Role        string `json:"role" bson:"role"`
}

// Participant is the governance aggregate root. It exclusively owns all of
// its nested collections; ledger accounts referenced by id belong to the
// external ledger service and only a balance snapshot is cached here.
type Participant struct {
	ID           string          `json:"id" bson:"_id"`
	Name         string          `json:"name" bson:"name"`
	Type         ParticipantType `json:"type" bson:"type"`
	IsActive     bool            `json:"is_active" bson:"is_active"`
	Description  string          `json:"description,omitempty" bson:"description,omitempty"`
	Approved     bool            `json:"approved" bson:"approved"`
	ApprovedBy   string          `json:"approved_by,omitempty" bson:"approved_by,omitempty"`
	ApprovedDate int64           `json:"approved_date,omitempty" bson:"approved_date,omitempty"`
	CreatedBy    string          `json:"created_by" bson:"created_by"`
	CreatedDate  int64           `json:"created_date" bson:"created_date"`

	// Version is the optimistic-concurrency token checked by Store.
	Version int64 `json:"version" bson:"version"`

	ChangeLog []ChangeLogEntry `json:"change_log" bson:"change_log"`

	Accounts               []Account                          `json:"participant_accounts" bson:"participant_accounts"`
	AccountChangeRequests  []ChangeRequest[AccountChange]     `json:"participant_accounts_change_request" bson:"participant_accounts_change_request"`
	Endpoints              []Endpoint                         `json:"participant_endpoints" bson:"participant_endpoints"`
	AllowedSourceIPs       []SourceIP                         `json:"participant_allowed_source_ips" bson:"participant_allowed_source_ips"`
	SourceIPChangeRequests []ChangeRequest[SourceIPChange]    `json:"participant_source_ip_change_requests" bson:"participant_source_ip_change_requests"`
	Contacts               []Contact                          `json:"participant_contacts" bson:"participant_contacts"`
	ContactChangeRequests  []ChangeRequest[ContactInfoChange] `json:"participant_contact_info_change_requests" bson:"participant_contact_info_change_requests"`
	FundsMovements         []FundsMovement                    `json:"funds_movements" bson:"funds_movements"`
	NetDebitCaps           []NetDebitCap                      `json:"net_debit_caps" bson:"net_debit_caps"`
	NdcChangeRequests      []ChangeRequest[NdcChange]         `json:"net_debit_cap_change_requests" bson:"net_debit_cap_change_requests"`
}

// AddChangeLogEntry prepends an entry so the log stays newest-first.
func (p *Participant) AddChangeLogEntry(action ChangeAction, user string, timestamp int64) {
	entry := ChangeLogEntry{ChangeType: action, User: user, Timestamp: timestamp}
	p.ChangeLog = append([]ChangeLogEntry{entry}, p.ChangeLog...)
}

// AccountByTypeAndCurrency returns the participant's account matching the
// given type and currency, or nil.
func (p *Participant) AccountByTypeAndCurrency(accType AccountType, currency string) *Account {
	for i := range p.Accounts {
		if p.Accounts[i].Type == accType && p.Accounts[i].CurrencyCode == currency {
			return &p.Accounts[i]
		}
	}
	return nil
}

// EndpointByID returns the endpoint with the given id, or nil.
func (p *Participant) EndpointByID(id string) *Endpoint {
	for i := range p.Endpoints {
		if p.Endpoints[i].ID == id {
			return &p.Endpoints[i]
		}
	}
	return nil
}

// NetDebitCapByCurrency returns the single NDC record for a currency, or nil.
func (p *Participant) NetDebitCapByCurrency(currency string) *NetDebitCap {
	for i := range p.NetDebitCaps {
		if p.NetDebitCaps[i].CurrencyCode == currency {
			return &p.NetDebitCaps[i]
		}
	}
	return nil
}

// FundsMovementByID returns the funds movement with the given id, or nil.
func (p *Participant) FundsMovementByID(id string) *FundsMovement {
	for i := range p.FundsMovements {
		if p.FundsMovements[i].ID == id {
			return &p.FundsMovements[i]
		}
	}
	return nil
}

// NewHubParticipant builds the reserved hub participant created once at
// bootstrap. It bypasses the normal creation/approval path.
func NewHubParticipant(id, createdBy string) *Participant {
	now := NowMillis()
	return &Participant{
		ID:           id,
		Name:         "HUB",
		Type:         ParticipantTypeHub,
		IsActive:     true,
		Description:  "Hub participant account holder",
		Approved:     true,
		ApprovedBy:   createdBy,
		ApprovedDate: now,
		CreatedBy:    createdBy,
		CreatedDate:  now,
	}
}
