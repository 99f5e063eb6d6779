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

// Package model holds the HTTP request shapes of the governance API and
// their validation rules. Validation here covers shape only; business rules
// (duplicates, maker-checker, reserved ids) stay in the core.
package model

import (
	"github.com/shopspring/decimal"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/tandempay/hubgov/model"
)

type CreateParticipant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (p *CreateParticipant) ValidateCreateParticipant() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&p.ID, validation.Length(0, 32)),
	)
}

func (p *CreateParticipant) ToParticipant() *model.Participant {
	return &model.Participant{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}
}

type UpsertEndpoint struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Protocol string `json:"protocol"`
	Value    string `json:"value"`
}

func (e *UpsertEndpoint) ValidateUpsertEndpoint() error {
	return validation.ValidateStruct(e,
		validation.Field(&e.Type, validation.Required),
		validation.Field(&e.Value, validation.Required, is.URL),
	)
}

func (e *UpsertEndpoint) ToEndpoint() model.Endpoint {
	return model.Endpoint{
		ID:       e.ID,
		Type:     e.Type,
		Protocol: e.Protocol,
		Value:    e.Value,
	}
}

type AccountChangeRequest struct {
	RequestType             string `json:"request_type"`
	AccountID               string `json:"account_id"`
	Type                    string `json:"type"`
	CurrencyCode            string `json:"currency_code"`
	ExternalBankAccountID   string `json:"external_bank_account_id"`
	ExternalBankAccountName string `json:"external_bank_account_name"`
}

func (r *AccountChangeRequest) ValidateAccountChangeRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Type, validation.Required),
		validation.Field(&r.CurrencyCode, validation.Required, validation.Length(3, 3)),
		validation.Field(&r.RequestType, validation.In("", "ADD", "CHANGE")),
		validation.Field(&r.AccountID,
			validation.When(r.RequestType == "CHANGE", validation.Required)),
	)
}

func (r *AccountChangeRequest) ToChangeRequest() model.ChangeRequest[model.AccountChange] {
	return model.ChangeRequest[model.AccountChange]{
		RequestType: model.RequestType(r.RequestType),
		Payload: model.AccountChange{
			AccountID:               r.AccountID,
			Type:                    model.AccountType(r.Type),
			CurrencyCode:            r.CurrencyCode,
			ExternalBankAccountID:   r.ExternalBankAccountID,
			ExternalBankAccountName: r.ExternalBankAccountName,
		},
	}
}

type SourceIPChangeRequest struct {
	RequestType   string   `json:"request_type"`
	SourceIPID    string   `json:"source_ip_id"`
	CIDR          string   `json:"cidr"`
	PortMode      string   `json:"port_mode"`
	Ports         []uint16 `json:"ports"`
	PortRangeFrom uint16   `json:"port_range_from"`
	PortRangeTo   uint16   `json:"port_range_to"`
}

func (r *SourceIPChangeRequest) ValidateSourceIPChangeRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CIDR, validation.Required),
		validation.Field(&r.PortMode, validation.Required, validation.In("ANY", "SPECIFIC", "RANGE")),
		validation.Field(&r.RequestType, validation.In("", "ADD", "CHANGE")),
		validation.Field(&r.SourceIPID,
			validation.When(r.RequestType == "CHANGE", validation.Required)),
	)
}

func (r *SourceIPChangeRequest) ToChangeRequest() model.ChangeRequest[model.SourceIPChange] {
	return model.ChangeRequest[model.SourceIPChange]{
		RequestType: model.RequestType(r.RequestType),
		Payload: model.SourceIPChange{
			SourceIPID:    r.SourceIPID,
			CIDR:          r.CIDR,
			PortMode:      model.PortMode(r.PortMode),
			Ports:         r.Ports,
			PortRangeFrom: r.PortRangeFrom,
			PortRangeTo:   r.PortRangeTo,
		},
	}
}

type ContactInfoChangeRequest struct {
	RequestType string `json:"request_type"`
	ContactID   string `json:"contact_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

func (r *ContactInfoChangeRequest) ValidateContactInfoChangeRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.RequestType, validation.In("", "ADD", "CHANGE")),
		validation.Field(&r.ContactID,
			validation.When(r.RequestType == "CHANGE", validation.Required)),
	)
}

func (r *ContactInfoChangeRequest) ToChangeRequest() model.ChangeRequest[model.ContactInfoChange] {
	return model.ChangeRequest[model.ContactInfoChange]{
		RequestType: model.RequestType(r.RequestType),
		Payload: model.ContactInfoChange{
			ContactID:   r.ContactID,
			Name:        r.Name,
			Email:       r.Email,
			PhoneNumber: r.PhoneNumber,
			Role:        r.Role,
		},
	}
}

type NdcChangeRequest struct {
	CurrencyCode string           `json:"currency_code"`
	Type         string           `json:"type"`
	Percentage   *decimal.Decimal `json:"percentage"`
	FixedValue   *decimal.Decimal `json:"fixed_value"`
}

func (r *NdcChangeRequest) ValidateNdcChangeRequest() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CurrencyCode, validation.Required, validation.Length(3, 3)),
		validation.Field(&r.Type, validation.Required, validation.In("ABSOLUTE", "PERCENTAGE")),
	)
}

func (r *NdcChangeRequest) ToChangeRequest() model.ChangeRequest[model.NdcChange] {
	return model.ChangeRequest[model.NdcChange]{
		Payload: model.NdcChange{
			CurrencyCode: r.CurrencyCode,
			Type:         model.NdcType(r.Type),
			Percentage:   r.Percentage,
			FixedValue:   r.FixedValue,
		},
	}
}

type CreateFundsMovement struct {
	Direction    string          `json:"direction"`
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
	ExtReference string          `json:"ext_reference"`
}

func (r *CreateFundsMovement) ValidateCreateFundsMovement() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Direction, validation.Required, validation.In("DEPOSIT", "WITHDRAWAL")),
		validation.Field(&r.CurrencyCode, validation.Required, validation.Length(3, 3)),
		validation.Field(&r.Amount, validation.Required, validation.By(func(interface{}) error {
			if !r.Amount.IsPositive() {
				return validation.NewError("validation_amount_positive", "amount must be positive")
			}
			return nil
		})),
	)
}

func (r *CreateFundsMovement) ToFundsMovement() model.FundsMovement {
	return model.FundsMovement{
		Direction:    model.FundsMovementDirection(r.Direction),
		CurrencyCode: r.CurrencyCode,
		Amount:       r.Amount,
		Note:         r.Note,
		ExtReference: r.ExtReference,
	}
}
