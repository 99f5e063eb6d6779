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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUIDWithPrefix(t *testing.T) {
	id := GenerateUUIDWithPrefix("acc")
	assert.True(t, strings.HasPrefix(id, "acc_"))
	assert.Len(t, id, len("acc_")+36)
}

func TestGenerateParticipantID(t *testing.T) {
	id := GenerateParticipantID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, GenerateParticipantID())
}

func TestAddChangeLogEntry_NewestFirst(t *testing.T) {
	p := &Participant{}
	p.AddChangeLogEntry(ChangeActionCreate, "alice", 100)
	p.AddChangeLogEntry(ChangeActionApprove, "bob", 200)

	require.Len(t, p.ChangeLog, 2)
	assert.Equal(t, ChangeActionApprove, p.ChangeLog[0].ChangeType)
	assert.Equal(t, int64(200), p.ChangeLog[0].Timestamp)
	assert.Equal(t, ChangeActionCreate, p.ChangeLog[1].ChangeType)
}

func TestAccountByTypeAndCurrency(t *testing.T) {
	p := &Participant{Accounts: []Account{
		{ID: "a1", Type: AccountTypeSettlement, CurrencyCode: "USD"},
		{ID: "a2", Type: AccountTypePosition, CurrencyCode: "USD"},
		{ID: "a3", Type: AccountTypeSettlement, CurrencyCode: "EUR"},
	}}

	found := p.AccountByTypeAndCurrency(AccountTypeSettlement, "EUR")
	require.NotNil(t, found)
	assert.Equal(t, "a3", found.ID)

	assert.Nil(t, p.AccountByTypeAndCurrency(AccountTypePosition, "EUR"))

	// The returned pointer aliases the stored slice element.
	found.ExternalBankAccountID = "iban"
	assert.Equal(t, "iban", p.Accounts[2].ExternalBankAccountID)
}

func TestIsHubAccountType(t *testing.T) {
	assert.True(t, IsHubAccountType(AccountTypeHubMultilateralSettlement))
	assert.True(t, IsHubAccountType(AccountTypeHubReconciliation))
	assert.False(t, IsHubAccountType(AccountTypeSettlement))
	assert.False(t, IsHubAccountType(AccountTypePosition))
}

func TestNewHubParticipant(t *testing.T) {
	hub := NewHubParticipant("hub", "(system)")
	assert.Equal(t, ParticipantTypeHub, hub.Type)
	assert.True(t, hub.Approved)
	assert.True(t, hub.IsActive)
	assert.Equal(t, "(system)", hub.CreatedBy)
	assert.Equal(t, "(system)", hub.ApprovedBy)
}

func TestNetDebitCapByCurrency(t *testing.T) {
	p := &Participant{NetDebitCaps: []NetDebitCap{
		{CurrencyCode: "USD", Type: NdcTypeAbsolute},
	}}
	require.NotNil(t, p.NetDebitCapByCurrency("USD"))
	assert.Nil(t, p.NetDebitCapByCurrency("EUR"))
}
