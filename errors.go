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

package hubgov

import "errors"

// Not-found errors. Surfaced to callers as-is, never retried here.
var (
	ErrParticipantNotFound              = errors.New("participant not found")
	ErrAccountNotFound                  = errors.New("participant account not found")
	ErrEndpointNotFound                 = errors.New("participant endpoint not found")
	ErrAccountChangeRequestNotFound     = errors.New("account change request not found")
	ErrSourceIPChangeRequestNotFound    = errors.New("source IP change request not found")
	ErrContactInfoChangeRequestNotFound = errors.New("contact info change request not found")
	ErrNdcChangeRequestNotFound         = errors.New("net debit cap change request not found")
	ErrFundsMovementNotFound            = errors.New("funds movement not found")
)

// Validation errors. No partial state change has happened when these return.
var (
	ErrInvalidParticipant       = errors.New("invalid participant")
	ErrInvalidAccountChange     = errors.New("invalid account change request")
	ErrInvalidSourceIPChange    = errors.New("invalid source IP change request")
	ErrInvalidContactInfoChange = errors.New("invalid contact info change request")
	ErrInvalidNdcChangeRequest  = errors.New("invalid net debit cap change request")
	ErrInvalidFundsMovement     = errors.New("invalid funds movement")
	ErrInvalidEndpoint          = errors.New("invalid participant endpoint")
	ErrInvalidSettlementEvent   = errors.New("invalid settlement matrix settled event")
)

// Conflict / duplicate errors.
var (
	ErrParticipantAlreadyExists = errors.New("participant already exists")
	ErrEndpointAlreadyExists    = errors.New("participant endpoint already exists")
	ErrDuplicateAccount         = errors.New("an account with the same type and currency already exists")
	ErrDuplicateSourceIP        = errors.New("a source IP entry with the same configuration already exists")
	ErrDuplicateContact         = errors.New("a contact with the same name, email or phone already exists")
)

// Maker-checker / approval errors.
var (
	ErrMakerCheckerViolation                = errors.New("maker-checker violation: approver must differ from creator")
	ErrParticipantAlreadyApproved           = errors.New("participant already approved")
	ErrParticipantNotApproved               = errors.New("participant not approved")
	ErrAccountChangeRequestAlreadyApproved  = errors.New("account change request already approved")
	ErrSourceIPChangeRequestAlreadyApproved = errors.New("source IP change request already approved")
	ErrContactChangeRequestAlreadyApproved  = errors.New("contact info change request already approved")
	ErrNdcChangeRequestAlreadyApproved      = errors.New("net debit cap change request already approved")
	ErrFundsMovementAlreadyApproved         = errors.New("funds movement already approved")
)

// Upstream and integrity errors. These mean the in-memory mutation is lost
// and callers must treat the operation as if nothing happened.
var (
	ErrUnableToCreateAccountUpstream = errors.New("unable to create account on the ledger service")
	ErrCouldNotStoreParticipant      = errors.New("could not store participant")
	ErrStoreConflict                 = errors.New("participant was modified concurrently, refetch and retry")
	ErrWithdrawalExceedsBalance      = errors.New("withdrawal amount exceeds settlement account balance")
	ErrSettlementBatchMismatch       = errors.New("ledger returned a different number of entries than requested")
	ErrHubParticipantCorrupted       = errors.New("reserved hub participant id is held by a non-hub participant")
)
