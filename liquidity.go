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

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/model"
)

// LiquiditySummary is a read-time view of one currency's funding state:
// live settlement and position balances from the ledger, the installed net
// debit cap if any, and the headroom left before the cap is exhausted.
type LiquiditySummary struct {
	CurrencyCode      string           `json:"currency_code"`
	SettlementBalance decimal.Decimal  `json:"settlement_balance"`
	PositionBalance   decimal.Decimal  `json:"position_balance"`
	NetDebitCap       *decimal.Decimal `json:"net_debit_cap,omitempty"`
	Headroom          decimal.Decimal  `json:"headroom"`
}

// GetParticipantLiquidity reports per-currency liquidity for a participant.
// Balances come from the ledger at call time, not from the cached snapshot.
// Headroom is the cap's current value minus the position balance when a cap
// is installed, otherwise the settlement balance minus the position balance;
// it is floored at zero.
func (h *Hubgov) GetParticipantLiquidity(ctx context.Context, sec *auth.SecurityContext, participantID string) ([]LiquiditySummary, error) {
	if err := auth.CheckPrivilege(h.authz, sec, auth.PrivViewParticipant); err != nil {
		return nil, err
	}

	participant, err := h.fetchParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	var summaries []LiquiditySummary
	for i := range participant.Accounts {
		account := &participant.Accounts[i]
		if account.Type != model.AccountTypeSettlement {
			continue
		}

		liveSettlement, err := h.ledger.GetAccount(ctx, account.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "fetching settlement account %s", account.ID)
		}

		summary := LiquiditySummary{
			CurrencyCode:      account.CurrencyCode,
			SettlementBalance: liveSettlement.Balance,
		}

		if position := participant.AccountByTypeAndCurrency(model.AccountTypePosition, account.CurrencyCode); position != nil {
			livePosition, err := h.ledger.GetAccount(ctx, position.ID)
			if err != nil {
				return nil, errors.Wrapf(err, "fetching position account %s", position.ID)
			}
			summary.PositionBalance = livePosition.Balance
		}

		ceiling := summary.SettlementBalance
		if ndc := participant.NetDebitCapByCurrency(account.CurrencyCode); ndc != nil {
			value := ndc.CurrentValue
			summary.NetDebitCap = &value
			ceiling = value
		}
		summary.Headroom = ceiling.Sub(summary.PositionBalance)
		if summary.Headroom.IsNegative() {
			summary.Headroom = decimal.Zero
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}
