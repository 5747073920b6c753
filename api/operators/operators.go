// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package operators

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/api/utils"
	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/ledger"
)

type Operators struct {
	ledger  *ledger.Ledger
	payouts *bank.Bank
}

func New(ledger *ledger.Ledger, payouts *bank.Bank) *Operators {
	return &Operators{
		ledger:  ledger,
		payouts: payouts,
	}
}

func (o *Operators) handleGetActive(w http.ResponseWriter, _ *http.Request) error {
	active, err := o.ledger.ActiveOperators()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, active)
}

func (o *Operators) handleGetOperator(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}

	record, err := o.ledger.GetOperator(addr)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	pending, err := o.ledger.PendingRewards(addr)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	payout, err := o.payouts.Balance(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertOperator(addr, record, pending, payout))
}

func (o *Operators) handleRegister(w http.ResponseWriter, req *http.Request) error {
	var body RegisterRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Address.IsZero() {
		return utils.BadRequest(errors.New("address: zero address"))
	}
	if body.Stake == nil {
		return utils.BadRequest(errors.New("stake: missing"))
	}

	if err := o.ledger.Register(body.Address, body.Endpoint, (*big.Int)(body.Stake)); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusCreated)
	return nil
}

func (o *Operators) handleAddStake(w http.ResponseWriter, req *http.Request) error {
	addr, amount, err := parseAddressAndAmount(req)
	if err != nil {
		return err
	}

	if err := o.ledger.AddStake(addr, amount); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (o *Operators) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	addr, amount, err := parseAddressAndAmount(req)
	if err != nil {
		return err
	}

	if err := o.ledger.WithdrawStake(addr, amount); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (o *Operators) handleDeactivate(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}

	if err := o.ledger.Deactivate(addr); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (o *Operators) handleClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}

	paid, err := o.ledger.ClaimRewards(addr)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	return utils.WriteJSON(w, &ClaimResult{Paid: (*math.HexOrDecimal256)(paid)})
}

func parseAddress(req *http.Request) (arkive.Address, error) {
	addr, err := arkive.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return arkive.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return *addr, nil
}

func parseAddressAndAmount(req *http.Request) (arkive.Address, *big.Int, error) {
	addr, err := parseAddress(req)
	if err != nil {
		return arkive.Address{}, nil, err
	}
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return arkive.Address{}, nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return arkive.Address{}, nil, utils.BadRequest(errors.New("amount: missing"))
	}
	return addr, (*big.Int)(body.Amount), nil
}

func (o *Operators) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /operators").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetActive))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /operators").
		HandlerFunc(utils.WrapHandlerFunc(o.handleRegister))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /operators/{address}").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetOperator))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("POST /operators/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(o.handleAddStake))
	sub.Path("/{address}/withdrawals").
		Methods(http.MethodPost).
		Name("POST /operators/{address}/withdrawals").
		HandlerFunc(utils.WrapHandlerFunc(o.handleWithdraw))
	sub.Path("/{address}/deactivation").
		Methods(http.MethodPost).
		Name("POST /operators/{address}/deactivation").
		HandlerFunc(utils.WrapHandlerFunc(o.handleDeactivate))
	sub.Path("/{address}/claims").
		Methods(http.MethodPost).
		Name("POST /operators/{address}/claims").
		HandlerFunc(utils.WrapHandlerFunc(o.handleClaim))
}
