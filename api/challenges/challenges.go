// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package challenges

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/api/utils"
	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger"
)

type Challenges struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Challenges {
	return &Challenges{ledger: ledger}
}

func (c *Challenges) handleOpen(w http.ResponseWriter, req *http.Request) error {
	var body OpenRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Challenger.IsZero() {
		return utils.BadRequest(errors.New("challenger: zero address"))
	}
	if body.Operator.IsZero() {
		return utils.BadRequest(errors.New("operator: zero address"))
	}

	id, err := c.ledger.OpenChallenge(body.Challenger, body.Operator, body.ContentID, (*big.Int)(body.Bond))
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.Header().Set("Content-Type", utils.JSONContentType)
	w.WriteHeader(http.StatusCreated)
	return utils.WriteJSON(w, &OpenResult{ID: id})
}

func (c *Challenges) handleGetChallenge(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}

	record, err := c.ledger.GetChallenge(id)
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	return utils.WriteJSON(w, convertChallenge(id, record))
}

func (c *Challenges) handleResolve(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var body ResolveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	if err := c.ledger.Resolve(body.Caller, id, body.OperatorHasData); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func (c *Challenges) handleResolveExpired(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}

	if err := c.ledger.ResolveExpired(id); err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusOK)
	return nil
}

func parseID(req *http.Request) (arkive.Bytes32, error) {
	id, err := arkive.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return arkive.Bytes32{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (c *Challenges) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /challenges").
		HandlerFunc(utils.WrapHandlerFunc(c.handleOpen))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /challenges/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetChallenge))
	sub.Path("/{id}/resolution").
		Methods(http.MethodPost).
		Name("POST /challenges/{id}/resolution").
		HandlerFunc(utils.WrapHandlerFunc(c.handleResolve))
	sub.Path("/{id}/expiration").
		Methods(http.MethodPost).
		Name("POST /challenges/{id}/expiration").
		HandlerFunc(utils.WrapHandlerFunc(c.handleResolveExpired))
}
