// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/api/utils"
	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger"
)

type Commitments struct {
	ledger *ledger.Ledger
}

func New(ledger *ledger.Ledger) *Commitments {
	return &Commitments{ledger: ledger}
}

func (c *Commitments) handleCommit(w http.ResponseWriter, req *http.Request) error {
	var body CommitRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Operator.IsZero() {
		return utils.BadRequest(errors.New("operator: zero address"))
	}
	if len(body.ContentIDs) == 0 {
		return utils.BadRequest(errors.New("contentIds: empty"))
	}

	var err error
	if len(body.ContentIDs) == 1 {
		err = c.ledger.Commit(body.Operator, body.ContentIDs[0])
	} else {
		err = c.ledger.CommitBatch(body.Operator, body.ContentIDs)
	}
	if err != nil {
		return utils.ConvertLedgerError(err)
	}
	w.WriteHeader(http.StatusCreated)
	return nil
}

func (c *Commitments) handleGetArchivers(w http.ResponseWriter, req *http.Request) error {
	contentID, err := arkive.ParseBytes32(mux.Vars(req)["contentId"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "contentId"))
	}

	archivers, err := c.ledger.ArchiversFor(contentID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &ArchiverList{
		ContentID: contentID,
		Archivers: archivers,
	})
}

func (c *Commitments) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /commitments").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCommit))
	sub.Path("/{contentId}").
		Methods(http.MethodGet).
		Name("GET /commitments/{contentId}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetArchivers))
}
