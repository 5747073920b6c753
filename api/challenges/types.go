// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package challenges

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger/challenges"
)

// OpenRequest is the body of POST /challenges. The bond must equal the
// configured challenge bond exactly.
type OpenRequest struct {
	Challenger arkive.Address        `json:"challenger"`
	Operator   arkive.Address        `json:"operator"`
	ContentID  arkive.Bytes32        `json:"contentId"`
	Bond       *math.HexOrDecimal256 `json:"bond"`
}

// OpenResult carries the identifier assigned to a freshly opened challenge.
type OpenResult struct {
	ID arkive.Bytes32 `json:"id"`
}

// ResolveRequest is the body of POST /challenges/{id}/resolution. The caller
// must be authorized by the verdict source.
type ResolveRequest struct {
	Caller          arkive.Address `json:"caller"`
	OperatorHasData bool           `json:"operatorHasData"`
}

// Challenge is the API presentation of a challenge record.
type Challenge struct {
	ID          arkive.Bytes32        `json:"id"`
	Challenger  arkive.Address        `json:"challenger"`
	Operator    arkive.Address        `json:"operator"`
	ContentID   arkive.Bytes32        `json:"contentId"`
	Bond        *math.HexOrDecimal256 `json:"bond"`
	Deadline    uint64                `json:"deadline"`
	Resolved    bool                  `json:"resolved"`
	OperatorWon bool                  `json:"operatorWon"`
}

func convertChallenge(id arkive.Bytes32, record *challenges.Challenge) *Challenge {
	return &Challenge{
		ID:          id,
		Challenger:  record.Challenger,
		Operator:    record.Operator,
		ContentID:   record.ContentID,
		Bond:        (*math.HexOrDecimal256)(record.Bond),
		Deadline:    record.Deadline,
		Resolved:    record.Resolved,
		OperatorWon: record.OperatorWon,
	}
}
