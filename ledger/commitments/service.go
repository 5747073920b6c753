// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package commitments

import (
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/storage"
)

var slotIndex = arkive.BytesToBytes32([]byte("commitments-index"))

// Service records which operators claim to store which content identifiers.
// The list per content identifier is ordered and intentionally not
// deduplicated: commitmentCount and successRate statistics count raw commit
// calls, and callers may depend on that.
type Service struct {
	index *storage.Mapping[arkive.Bytes32, []arkive.Address]
}

func New(ctx *storage.Context) *Service {
	return &Service{
		index: storage.NewMapping[arkive.Bytes32, []arkive.Address](ctx, slotIndex),
	}
}

// Add appends the operator to the content identifier's archiver list.
func (s *Service) Add(contentID arkive.Bytes32, operator arkive.Address) error {
	archivers, err := s.index.Get(contentID)
	if err != nil {
		return err
	}
	if err := s.index.Set(contentID, append(archivers, operator)); err != nil {
		return errors.Wrap(err, "failed to append commitment")
	}
	return nil
}

// ArchiversFor returns the raw, possibly duplicated archiver list.
func (s *Service) ArchiversFor(contentID arkive.Bytes32) ([]arkive.Address, error) {
	return s.index.Get(contentID)
}
