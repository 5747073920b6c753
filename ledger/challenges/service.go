// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package challenges

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/ledger/reverts"
	"github.com/arkive-net/arkive/storage"
)

var (
	slotRecords = arkive.BytesToBytes32([]byte("challenges-records"))
	slotSeq     = arkive.BytesToBytes32([]byte("challenges-seq"))
	slotEscrow  = arkive.BytesToBytes32([]byte("challenges-escrow"))
)

// Service owns challenge records and the bond escrow.
type Service struct {
	records *storage.Mapping[arkive.Bytes32, Challenge]
	seq     *storage.Uint64
	escrow  *storage.Uint256
}

func New(ctx *storage.Context) *Service {
	return &Service{
		records: storage.NewMapping[arkive.Bytes32, Challenge](ctx, slotRecords),
		seq:     storage.NewUint64(ctx, slotSeq),
		escrow:  storage.NewUint256(ctx, slotEscrow),
	}
}

// Open escrows the bond and creates an unresolved challenge. The identifier is
// derived from the parties, the content identifier and a per-ledger sequence
// number, so repeated challenges against the same pair stay distinct.
func (s *Service) Open(
	challenger arkive.Address,
	operator arkive.Address,
	contentID arkive.Bytes32,
	bond *big.Int,
	deadline uint64,
) (arkive.Bytes32, error) {
	seq, err := s.seq.Inc()
	if err != nil {
		return arkive.Bytes32{}, err
	}

	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	id := arkive.Blake2bFn(func(w io.Writer) {
		w.Write(challenger.Bytes())
		w.Write(operator.Bytes())
		w.Write(contentID.Bytes())
		w.Write(seqBytes[:])
	})

	record := Challenge{
		Challenger: challenger,
		Operator:   operator,
		ContentID:  contentID,
		Bond:       new(big.Int).Set(bond),
		Deadline:   deadline,
	}
	if err := s.records.Set(id, record); err != nil {
		return arkive.Bytes32{}, errors.Wrap(err, "failed to set challenge record")
	}
	if err := s.escrow.Add(bond); err != nil {
		return arkive.Bytes32{}, err
	}
	return id, nil
}

// Get returns the challenge, failing when the identifier is unknown.
func (s *Service) Get(id arkive.Bytes32) (*Challenge, error) {
	record, err := s.records.Get(id)
	if err != nil {
		return nil, err
	}
	if record.IsEmpty() {
		return nil, reverts.ErrNotFound
	}
	return &record, nil
}

// MarkResolved fixes the challenge outcome and releases the bond from escrow.
// Terminal: a resolved challenge never transitions again.
func (s *Service) MarkResolved(id arkive.Bytes32, record *Challenge, operatorWon bool) error {
	if record.Resolved {
		return reverts.ErrAlreadyResolved
	}
	record.Resolved = true
	record.OperatorWon = operatorWon
	if err := s.records.Set(id, *record); err != nil {
		return errors.Wrap(err, "failed to set challenge record")
	}
	return s.escrow.Sub(record.Bond)
}

// Escrow returns the total bond value currently held for open challenges.
func (s *Service) Escrow() (*big.Int, error) {
	return s.escrow.Get()
}
