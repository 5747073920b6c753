// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/lvldb"
)

func M(a ...any) []any {
	return a
}

var (
	testMinStake = big.NewInt(1000)
	testBond     = big.NewInt(100)
	testPeriod   = time.Hour

	arbiter    = arkive.BytesToAddress([]byte("arbiter"))
	challenger = arkive.BytesToAddress([]byte("challenger"))
	funder     = arkive.BytesToAddress([]byte("funder"))

	contentA = arkive.BytesToBytes32([]byte("content-a"))
	contentB = arkive.BytesToBytes32([]byte("content-b"))
)

type testEnv struct {
	ledger  *Ledger
	payouts *bank.Bank
	clock   *clockwork.FakeClock
}

func newTestLedger(t *testing.T) *testEnv {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := clockwork.NewFakeClockAt(time.Unix(1_000_000, 0))
	payouts := bank.New(db)
	config := Config{
		MinStake:        testMinStake,
		ChallengeBond:   testBond,
		ChallengePeriod: testPeriod,
		SlashPercent:    10,
		MaxBatchSize:    4,
	}
	return &testEnv{
		ledger:  New(db, payouts, NewSoleArbiter(arbiter), clock, config),
		payouts: payouts,
		clock:   clock,
	}
}

func (env *testEnv) register(t *testing.T, id arkive.Address, stake int64) {
	require.NoError(t, env.ledger.Register(id, "https://"+id.String()+".example", big.NewInt(stake)))
}

func (env *testEnv) openChallenge(t *testing.T, operator arkive.Address, contentID arkive.Bytes32) arkive.Bytes32 {
	id, err := env.ledger.OpenChallenge(challenger, operator, contentID, testBond)
	require.NoError(t, err)
	return id
}

func (env *testEnv) payout(t *testing.T, id arkive.Address) *big.Int {
	balance, err := env.payouts.Balance(id)
	require.NoError(t, err)
	return balance
}

// assertBig compares a big.Int by value, sidestepping representation quirks.
func assertBig(t *testing.T, want int64, got *big.Int) {
	t.Helper()
	require.NotNil(t, got)
	if got.Cmp(big.NewInt(want)) != 0 {
		t.Fatalf("want %d, got %s", want, got)
	}
}
