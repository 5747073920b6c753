// Copyright (c) 2025 The Arkive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger implements the archival stake ledger: operator registration
// and stake custody, proportional reward distribution, storage commitments and
// the challenge/slash protocol. Operations execute one at a time over shared
// state; each either fully applies or fails with a domain revert leaving state
// unchanged.
package ledger

import (
	"math/big"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/arkive-net/arkive/arkive"
	"github.com/arkive-net/arkive/bank"
	"github.com/arkive-net/arkive/kv"
	"github.com/arkive-net/arkive/ledger/challenges"
	"github.com/arkive-net/arkive/ledger/commitments"
	"github.com/arkive-net/arkive/ledger/globalstats"
	"github.com/arkive-net/arkive/ledger/operators"
	"github.com/arkive-net/arkive/ledger/reverts"
	"github.com/arkive-net/arkive/ledger/rewards"
	"github.com/arkive-net/arkive/log"
	"github.com/arkive-net/arkive/metrics"
	"github.com/arkive-net/arkive/storage"
)

var logger = log.WithContext("pkg", "ledger")

// SetLogger overrides the package logger.
func SetLogger(l log.Logger) {
	logger = l
}

// Ledger is the facade over the stake, reward, commitment and challenge
// services. All public operations serialize on an internal mutex; there is no
// internal parallelism and no blocking I/O beyond the kv store.
type Ledger struct {
	mu sync.Mutex

	config  Config
	clock   clockwork.Clock
	verdict VerdictSource
	payouts *bank.Bank

	operatorService   *operators.Service
	rewardService     *rewards.Service
	commitmentService *commitments.Service
	challengeService  *challenges.Service
	statsService      *globalstats.Service

	meterCommits    metrics.CountMeter
	meterChallenges metrics.CountVecMeter
	gaugeTotalStake metrics.GaugeMeter
}

// New creates a ledger over the given store. The payout book receives all
// outbound value; the verdict source guards challenge resolution; the clock
// drives challenge deadlines.
func New(store kv.GetPutter, payouts *bank.Bank, verdict VerdictSource, clock clockwork.Clock, config Config) *Ledger {
	ctx := storage.NewContext(store)

	return &Ledger{
		config:  config,
		clock:   clock,
		verdict: verdict,
		payouts: payouts,

		operatorService:   operators.New(ctx, config.MinStake),
		rewardService:     rewards.New(ctx, arkive.RewardScale),
		commitmentService: commitments.New(ctx),
		challengeService:  challenges.New(ctx),
		statsService:      globalstats.New(ctx),

		meterCommits:    metrics.Counter("ledger_commits_count"),
		meterChallenges: metrics.CounterVec("ledger_challenges_count", []string{"event"}),
		gaugeTotalStake: metrics.Gauge("ledger_total_stake_units"),
	}
}

//
// Getters - no state change
//

// ActiveOperators lists the identities currently eligible to commit.
func (l *Ledger) ActiveOperators() ([]arkive.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.operatorService.ActiveOperators()
}

// GetOperator returns the operator record.
func (l *Ledger) GetOperator(id arkive.Address) (*operators.Operator, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.operatorService.GetExisting(id)
}

// OperatorStats is the public statistics triple of an operator.
type OperatorStats struct {
	Stake           *big.Int
	CommitmentCount uint64
	SuccessRate     uint64
}

// GetOperatorStats returns the (stake, commitmentCount, successRate) triple.
func (l *Ledger) GetOperatorStats(id arkive.Address) (*OperatorStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		return nil, err
	}
	return &OperatorStats{
		Stake:           record.Stake,
		CommitmentCount: record.CommitmentCount,
		SuccessRate:     record.SuccessRate(),
	}, nil
}

// ArchiversFor returns the raw committed-operator list for a content identifier.
func (l *Ledger) ArchiversFor(contentID arkive.Bytes32) ([]arkive.Address, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commitmentService.ArchiversFor(contentID)
}

// GetChallenge returns a challenge by identifier.
func (l *Ledger) GetChallenge(id arkive.Bytes32) (*challenges.Challenge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.challengeService.Get(id)
}

// PendingRewards returns the operator's settleable reward without mutating.
func (l *Ledger) PendingRewards(id arkive.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		return nil, err
	}
	return l.rewardService.Pending(record)
}

// TotalStake returns the aggregate bonded value.
func (l *Ledger) TotalStake() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statsService.TotalStake()
}

// RewardPool returns the funded value not yet paid out.
func (l *Ledger) RewardPool() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rewardService.Pool()
}

// AccRewardPerStake returns the reward accumulator (scaled fixed-point).
func (l *Ledger) AccRewardPerStake() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rewardService.AccPerStake()
}

// EscrowedBonds returns the bond value held for open challenges.
func (l *Ledger) EscrowedBonds() (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.challengeService.Escrow()
}

//
// Setters - state change
//

// Register creates the operator record, activates it and bonds the initial stake.
func (l *Ledger) Register(id arkive.Address, endpoint string, stake *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("registering operator", "id", id, "stake", units(stake))
	if err := checkAmount(stake); err != nil {
		return err
	}

	// price in rewards accrued before joining, so the fresh operator owes
	// nothing for history it did not stake through
	debt, err := l.rewardService.Accumulated(stake)
	if err != nil {
		return err
	}
	if _, err := l.operatorService.Register(id, endpoint, stake, debt, l.now()); err != nil {
		logger.Info("register failed", "id", id, "error", err)
		return err
	}
	if err := l.statsService.AddStake(stake); err != nil {
		return err
	}

	l.updateStakeGauge()
	logger.Info("registered operator", "id", id)
	return nil
}

// AddStake bonds additional value for a registered operator. Pending rewards
// are settled before the stake changes. Topping a slash-suspended operator
// back up to the minimum returns it to the active set; a voluntary
// deactivation is not reversed this way.
func (l *Ledger) AddStake(id arkive.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("adding stake", "id", id, "amount", units(amount))
	if err := checkAmount(amount); err != nil {
		return err
	}

	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		logger.Info("add stake failed", "id", id, "error", err)
		return err
	}
	if _, err := l.settle(id, record); err != nil {
		return err
	}

	record.Stake.Add(record.Stake, amount)
	if record.RewardDebt, err = l.rewardService.Accumulated(record.Stake); err != nil {
		return err
	}
	if record.Suspended && record.Stake.Cmp(l.config.MinStake) >= 0 {
		if err := l.operatorService.Reactivate(id, record); err != nil {
			return err
		}
		logger.Info("reactivated operator", "id", id, "stake", units(record.Stake))
	} else if err := l.operatorService.Update(id, record); err != nil {
		return err
	}
	if err := l.statsService.AddStake(amount); err != nil {
		return err
	}

	l.updateStakeGauge()
	logger.Info("added stake", "id", id, "stake", units(record.Stake))
	return nil
}

// WithdrawStake unbonds value and credits it to the operator's payout balance.
// The remaining stake must be zero or at least the minimum; a full withdrawal
// deactivates the operator while keeping its record queryable.
func (l *Ledger) WithdrawStake(id arkive.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("withdrawing stake", "id", id, "amount", units(amount))
	if err := checkAmount(amount); err != nil {
		return err
	}

	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		logger.Info("withdraw failed", "id", id, "error", err)
		return err
	}
	if amount.Cmp(record.Stake) > 0 {
		logger.Info("withdraw failed", "id", id, "error", reverts.ErrExceedsStake)
		return reverts.ErrExceedsStake
	}
	remaining := new(big.Int).Sub(record.Stake, amount)
	if remaining.Sign() > 0 && remaining.Cmp(l.config.MinStake) < 0 {
		logger.Info("withdraw failed", "id", id, "error", reverts.ErrBelowMinimum)
		return reverts.ErrBelowMinimum
	}

	if _, err := l.settle(id, record); err != nil {
		return err
	}

	record.Stake = remaining
	if record.RewardDebt, err = l.rewardService.Accumulated(record.Stake); err != nil {
		return err
	}
	if remaining.Sign() == 0 && record.Active {
		if err := l.operatorService.Deactivate(id, record); err != nil {
			return err
		}
	} else if err := l.operatorService.Update(id, record); err != nil {
		return err
	}
	if err := l.statsService.SubStake(amount); err != nil {
		return err
	}
	if err := l.payouts.Credit(id, amount); err != nil {
		return err
	}

	l.updateStakeGauge()
	logger.Info("withdrew stake", "id", id, "amount", units(amount), "remaining", units(remaining))
	return nil
}

// Deactivate removes the operator from the active set without touching its
// stake. The residual stake stays claimable via WithdrawStake.
func (l *Ledger) Deactivate(id arkive.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("deactivating operator", "id", id)

	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		logger.Info("deactivate failed", "id", id, "error", err)
		return err
	}
	if err := l.operatorService.Deactivate(id, record); err != nil {
		logger.Info("deactivate failed", "id", id, "error", err)
		return err
	}

	logger.Info("deactivated operator", "id", id)
	return nil
}

// FundPool credits externally supplied reward value and raises the per-stake
// accumulator. Funding with zero total stake strands the amount in the pool;
// no later redistribution exists.
func (l *Ledger) FundPool(amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("funding reward pool", "amount", units(amount))
	if err := checkAmount(amount); err != nil {
		return err
	}

	totalStake, err := l.statsService.TotalStake()
	if err != nil {
		return err
	}
	if err := l.rewardService.Fund(amount, totalStake); err != nil {
		return err
	}

	logger.Info("funded reward pool", "amount", units(amount))
	return nil
}

// ClaimRewards settles the operator's pending reward into its payout balance.
// A zero pending reward is a no-op, not an error. Returns the amount paid.
func (l *Ledger) ClaimRewards(id arkive.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("claiming rewards", "id", id)

	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		logger.Info("claim failed", "id", id, "error", err)
		return nil, err
	}
	paid, err := l.settle(id, record)
	if err != nil {
		return nil, err
	}

	logger.Info("claimed rewards", "id", id, "amount", units(paid))
	return paid, nil
}

// Commit advertises that the operator stores the content identifier. Duplicate
// commits are allowed and counted.
func (l *Ledger) Commit(id arkive.Address, contentID arkive.Bytes32) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit(id, contentID)
}

// CommitBatch advertises storage of several content identifiers at once, up to
// the maximum batch size.
func (l *Ledger) CommitBatch(id arkive.Address, contentIDs []arkive.Bytes32) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("batch committing", "id", id, "count", len(contentIDs))
	if len(contentIDs) > l.config.MaxBatchSize {
		logger.Info("batch commit failed", "id", id, "error", reverts.ErrBatchTooLarge)
		return reverts.ErrBatchTooLarge
	}

	record, err := l.requireActive(id)
	if err != nil {
		logger.Info("batch commit failed", "id", id, "error", err)
		return err
	}
	for _, contentID := range contentIDs {
		if err := l.commitmentService.Add(contentID, id); err != nil {
			return err
		}
	}
	record.CommitmentCount += uint64(len(contentIDs))
	if err := l.operatorService.Update(id, record); err != nil {
		return err
	}

	l.meterCommits.Add(int64(len(contentIDs)))
	logger.Info("batch committed", "id", id, "count", len(contentIDs))
	return nil
}

// OpenChallenge escrows the bond and opens a dispute against the operator's
// claim to store the content identifier. Returns the challenge identifier.
func (l *Ledger) OpenChallenge(
	challenger arkive.Address,
	operator arkive.Address,
	contentID arkive.Bytes32,
	bond *big.Int,
) (arkive.Bytes32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("opening challenge", "challenger", challenger, "operator", operator, "contentID", contentID.AbbrevString())

	if bond == nil || bond.Cmp(l.config.ChallengeBond) != 0 {
		logger.Info("open challenge failed", "operator", operator, "error", reverts.ErrInvalidBond)
		return arkive.Bytes32{}, reverts.ErrInvalidBond
	}
	if _, err := l.requireActive(operator); err != nil {
		logger.Info("open challenge failed", "operator", operator, "error", err)
		return arkive.Bytes32{}, err
	}

	deadline := l.now() + uint64(l.config.ChallengePeriod.Seconds())
	id, err := l.challengeService.Open(challenger, operator, contentID, bond, deadline)
	if err != nil {
		return arkive.Bytes32{}, err
	}

	l.meterChallenges.AddWithLabel(1, map[string]string{"event": "opened"})
	logger.Info("opened challenge", "id", id.AbbrevString(), "operator", operator, "deadline", deadline)
	return id, nil
}

// Resolve fixes a challenge outcome. Only the verdict source may rule; the
// verdict states whether the operator produced valid data.
func (l *Ledger) Resolve(caller arkive.Address, id arkive.Bytes32, operatorHasData bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("resolving challenge", "id", id.AbbrevString(), "caller", caller, "operatorHasData", operatorHasData)

	if !l.verdict.Authorized(caller) {
		logger.Info("resolve failed", "id", id.AbbrevString(), "error", reverts.ErrUnauthorized)
		return reverts.ErrUnauthorized
	}
	record, err := l.challengeService.Get(id)
	if err != nil {
		logger.Info("resolve failed", "id", id.AbbrevString(), "error", err)
		return err
	}
	if record.Resolved {
		logger.Info("resolve failed", "id", id.AbbrevString(), "error", reverts.ErrAlreadyResolved)
		return reverts.ErrAlreadyResolved
	}
	return l.resolve(id, record, operatorHasData)
}

// ResolveExpired force-resolves a challenge whose deadline passed without a
// verdict. Callable by anyone; silence counts as failure to prove possession,
// so the slashing path is identical to an explicit negative verdict.
func (l *Ledger) ResolveExpired(id arkive.Bytes32) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logger.Debug("resolving expired challenge", "id", id.AbbrevString())

	record, err := l.challengeService.Get(id)
	if err != nil {
		logger.Info("resolve expired failed", "id", id.AbbrevString(), "error", err)
		return err
	}
	if record.Resolved {
		logger.Info("resolve expired failed", "id", id.AbbrevString(), "error", reverts.ErrAlreadyResolved)
		return reverts.ErrAlreadyResolved
	}
	if !record.Expired(l.now()) {
		logger.Info("resolve expired failed", "id", id.AbbrevString(), "error", reverts.ErrDeadlineNotReached)
		return reverts.ErrDeadlineNotReached
	}
	return l.resolve(id, record, false)
}

//
// internals
//

func (l *Ledger) commit(id arkive.Address, contentID arkive.Bytes32) error {
	logger.Debug("committing", "id", id, "contentID", contentID.AbbrevString())

	record, err := l.requireActive(id)
	if err != nil {
		logger.Info("commit failed", "id", id, "error", err)
		return err
	}
	if err := l.commitmentService.Add(contentID, id); err != nil {
		return err
	}
	record.CommitmentCount++
	if err := l.operatorService.Update(id, record); err != nil {
		return err
	}

	l.meterCommits.Add(1)
	logger.Info("committed", "id", id, "contentID", contentID.AbbrevString())
	return nil
}

// resolve applies a challenge outcome. Caller has verified the challenge is
// still open.
func (l *Ledger) resolve(id arkive.Bytes32, record *challenges.Challenge, operatorHasData bool) error {
	operator, err := l.operatorService.GetExisting(record.Operator)
	if err != nil {
		return err
	}

	if operatorHasData {
		operator.ChallengesWon++
		if err := l.operatorService.Update(record.Operator, operator); err != nil {
			return err
		}
		// the challenger's bond is fully forfeited to the operator
		if err := l.payouts.Credit(record.Operator, record.Bond); err != nil {
			return err
		}
		if err := l.challengeService.MarkResolved(id, record, true); err != nil {
			return err
		}

		l.meterChallenges.AddWithLabel(1, map[string]string{"event": "operator_won"})
		logger.Info("resolved challenge", "id", id.AbbrevString(), "operator", record.Operator, "outcome", "operator won")
		return nil
	}

	// settle before the slash mutates stake, otherwise unclaimed rewards get
	// mis-attributed to the reduced stake level
	if _, err := l.settle(record.Operator, operator); err != nil {
		return err
	}

	slash := new(big.Int).Mul(operator.Stake, new(big.Int).SetUint64(l.config.SlashPercent))
	slash.Div(slash, big.NewInt(100))

	operator.ChallengesLost++
	operator.Stake.Sub(operator.Stake, slash)
	if operator.RewardDebt, err = l.rewardService.Accumulated(operator.Stake); err != nil {
		return err
	}
	if operator.Active && operator.Stake.Cmp(l.config.MinStake) < 0 {
		if err := l.operatorService.Suspend(record.Operator, operator); err != nil {
			return err
		}
	} else if err := l.operatorService.Update(record.Operator, operator); err != nil {
		return err
	}
	if err := l.statsService.SubStake(slash); err != nil {
		return err
	}

	// challenger gets its bond back plus the slashed stake
	winnings := new(big.Int).Add(slash, record.Bond)
	if err := l.payouts.Credit(record.Challenger, winnings); err != nil {
		return err
	}
	if err := l.challengeService.MarkResolved(id, record, false); err != nil {
		return err
	}

	l.meterChallenges.AddWithLabel(1, map[string]string{"event": "operator_lost"})
	l.updateStakeGauge()
	logger.Info("resolved challenge", "id", id.AbbrevString(),
		"operator", record.Operator,
		"outcome", "operator lost",
		"slashed", units(slash),
	)
	return nil
}

// settle pays out the operator's pending reward and moves the settlement point
// to the current accumulator reading. Must run before every stake mutation.
func (l *Ledger) settle(id arkive.Address, record *operators.Operator) (*big.Int, error) {
	pending, err := l.rewardService.Pending(record)
	if err != nil {
		return nil, err
	}
	if pending.Sign() == 0 {
		return pending, nil
	}

	if err := l.rewardService.PayOut(pending); err != nil {
		return nil, err
	}
	if err := l.payouts.Credit(id, pending); err != nil {
		return nil, err
	}
	if record.RewardDebt, err = l.rewardService.Accumulated(record.Stake); err != nil {
		return nil, err
	}
	record.LastClaimAt = l.now()
	return pending, l.operatorService.Update(id, record)
}

// requireActive returns the operator record, failing when unregistered or
// currently outside the active set.
func (l *Ledger) requireActive(id arkive.Address) (*operators.Operator, error) {
	record, err := l.operatorService.GetExisting(id)
	if err != nil {
		return nil, err
	}
	if !record.Active {
		return nil, reverts.ErrNotActive
	}
	return record, nil
}

func (l *Ledger) now() uint64 {
	return uint64(l.clock.Now().Unix())
}

func (l *Ledger) updateStakeGauge() {
	totalStake, err := l.statsService.TotalStake()
	if err != nil {
		return
	}
	l.gaugeTotalStake.Set(new(big.Int).Div(totalStake, arkive.Unit).Int64())
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("amount must be non-negative")
	}
	return nil
}

func units(amount *big.Int) *big.Int {
	if amount == nil {
		return nil
	}
	return new(big.Int).Div(amount, arkive.Unit)
}
