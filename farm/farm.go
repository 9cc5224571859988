// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/openfarm/harvester/emission"
	"github.com/openfarm/harvester/farm/reverts"
	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/log"
	"github.com/openfarm/harvester/metrics"
	"github.com/openfarm/harvester/state"
)

var logger = log.WithContext("pkg", "farm")

var (
	metricSettlements = metrics.LazyLoadCounter("farm_settlements_total")
	metricDeposits    = metrics.LazyLoadCounter("farm_deposits_total")
	metricWithdraws   = metrics.LazyLoadCounterVec("farm_withdraws_total", []string{"kind"})
	metricMinted      = metrics.LazyLoadCounter("farm_minted_total")
	metricPoolCount   = metrics.LazyLoadGauge("farm_pool_count")
	metricTotalWeight = metrics.LazyLoadGauge("farm_total_weight")
)

// marker registered as account code for the engine's custody account
var contractCode = []byte{0x01}

// Config carries the construction parameters of the engine.
type Config struct {
	// Address is the engine's own contract address, the custody account
	// for staked assets and undistributed pool rewards.
	Address harvester.Address

	// Admin is the only account allowed to use the configuration surface.
	Admin harvester.Address

	// Schedule is the emission window the engine distributes.
	Schedule *emission.Schedule
}

// Farm is the multi-pool reward-accrual engine.
//
// All methods are entry points of a host that executes them strictly one at
// a time, so no locking happens here. Each mutating entry point runs against
// a state checkpoint and either commits in full or reverts in full.
type Farm struct {
	addr  harvester.Address
	admin harvester.Address
	sched *emission.Schedule
	state *state.State
	store *store

	reward RewardToken
	stake  []StakeToken

	// nesting depth of run; hostile tokens can re-enter entry points
	depth int
}

// New creates an engine instance on the given world state.
func New(cfg Config, st *state.State) (*Farm, error) {
	if cfg.Schedule == nil {
		return nil, reverts.New("emission schedule is required")
	}
	if cfg.Admin.IsZero() {
		return nil, reverts.New("admin address is required")
	}
	st.SetCode(cfg.Address, contractCode)
	return &Farm{
		addr:  cfg.Address,
		admin: cfg.Admin,
		sched: cfg.Schedule,
		state: st,
		store: newStore(cfg.Address, st),
	}, nil
}

// Address returns the engine's custody address.
func (f *Farm) Address() harvester.Address {
	return f.addr
}

// Schedule returns the emission schedule.
func (f *Farm) Schedule() *emission.Schedule {
	return f.sched
}

// run executes fn against a checkpoint: all state effects of a failed fn,
// including collaborator token balances, are rolled back together. A
// collaborator token may re-enter an entry point during an outbound
// transfer; only the outermost invocation commits, so the writes of a
// nested call stay revertible until the outer operation is decided.
func (f *Farm) run(fn func() error) error {
	cp := f.state.NewCheckpoint()
	f.depth++
	err := fn()
	f.depth--
	if err != nil {
		f.state.RevertTo(cp)
		return err
	}
	if f.depth == 0 {
		f.state.Commit()
	}
	return nil
}

// checkPool returns the pool record, rejecting unknown ids.
func (f *Farm) checkPool(pid uint32) (*Pool, error) {
	count, err := f.store.PoolCount()
	if err != nil {
		return nil, err
	}
	if pid >= count {
		return nil, reverts.Errorf("unknown pool %d", pid)
	}
	return f.store.GetPool(pid)
}

func (f *Farm) stakeToken(pid uint32) (StakeToken, error) {
	if int(pid) >= len(f.stake) {
		return nil, reverts.Errorf("unknown pool %d", pid)
	}
	return f.stake[pid], nil
}

//
// Getters - no state change
//

// PoolCount returns the number of registered pools.
func (f *Farm) PoolCount() (uint32, error) {
	return f.store.PoolCount()
}

// GetPool returns the pool record of the given id.
func (f *Farm) GetPool(pid uint32) (*Pool, error) {
	return f.checkPool(pid)
}

// GetPosition returns the user's position in the given pool. Unknown users
// yield a zero-valued position.
func (f *Farm) GetPosition(pid uint32, user harvester.Address) (*UserPosition, error) {
	if _, err := f.checkPool(pid); err != nil {
		return nil, err
	}
	return f.store.GetPosition(pid, user)
}

// TotalWeight returns the sum of all pool weights.
func (f *Farm) TotalWeight() (*big.Int, error) {
	return f.store.TotalWeight()
}

// Wallets returns the treasury and community wallet addresses.
func (f *Farm) Wallets() (treasury, community harvester.Address, err error) {
	if treasury, err = f.store.Treasury(); err != nil {
		return
	}
	community, err = f.store.Community()
	return
}

// RewardTokenAddress returns the configured reward token address, zero if
// unset.
func (f *Farm) RewardTokenAddress() (harvester.Address, error) {
	return f.store.RewardToken()
}

// StakedSupply returns the engine's custody balance of the pool's staked
// asset.
func (f *Farm) StakedSupply(pid uint32) (*big.Int, error) {
	if _, err := f.checkPool(pid); err != nil {
		return nil, err
	}
	tok, err := f.stakeToken(pid)
	if err != nil {
		return nil, err
	}
	return tok.BalanceOf(f.addr)
}
