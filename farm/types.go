// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/openfarm/harvester/harvester"
)

// Split of every settled reward amount. The remaining 40% of the overall
// allocation is pre-minted outside this engine and never passes through it.
const (
	TreasuryShare    = 15
	CommunityShare   = 15
	PoolShare        = 30
	ShareDenominator = 100
)

// AccPrecision is the fixed-point scale of Pool.AccRewardPerShare.
func AccPrecision() *big.Int {
	return big.NewInt(1_000_000_000_000_000_000)
}

// RewardToken is the externally owned reward-token contract the engine
// mints through. The engine must be its sole minter until ownership is
// transferred away.
type RewardToken interface {
	Address() harvester.Address
	Mint(to harvester.Address, amount *big.Int) error
	Transfer(to harvester.Address, amount *big.Int) error
	BalanceOf(addr harvester.Address) (*big.Int, error)
	TransferOwnership(newOwner harvester.Address) error
}

// StakeToken is the staked-asset token contract of one pool. Transfer and
// TransferFrom move funds out of, respectively into, the engine's custody.
type StakeToken interface {
	Address() harvester.Address
	TransferFrom(from, to harvester.Address, amount *big.Int) error
	Transfer(to harvester.Address, amount *big.Int) error
	BalanceOf(addr harvester.Address) (*big.Int, error)
}

// Pool is the per-pool accrual state.
type Pool struct {
	StakeToken        harvester.Address
	Weight            *big.Int
	LastRewardBlock   uint32
	AccRewardPerShare *big.Int // cumulative reward per unit of stake, AccPrecision-scaled
}

func (p *Pool) normalize() *Pool {
	if p.Weight == nil {
		p.Weight = new(big.Int)
	}
	if p.AccRewardPerShare == nil {
		p.AccRewardPerShare = new(big.Int)
	}
	return p
}

// IsEmpty returns whether the pool record is unset.
func (p *Pool) IsEmpty() bool {
	return p.StakeToken.IsZero()
}

// UserPosition is the per-(pool,user) stake bookkeeping. RewardDebt is the
// share of the accumulator already attributed to the user; pending reward is
// Amount*AccRewardPerShare/AccPrecision - RewardDebt.
type UserPosition struct {
	Amount     *big.Int
	RewardDebt *big.Int
}

func (u *UserPosition) normalize() *UserPosition {
	if u.Amount == nil {
		u.Amount = new(big.Int)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = new(big.Int)
	}
	return u
}
