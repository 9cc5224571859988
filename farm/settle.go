// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfarm/harvester/farm/reverts"
	"github.com/openfarm/harvester/harvester"
)

// SettlePool advances the pool's accumulator to the current block, minting
// the treasury, community and pool shares of the emission accrued since the
// last settlement. Safe to call any number of times per block; a settlement
// at or before lastRewardBlock is a no-op. Open to any caller.
func (f *Farm) SettlePool(pid uint32, block uint32) error {
	return f.run(func() error {
		if _, err := f.checkPool(pid); err != nil {
			return err
		}
		return f.settlePool(pid, block)
	})
}

// splitReward cuts the per-pool reward into its fixed beneficiary shares.
// Each share truncates toward zero independently; the resulting systematic
// under-distribution is accepted, never corrected retroactively.
func splitReward(total *big.Int) (treasury, community, pool *big.Int) {
	den := big.NewInt(ShareDenominator)
	treasury = new(big.Int).Mul(total, big.NewInt(TreasuryShare))
	treasury.Div(treasury, den)
	community = new(big.Int).Mul(total, big.NewInt(CommunityShare))
	community.Div(community, den)
	pool = new(big.Int).Mul(total, big.NewInt(PoolShare))
	pool.Div(pool, den)
	return
}

func (f *Farm) settlePool(pid uint32, block uint32) error {
	pool, err := f.store.GetPool(pid)
	if err != nil {
		return err
	}
	if block <= pool.LastRewardBlock {
		return nil
	}

	totalWeight, err := f.store.TotalWeight()
	if err != nil {
		return err
	}

	totalReward := new(big.Int)
	if pool.Weight.Sign() > 0 && totalWeight.Sign() > 0 {
		multiplier := f.sched.Multiplier(pool.LastRewardBlock, block)
		totalReward.Mul(multiplier, pool.Weight)
		totalReward.Div(totalReward, totalWeight)
	}

	if totalReward.Sign() > 0 {
		if f.reward == nil {
			return reverts.New("reward token not set")
		}
		treasuryShare, communityShare, poolShare := splitReward(totalReward)

		tok, err := f.stakeToken(pid)
		if err != nil {
			return err
		}
		lpSupply, err := tok.BalanceOf(f.addr)
		if err != nil {
			return errors.Wrap(err, "failed to query staked supply")
		}
		if lpSupply.Sign() == 0 {
			// an unstaked pool's share is reassigned to the community
			// wallet, not carried forward
			communityShare.Add(communityShare, poolShare)
			poolShare = new(big.Int)
		}

		treasury, err := f.store.Treasury()
		if err != nil {
			return err
		}
		community, err := f.store.Community()
		if err != nil {
			return err
		}
		if err := f.reward.Mint(treasury, treasuryShare); err != nil {
			return errors.Wrap(err, "failed to mint treasury share")
		}
		if err := f.reward.Mint(community, communityShare); err != nil {
			return errors.Wrap(err, "failed to mint community share")
		}
		if poolShare.Sign() > 0 {
			if err := f.reward.Mint(f.addr, poolShare); err != nil {
				return errors.Wrap(err, "failed to mint pool share")
			}
			increment := new(big.Int).Mul(poolShare, AccPrecision())
			increment.Div(increment, lpSupply)
			pool.AccRewardPerShare.Add(pool.AccRewardPerShare, increment)
		}
	}

	pool.LastRewardBlock = block
	if err := f.store.SetPool(pid, pool); err != nil {
		return err
	}

	metricSettlements().Add(1)
	if totalReward.IsInt64() {
		metricMinted().Add(totalReward.Int64())
	}
	logger.Debug("pool settled",
		"pid", pid,
		"block", block,
		"reward", totalReward,
	)
	return nil
}

// MassSettle settles every pool in ascending id order. Its cost grows with
// the pool count; callers pacing many pools should rate-limit it.
func (f *Farm) MassSettle(caller harvester.Address, block uint32) error {
	if err := f.checkAdmin(caller); err != nil {
		return err
	}
	return f.run(func() error {
		return f.massSettle(block)
	})
}

func (f *Farm) massSettle(block uint32) error {
	count, err := f.store.PoolCount()
	if err != nil {
		return err
	}
	for pid := uint32(0); pid < count; pid++ {
		if err := f.settlePool(pid, block); err != nil {
			return err
		}
	}
	return nil
}
