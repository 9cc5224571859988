// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/openfarm/harvester/farm/reverts"
	"github.com/openfarm/harvester/harvester"
)

func (f *Farm) checkAdmin(caller harvester.Address) error {
	if caller != f.admin {
		return reverts.New("permission denied")
	}
	return nil
}

func (f *Farm) isContract(addr harvester.Address) (bool, error) {
	code, err := f.state.GetCode(addr)
	if err != nil {
		return false, err
	}
	return len(code) != 0, nil
}

// SetWallets configures the treasury and community beneficiary wallets.
// Both must be externally owned accounts; emission shares are minted
// straight to them, and a programmable receiver is not acceptable there.
func (f *Farm) SetWallets(caller, treasury, community harvester.Address) error {
	if err := f.checkAdmin(caller); err != nil {
		return err
	}
	return f.run(func() error {
		for _, wallet := range []harvester.Address{treasury, community} {
			if wallet.IsZero() {
				return reverts.New("wallet address is required")
			}
			isContract, err := f.isContract(wallet)
			if err != nil {
				return err
			}
			if isContract {
				return reverts.New("wallet must be an externally owned account")
			}
		}
		f.store.SetWallets(treasury, community)
		logger.Info("wallets set",
			"treasury", treasury,
			"community", community,
		)
		return nil
	})
}

// SetRewardToken configures the reward token the engine mints through.
func (f *Farm) SetRewardToken(caller harvester.Address, tok RewardToken) error {
	if err := f.checkAdmin(caller); err != nil {
		return err
	}
	return f.run(func() error {
		if tok == nil {
			return reverts.New("reward token is required")
		}
		isContract, err := f.isContract(tok.Address())
		if err != nil {
			return err
		}
		if !isContract {
			return reverts.New("reward token must be a contract")
		}
		f.store.SetRewardToken(tok.Address())
		f.reward = tok
		logger.Info("reward token set", "token", tok.Address())
		return nil
	})
}

// AddPool registers a new pool for the given staked asset. The pool list is
// append-only; pools are never removed. When withUpdate is set, all
// existing pools are settled first so that they do not retroactively share
// emission with the newcomer.
func (f *Farm) AddPool(caller harvester.Address, tok StakeToken, weight *big.Int, withUpdate bool, block uint32) (uint32, error) {
	if err := f.checkAdmin(caller); err != nil {
		return 0, err
	}
	var pid uint32
	err := f.run(func() error {
		if tok == nil {
			return reverts.New("stake token is required")
		}
		if weight == nil || weight.Sign() < 0 {
			return reverts.New("invalid pool weight")
		}
		if f.reward == nil {
			return reverts.New("reward token not set")
		}
		treasury, err := f.store.Treasury()
		if err != nil {
			return err
		}
		if treasury.IsZero() {
			return reverts.New("wallets not set")
		}
		isContract, err := f.isContract(tok.Address())
		if err != nil {
			return err
		}
		if !isContract {
			return reverts.New("stake token must be a contract")
		}
		if block >= f.sched.EndBlock() {
			return reverts.New("emission window closed")
		}
		count, err := f.store.PoolCount()
		if err != nil {
			return err
		}
		for i := uint32(0); i < count; i++ {
			pool, err := f.store.GetPool(i)
			if err != nil {
				return err
			}
			if pool.StakeToken == tok.Address() {
				return reverts.New("stake token already added")
			}
		}
		if withUpdate {
			if err := f.massSettle(block); err != nil {
				return err
			}
		}

		lastRewardBlock := block
		if lastRewardBlock < f.sched.StartBlock() {
			lastRewardBlock = f.sched.StartBlock()
		}
		pid, err = f.store.AppendPool(&Pool{
			StakeToken:        tok.Address(),
			Weight:            new(big.Int).Set(weight),
			LastRewardBlock:   lastRewardBlock,
			AccRewardPerShare: new(big.Int),
		})
		if err != nil {
			return err
		}
		totalWeight, err := f.store.TotalWeight()
		if err != nil {
			return err
		}
		f.store.SetTotalWeight(totalWeight.Add(totalWeight, weight))
		return nil
	})
	if err != nil {
		return 0, err
	}
	f.stake = append(f.stake, tok)

	metricPoolCount().Add(1)
	f.syncWeightGauge()
	logger.Info("pool added",
		"pid", pid,
		"token", tok.Address(),
		"weight", weight,
	)
	return pid, nil
}

// SetPoolWeight changes the pool's share of the emission. When withUpdate
// is set, all pools are settled first so that accrual up to this block
// still uses the old weights.
func (f *Farm) SetPoolWeight(caller harvester.Address, pid uint32, weight *big.Int, withUpdate bool, block uint32) error {
	if err := f.checkAdmin(caller); err != nil {
		return err
	}
	err := f.run(func() error {
		if weight == nil || weight.Sign() < 0 {
			return reverts.New("invalid pool weight")
		}
		pool, err := f.checkPool(pid)
		if err != nil {
			return err
		}
		if withUpdate {
			if err := f.massSettle(block); err != nil {
				return err
			}
			// reload, massSettle advanced the accumulator
			if pool, err = f.store.GetPool(pid); err != nil {
				return err
			}
		}
		totalWeight, err := f.store.TotalWeight()
		if err != nil {
			return err
		}
		totalWeight.Sub(totalWeight, pool.Weight)
		totalWeight.Add(totalWeight, weight)
		f.store.SetTotalWeight(totalWeight)

		pool.Weight = new(big.Int).Set(weight)
		if err := f.store.SetPool(pid, pool); err != nil {
			return err
		}
		logger.Info("pool weight set",
			"pid", pid,
			"weight", weight,
		)
		return nil
	})
	if err != nil {
		return err
	}
	f.syncWeightGauge()
	return nil
}

func (f *Farm) syncWeightGauge() {
	if totalWeight, err := f.store.TotalWeight(); err == nil && totalWeight.IsInt64() {
		metricTotalWeight().Set(totalWeight.Int64())
	}
}

// TransferTokenOwnership hands the reward token's minting rights to a new
// owner. This is irrevocable from the engine's point of view: once the
// token is no longer owned by the engine, settlements that need to mint
// will fail.
func (f *Farm) TransferTokenOwnership(caller, newOwner harvester.Address) error {
	if err := f.checkAdmin(caller); err != nil {
		return err
	}
	return f.run(func() error {
		if f.reward == nil {
			return reverts.New("reward token not set")
		}
		if newOwner.IsZero() {
			return reverts.New("new owner address is required")
		}
		if err := f.reward.TransferOwnership(newOwner); err != nil {
			return err
		}
		logger.Warn("reward token ownership transferred", "newOwner", newOwner)
		return nil
	})
}
