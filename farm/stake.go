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

// Deposit pulls amount units of the pool's staked asset from the caller
// into engine custody. Pending reward accrued so far is settled and paid
// out first; a zero amount acts as a pure claim.
func (f *Farm) Deposit(caller harvester.Address, pid uint32, amount *big.Int, block uint32) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.New("invalid amount")
	}
	return f.run(func() error {
		if _, err := f.checkPool(pid); err != nil {
			return err
		}
		if err := f.settlePool(pid, block); err != nil {
			return err
		}
		pool, err := f.store.GetPool(pid)
		if err != nil {
			return err
		}
		position, err := f.store.GetPosition(pid, caller)
		if err != nil {
			return err
		}
		if position.Amount.Sign() > 0 {
			if err := f.settleUserAndClaim(pool, position, caller); err != nil {
				return err
			}
		}
		if amount.Sign() > 0 {
			tok, err := f.stakeToken(pid)
			if err != nil {
				return err
			}
			if err := tok.TransferFrom(caller, f.addr, amount); err != nil {
				return errors.Wrap(err, "failed to pull staked asset")
			}
			position.Amount.Add(position.Amount, amount)
		}
		f.resyncDebt(pool, position)
		if err := f.store.SetPosition(pid, caller, position); err != nil {
			return err
		}

		metricDeposits().Add(1)
		logger.Debug("deposit",
			"pid", pid,
			"user", caller,
			"amount", amount,
			"block", block,
		)
		return nil
	})
}

// Withdraw returns amount units of the staked asset to the caller. Pending
// reward is settled and paid out even for a zero amount.
func (f *Farm) Withdraw(caller harvester.Address, pid uint32, amount *big.Int, block uint32) error {
	if amount == nil || amount.Sign() < 0 {
		return reverts.New("invalid amount")
	}
	return f.run(func() error {
		if _, err := f.checkPool(pid); err != nil {
			return err
		}
		position, err := f.store.GetPosition(pid, caller)
		if err != nil {
			return err
		}
		if position.Amount.Cmp(amount) < 0 {
			return reverts.New("insufficient staked balance")
		}
		if err := f.settlePool(pid, block); err != nil {
			return err
		}
		pool, err := f.store.GetPool(pid)
		if err != nil {
			return err
		}
		if err := f.settleUserAndClaim(pool, position, caller); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			position.Amount.Sub(position.Amount, amount)
			tok, err := f.stakeToken(pid)
			if err != nil {
				return err
			}
			if err := tok.Transfer(caller, amount); err != nil {
				return errors.Wrap(err, "failed to return staked asset")
			}
		}
		f.resyncDebt(pool, position)
		if err := f.store.SetPosition(pid, caller, position); err != nil {
			return err
		}

		metricWithdraws().AddWithLabel(1, map[string]string{"kind": "regular"})
		logger.Debug("withdraw",
			"pid", pid,
			"user", caller,
			"amount", amount,
			"block", block,
		)
		return nil
	})
}

// EmergencyWithdraw returns the caller's full staked amount without
// settling the pool, forfeiting any pending reward. The position is zeroed
// before the outbound transfer so that a re-entrant call during the
// transfer cannot withdraw twice.
func (f *Farm) EmergencyWithdraw(caller harvester.Address, pid uint32) error {
	return f.run(func() error {
		if _, err := f.checkPool(pid); err != nil {
			return err
		}
		position, err := f.store.GetPosition(pid, caller)
		if err != nil {
			return err
		}
		amount := position.Amount
		position.Amount = new(big.Int)
		position.RewardDebt = new(big.Int)
		if err := f.store.SetPosition(pid, caller, position); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			tok, err := f.stakeToken(pid)
			if err != nil {
				return err
			}
			if err := tok.Transfer(caller, amount); err != nil {
				return errors.Wrap(err, "failed to return staked asset")
			}
		}

		metricWithdraws().AddWithLabel(1, map[string]string{"kind": "emergency"})
		logger.Info("emergency withdraw",
			"pid", pid,
			"user", caller,
			"amount", amount,
		)
		return nil
	})
}

// PendingReward projects the user's claimable reward at the given block
// without mutating state. It simulates one settlement locally, so its
// result matches a real settlement immediately followed by a read.
func (f *Farm) PendingReward(pid uint32, user harvester.Address, block uint32) (*big.Int, error) {
	pool, err := f.checkPool(pid)
	if err != nil {
		return nil, err
	}
	position, err := f.store.GetPosition(pid, user)
	if err != nil {
		return nil, err
	}

	acc := new(big.Int).Set(pool.AccRewardPerShare)
	if block > pool.LastRewardBlock && pool.Weight.Sign() > 0 {
		totalWeight, err := f.store.TotalWeight()
		if err != nil {
			return nil, err
		}
		tok, err := f.stakeToken(pid)
		if err != nil {
			return nil, err
		}
		lpSupply, err := tok.BalanceOf(f.addr)
		if err != nil {
			return nil, err
		}
		if totalWeight.Sign() > 0 && lpSupply.Sign() > 0 {
			totalReward := f.sched.Multiplier(pool.LastRewardBlock, block)
			totalReward.Mul(totalReward, pool.Weight)
			totalReward.Div(totalReward, totalWeight)
			_, _, poolShare := splitReward(totalReward)
			increment := poolShare.Mul(poolShare, AccPrecision())
			increment.Div(increment, lpSupply)
			acc.Add(acc, increment)
		}
	}

	pending := pendingOf(position, acc)
	if pending.Sign() < 0 {
		return nil, errors.Errorf("negative pending reward for %s in pool %d", user, pid)
	}
	return pending, nil
}

// pendingOf computes the not-yet-attributed reward of a position against
// an accumulator value.
func pendingOf(position *UserPosition, acc *big.Int) *big.Int {
	pending := new(big.Int).Mul(position.Amount, acc)
	pending.Div(pending, AccPrecision())
	return pending.Sub(pending, position.RewardDebt)
}

// settleUserAndClaim pays out the position's pending reward against the
// pool's already-settled accumulator. The transfer is capped at the
// engine's actual reward custody: accumulator rounding may compute a claim
// a hair above what was minted, and under-paying is preferred over failing
// the whole operation.
func (f *Farm) settleUserAndClaim(pool *Pool, position *UserPosition, to harvester.Address) error {
	pending := pendingOf(position, pool.AccRewardPerShare)
	if pending.Sign() < 0 {
		return errors.Errorf("negative pending reward for %s", to)
	}
	if pending.Sign() == 0 {
		return nil
	}
	return f.safeRewardTransfer(to, pending)
}

func (f *Farm) safeRewardTransfer(to harvester.Address, amount *big.Int) error {
	if f.reward == nil {
		return reverts.New("reward token not set")
	}
	balance, err := f.reward.BalanceOf(f.addr)
	if err != nil {
		return errors.Wrap(err, "failed to query reward custody")
	}
	pay := amount
	if balance.Cmp(amount) < 0 {
		logger.Warn("reward custody short of claim, capping payout",
			"claim", amount,
			"custody", balance,
		)
		pay = balance
	}
	if pay.Sign() == 0 {
		return nil
	}
	if err := f.reward.Transfer(to, pay); err != nil {
		return errors.Wrap(err, "failed to pay reward")
	}
	return nil
}

// resyncDebt re-bases the position's reward debt on the current
// accumulator, marking all accrued reward as attributed.
func (f *Farm) resyncDebt(pool *Pool, position *UserPosition) {
	debt := new(big.Int).Mul(position.Amount, pool.AccRewardPerShare)
	position.RewardDebt = debt.Div(debt, AccPrecision())
}
