// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfarm/harvester/emission"
	"github.com/openfarm/harvester/farm"
	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/log"
	"github.com/openfarm/harvester/state"
	"github.com/openfarm/harvester/token"
)

// well-known dev addresses; there is no signature checking in the dev host,
// callers are identified by address alone
var (
	farmAddr      = harvester.BytesToAddress([]byte("harvester.farm"))
	rewardAddr    = harvester.BytesToAddress([]byte("harvester.reward-token"))
	adminAddr     = harvester.BytesToAddress([]byte("harvester.admin"))
	treasuryAddr  = harvester.BytesToAddress([]byte("harvester.treasury"))
	communityAddr = harvester.BytesToAddress([]byte("harvester.community"))

	devStakers = []harvester.Address{
		harvester.BytesToAddress([]byte("harvester.dev1")),
		harvester.BytesToAddress([]byte("harvester.dev2")),
	}
)

var devStakeFunds = new(big.Int).Mul(big.NewInt(1_000_000), big.NewInt(1e18))

type demoPool struct {
	name   string
	weight int64
	stake  *big.Int
}

var demoPools = []demoPool{
	{name: "harvester.stake-lp-a", weight: 100, stake: big.NewInt(1e18)},
	{name: "harvester.stake-lp-b", weight: 200, stake: big.NewInt(5e18)},
}

// bootstrap builds the dev genesis: the engine, its reward token and a set
// of pre-staked demo pools.
func bootstrap(st *state.State, sched *emission.Schedule) (*farm.Farm, error) {
	engine, err := farm.New(farm.Config{
		Address:  farmAddr,
		Admin:    adminAddr,
		Schedule: sched,
	}, st)
	if err != nil {
		return nil, err
	}
	if err := engine.SetWallets(adminAddr, treasuryAddr, communityAddr); err != nil {
		return nil, errors.Wrap(err, "set wallets")
	}

	reward := token.Create(st, rewardAddr, farmAddr)
	if err := engine.SetRewardToken(adminAddr, token.Bind(reward, farmAddr)); err != nil {
		return nil, errors.Wrap(err, "set reward token")
	}

	for _, demo := range demoPools {
		stakeTok := token.Create(st, harvester.BytesToAddress([]byte(demo.name)), adminAddr)
		for _, staker := range devStakers {
			if err := stakeTok.Mint(adminAddr, staker, devStakeFunds); err != nil {
				return nil, errors.Wrap(err, "fund dev staker")
			}
			if err := stakeTok.Approve(staker, farmAddr, devStakeFunds); err != nil {
				return nil, errors.Wrap(err, "approve engine")
			}
		}
		pid, err := engine.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(demo.weight), false, sched.StartBlock())
		if err != nil {
			return nil, errors.Wrapf(err, "add pool %s", demo.name)
		}
		for _, staker := range devStakers {
			if err := engine.Deposit(staker, pid, demo.stake, sched.StartBlock()); err != nil {
				return nil, errors.Wrapf(err, "stake into pool %s", demo.name)
			}
		}
		log.Info("demo pool ready", "pid", pid, "token", demo.name, "weight", demo.weight)
	}
	return engine, nil
}
