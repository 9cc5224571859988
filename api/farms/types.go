// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/openfarm/harvester/emission"
	"github.com/openfarm/harvester/farm"
	"github.com/openfarm/harvester/harvester"
)

// Pool is the external view of a pool record.
type Pool struct {
	ID                uint32               `json:"id"`
	StakeToken        harvester.Address    `json:"stakeToken"`
	Weight            math.HexOrDecimal256 `json:"weight"`
	LastRewardBlock   uint32               `json:"lastRewardBlock"`
	AccRewardPerShare math.HexOrDecimal256 `json:"accRewardPerShare"`
	StakedSupply      math.HexOrDecimal256 `json:"stakedSupply"`
}

// Position is the external view of a user's stake in one pool.
type Position struct {
	Amount     math.HexOrDecimal256 `json:"amount"`
	RewardDebt math.HexOrDecimal256 `json:"rewardDebt"`
	Pending    math.HexOrDecimal256 `json:"pending"`
}

// Schedule describes the emission window.
type Schedule struct {
	StartBlock   uint32                 `json:"startBlock"`
	EndBlock     uint32                 `json:"endBlock"`
	PeriodLength uint32                 `json:"periodLength"`
	Rates        []math.HexOrDecimal256 `json:"rates"`
}

// Totals is the engine-wide summary.
type Totals struct {
	PoolCount   uint32               `json:"poolCount"`
	TotalWeight math.HexOrDecimal256 `json:"totalWeight"`
	RewardToken harvester.Address    `json:"rewardToken"`
	Treasury    harvester.Address    `json:"treasury"`
	Community   harvester.Address    `json:"community"`
	Block       uint32               `json:"block"`
}

func decimal(v *big.Int) math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return math.HexOrDecimal256(*v)
}

// decimalPtr is for map-valued responses: HexOrDecimal256 marshals through
// a pointer receiver, and a map value is not addressable.
func decimalPtr(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

func convertPool(id uint32, pool *farm.Pool, stakedSupply *big.Int) *Pool {
	return &Pool{
		ID:                id,
		StakeToken:        pool.StakeToken,
		Weight:            decimal(pool.Weight),
		LastRewardBlock:   pool.LastRewardBlock,
		AccRewardPerShare: decimal(pool.AccRewardPerShare),
		StakedSupply:      decimal(stakedSupply),
	}
}

func convertSchedule(sched *emission.Schedule) *Schedule {
	rates := make([]math.HexOrDecimal256, 0, sched.Periods())
	for period := uint32(1); period <= sched.Periods(); period++ {
		rate, err := sched.RateOf(period)
		if err != nil {
			break
		}
		rates = append(rates, decimal(rate))
	}
	return &Schedule{
		StartBlock:   sched.StartBlock(),
		EndBlock:     sched.EndBlock(),
		PeriodLength: sched.PeriodLength(),
		Rates:        rates,
	}
}
