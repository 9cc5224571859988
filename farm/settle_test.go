// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfarm/harvester/farm/reverts"
)

func TestSplitReward(t *testing.T) {
	treasury, community, pool := splitReward(big.NewInt(10000))
	assert.Equal(t, big.NewInt(1500), treasury)
	assert.Equal(t, big.NewInt(1500), community)
	assert.Equal(t, big.NewInt(3000), pool)

	// each share truncates independently
	treasury, community, pool = splitReward(big.NewInt(7))
	assert.Equal(t, big.NewInt(1), treasury)
	assert.Equal(t, big.NewInt(1), community)
	assert.Equal(t, big.NewInt(2), pool)
}

func TestSettleSplitsShares(t *testing.T) {
	env := newTestEnv(t)
	pid, _ := env.addPool(1, aliceAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid, big.NewInt(500), 1000))

	// 10 blocks at 1000/block; 15% + 15% + 30% of 10000
	require.NoError(t, env.farm.SettlePool(pid, 1010))
	assert.Equal(t, big.NewInt(1500), env.balance(env.reward, treasuryAddr))
	assert.Equal(t, big.NewInt(1500), env.balance(env.reward, communityAddr))
	assert.Equal(t, big.NewInt(3000), env.balance(env.reward, farmAddr))

	pool, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Equal(t, uint32(1010), pool.LastRewardBlock)
	expectedAcc := new(big.Int).Mul(big.NewInt(3000), AccPrecision())
	expectedAcc.Div(expectedAcc, big.NewInt(500))
	assert.Equal(t, expectedAcc, pool.AccRewardPerShare)
}

func TestSettleIdempotentWithinBlock(t *testing.T) {
	env := newTestEnv(t)
	pid, _ := env.addPool(1, aliceAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid, big.NewInt(500), 1000))

	require.NoError(t, env.farm.SettlePool(pid, 1010))
	before, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	supplyBefore, err := env.reward.TotalSupply()
	require.NoError(t, err)

	// same block again, and a stale block; both no-ops
	require.NoError(t, env.farm.SettlePool(pid, 1010))
	require.NoError(t, env.farm.SettlePool(pid, 1005))

	after, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Equal(t, before.AccRewardPerShare, after.AccRewardPerShare)
	assert.Equal(t, before.LastRewardBlock, after.LastRewardBlock)
	supplyAfter, err := env.reward.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, supplyBefore, supplyAfter)
}

func TestSettleUnstakedPoolRedirectsToCommunity(t *testing.T) {
	env := newTestEnv(t)
	pid, _ := env.addPool(1)

	require.NoError(t, env.farm.SettlePool(pid, 1010))

	// the pool share (3000) joins the community share (1500)
	assert.Equal(t, big.NewInt(1500), env.balance(env.reward, treasuryAddr))
	assert.Equal(t, big.NewInt(4500), env.balance(env.reward, communityAddr))
	assert.Zero(t, env.balance(env.reward, farmAddr).Sign())

	pool, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Zero(t, pool.AccRewardPerShare.Sign())
	assert.Equal(t, uint32(1010), pool.LastRewardBlock)
}

func TestSettleZeroWeightPool(t *testing.T) {
	env := newTestEnv(t)
	pid, _ := env.addPool(0, aliceAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid, big.NewInt(500), 1000))

	require.NoError(t, env.farm.SettlePool(pid, 1010))

	// nothing emitted, but the snapshot still advances
	supply, err := env.reward.TotalSupply()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())
	pool, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Equal(t, uint32(1010), pool.LastRewardBlock)
}

func TestSettleTwoPoolsWeighted(t *testing.T) {
	env := newTestEnv(t)
	pid0, _ := env.addPool(1, aliceAddr)
	pid1, _ := env.addPool(3, bobAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid0, big.NewInt(100), 1000))
	require.NoError(t, env.farm.Deposit(bobAddr, pid1, big.NewInt(100), 1000))

	require.NoError(t, env.farm.MassSettle(adminAddr, 1040))

	// 40000 emitted, split 1:3 across pools, 30% of each to stakers
	pending0, err := env.farm.PendingReward(pid0, aliceAddr, 1040)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3000), pending0)
	pending1, err := env.farm.PendingReward(pid1, bobAddr, 1040)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(9000), pending1)

	// treasury and community each got 15% of the full emission
	assert.Equal(t, big.NewInt(6000), env.balance(env.reward, treasuryAddr))
	assert.Equal(t, big.NewInt(6000), env.balance(env.reward, communityAddr))
}

func TestMassSettlePermission(t *testing.T) {
	env := newTestEnv(t)
	env.addPool(1, aliceAddr)

	err := env.farm.MassSettle(aliceAddr, 1010)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, "permission denied")
}

func TestSettleRevertsAtomically(t *testing.T) {
	env := newTestEnv(t)
	pid, _ := env.addPool(1, aliceAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid, big.NewInt(500), 1000))

	// hand minting rights away so settlement fails mid-way
	require.NoError(t, env.farm.TransferTokenOwnership(adminAddr, bobAddr))

	err := env.farm.SettlePool(pid, 1010)
	require.Error(t, err)

	// nothing minted, snapshot untouched
	supply, err := env.reward.TotalSupply()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())
	assert.Zero(t, env.balance(env.reward, treasuryAddr).Sign())
	pool, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), pool.LastRewardBlock)
	assert.Zero(t, pool.AccRewardPerShare.Sign())
}

func TestSettleUnknownPool(t *testing.T) {
	env := newTestEnv(t)
	err := env.farm.SettlePool(0, 1010)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, "unknown pool 0")
}
