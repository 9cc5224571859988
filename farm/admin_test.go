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
	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/token"
)

func TestAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, stakeTok := env.addPool(1, aliceAddr)

	for name, err := range map[string]error{
		"SetWallets":             env.farm.SetWallets(aliceAddr, treasuryAddr, communityAddr),
		"SetRewardToken":         env.farm.SetRewardToken(aliceAddr, token.Bind(env.reward, farmAddr)),
		"SetPoolWeight":          env.farm.SetPoolWeight(aliceAddr, 0, big.NewInt(2), false, 1000),
		"TransferTokenOwnership": env.farm.TransferTokenOwnership(aliceAddr, bobAddr),
	} {
		assert.True(t, reverts.IsRevertErr(err), name)
		assert.EqualError(t, err, "permission denied", name)
	}
	_, err := env.farm.AddPool(aliceAddr, token.Bind(stakeTok, farmAddr), big.NewInt(1), false, 1000)
	assert.EqualError(t, err, "permission denied")
}

func TestSetWalletsChecks(t *testing.T) {
	env := newTestEnv(t)

	err := env.farm.SetWallets(adminAddr, treasuryAddr, harvester.Address{})
	assert.EqualError(t, err, "wallet address is required")

	// token contracts cannot receive beneficiary shares
	err = env.farm.SetWallets(adminAddr, rewardAddr, communityAddr)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, "wallet must be an externally owned account")

	err = env.farm.SetWallets(adminAddr, treasuryAddr, farmAddr)
	assert.EqualError(t, err, "wallet must be an externally owned account")
}

func TestSetRewardTokenChecks(t *testing.T) {
	env := newBareEnv(t)

	err := env.farm.SetRewardToken(adminAddr, nil)
	assert.EqualError(t, err, "reward token is required")

	// codeless address is not a deployed token
	codeless := token.Bind(token.New(treasuryAddr, env.st), farmAddr)
	err = env.farm.SetRewardToken(adminAddr, codeless)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, "reward token must be a contract")
}

func TestAddPoolPrerequisites(t *testing.T) {
	env := newBareEnv(t)
	stakeTok := env.newStakeToken(aliceAddr)

	_, err := env.farm.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(1), false, 1000)
	assert.EqualError(t, err, "reward token not set")

	reward := token.Create(env.st, rewardAddr, farmAddr)
	require.NoError(t, env.farm.SetRewardToken(adminAddr, token.Bind(reward, farmAddr)))

	_, err = env.farm.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(1), false, 1000)
	assert.EqualError(t, err, "wallets not set")

	require.NoError(t, env.farm.SetWallets(adminAddr, treasuryAddr, communityAddr))
	_, err = env.farm.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(1), false, 1000)
	assert.NoError(t, err)
}

func TestAddPoolChecks(t *testing.T) {
	env := newTestEnv(t)
	_, stakeTok := env.addPool(1, aliceAddr)

	_, err := env.farm.AddPool(adminAddr, nil, big.NewInt(1), false, 1000)
	assert.EqualError(t, err, "stake token is required")

	_, err = env.farm.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(-1), false, 1000)
	assert.EqualError(t, err, "invalid pool weight")

	// one pool per staked asset
	_, err = env.farm.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(2), false, 1000)
	assert.True(t, reverts.IsRevertErr(err))
	assert.EqualError(t, err, "stake token already added")

	// no new pools once the window is over
	other := env.newStakeToken(aliceAddr)
	_, err = env.farm.AddPool(adminAddr, token.Bind(other, farmAddr), big.NewInt(1), false, 1400)
	assert.EqualError(t, err, "emission window closed")

	codeless := token.Bind(token.New(bobAddr, env.st), farmAddr)
	_, err = env.farm.AddPool(adminAddr, codeless, big.NewInt(1), false, 1000)
	assert.EqualError(t, err, "stake token must be a contract")
}

func TestAddPoolBeforeWindowStart(t *testing.T) {
	env := newTestEnv(t)
	stakeTok := env.newStakeToken(aliceAddr)

	// accrual must not begin before the window opens
	pid, err := env.farm.AddPool(adminAddr, token.Bind(stakeTok, farmAddr), big.NewInt(1), false, 500)
	require.NoError(t, err)
	pool, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), pool.LastRewardBlock)
}

func TestAddPoolWithUpdate(t *testing.T) {
	env := newTestEnv(t)
	pid0, _ := env.addPool(1, aliceAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid0, big.NewInt(100), 1000))

	// settling first keeps the newcomer out of past emission
	newTok := env.newStakeToken(bobAddr)
	pid1, err := env.farm.AddPool(adminAddr, token.Bind(newTok, farmAddr), big.NewInt(1), true, 1010)
	require.NoError(t, err)

	pool0, err := env.farm.GetPool(pid0)
	require.NoError(t, err)
	assert.Equal(t, uint32(1010), pool0.LastRewardBlock)
	pending, err := env.farm.PendingReward(pid0, aliceAddr, 1010)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3000), pending)

	pool1, err := env.farm.GetPool(pid1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1010), pool1.LastRewardBlock)

	totalWeight, err := env.farm.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), totalWeight)
}

func TestSetPoolWeight(t *testing.T) {
	env := newTestEnv(t)
	pid, _ := env.addPool(1, aliceAddr)
	require.NoError(t, env.farm.Deposit(aliceAddr, pid, big.NewInt(100), 1000))

	// with update: accrual up to block 1010 still uses the old weight
	require.NoError(t, env.farm.SetPoolWeight(adminAddr, pid, big.NewInt(5), true, 1010))

	pool, err := env.farm.GetPool(pid)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), pool.Weight)
	assert.Equal(t, uint32(1010), pool.LastRewardBlock)
	totalWeight, err := env.farm.TotalWeight()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), totalWeight)

	pending, err := env.farm.PendingReward(pid, aliceAddr, 1010)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3000), pending)

	err = env.farm.SetPoolWeight(adminAddr, pid, nil, false, 1010)
	assert.EqualError(t, err, "invalid pool weight")
	err = env.farm.SetPoolWeight(adminAddr, pid+1, big.NewInt(1), false, 1010)
	assert.EqualError(t, err, "unknown pool 1")
}

func TestTransferTokenOwnership(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.farm.TransferTokenOwnership(adminAddr, bobAddr))
	owner, err := env.reward.Owner()
	require.NoError(t, err)
	assert.Equal(t, bobAddr, owner)

	// minting rights are gone, a second handover must fail
	err = env.farm.TransferTokenOwnership(adminAddr, aliceAddr)
	require.Error(t, err)
}

func TestTransferTokenOwnershipChecks(t *testing.T) {
	env := newBareEnv(t)
	err := env.farm.TransferTokenOwnership(adminAddr, bobAddr)
	assert.EqualError(t, err, "reward token not set")
}
