// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/state"
	"github.com/openfarm/harvester/token"
)

var (
	tokenAddr = harvester.BytesToAddress([]byte("token"))
	owner     = harvester.BytesToAddress([]byte("owner"))
	alice     = harvester.BytesToAddress([]byte("alice"))
	bob       = harvester.BytesToAddress([]byte("bob"))
)

func newToken(t *testing.T) (*token.Fungible, *state.State) {
	t.Helper()
	st := state.New()
	return token.Create(st, tokenAddr, owner), st
}

func balance(t *testing.T, tok *token.Fungible, addr harvester.Address) *big.Int {
	t.Helper()
	b, err := tok.BalanceOf(addr)
	require.NoError(t, err)
	return b
}

func TestCreate(t *testing.T) {
	tok, st := newToken(t)

	got, err := tok.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	// token accounts are contracts
	code, err := st.GetCode(tokenAddr)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Zero(t, supply.Sign())
}

func TestMint(t *testing.T) {
	tok, _ := newToken(t)

	assert.Error(t, tok.Mint(alice, alice, big.NewInt(100)), "non-owner must not mint")

	require.NoError(t, tok.Mint(owner, alice, big.NewInt(100)))
	assert.Equal(t, big.NewInt(100), balance(t, tok, alice))

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), supply)

	assert.Error(t, tok.Mint(owner, alice, big.NewInt(-1)))
}

func TestTransfer(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(owner, alice, big.NewInt(100)))

	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(40)))
	assert.Equal(t, big.NewInt(60), balance(t, tok, alice))
	assert.Equal(t, big.NewInt(40), balance(t, tok, bob))

	assert.Error(t, tok.Transfer(alice, bob, big.NewInt(61)), "insufficient balance")
	assert.Equal(t, big.NewInt(60), balance(t, tok, alice))
}

func TestTransferFrom(t *testing.T) {
	tok, _ := newToken(t)
	require.NoError(t, tok.Mint(owner, alice, big.NewInt(100)))

	spender := harvester.BytesToAddress([]byte("spender"))
	assert.Error(t, tok.TransferFrom(spender, alice, bob, big.NewInt(10)), "no allowance")

	require.NoError(t, tok.Approve(alice, spender, big.NewInt(50)))
	require.NoError(t, tok.TransferFrom(spender, alice, bob, big.NewInt(30)))
	assert.Equal(t, big.NewInt(70), balance(t, tok, alice))
	assert.Equal(t, big.NewInt(30), balance(t, tok, bob))

	remaining, err := tok.Allowance(alice, spender)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(20), remaining)

	assert.Error(t, tok.TransferFrom(spender, alice, bob, big.NewInt(21)), "exceeds allowance")

	// the holder itself spends without an allowance
	require.NoError(t, tok.TransferFrom(alice, alice, bob, big.NewInt(5)))
}

func TestTransferOwnership(t *testing.T) {
	tok, _ := newToken(t)

	assert.Error(t, tok.TransferOwnership(alice, alice))

	require.NoError(t, tok.TransferOwnership(owner, alice))
	got, err := tok.Owner()
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	// previous owner lost minting rights
	assert.Error(t, tok.Mint(owner, bob, big.NewInt(1)))
	require.NoError(t, tok.Mint(alice, bob, big.NewInt(1)))
}

func TestRevertCoversTokenState(t *testing.T) {
	tok, st := newToken(t)
	require.NoError(t, tok.Mint(owner, alice, big.NewInt(100)))

	cp := st.NewCheckpoint()
	require.NoError(t, tok.Transfer(alice, bob, big.NewInt(100)))
	st.RevertTo(cp)

	assert.Equal(t, big.NewInt(100), balance(t, tok, alice))
	assert.Zero(t, balance(t, tok, bob).Sign())
}

func TestBinding(t *testing.T) {
	tok, _ := newToken(t)
	bound := token.Bind(tok, owner)

	require.NoError(t, bound.Mint(alice, big.NewInt(100)))

	require.NoError(t, tok.Approve(alice, owner, big.NewInt(50)))
	require.NoError(t, bound.TransferFrom(alice, owner, big.NewInt(50)))

	got, err := bound.BalanceOf(owner)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), got)

	require.NoError(t, bound.Transfer(bob, big.NewInt(10)))
	assert.Equal(t, big.NewInt(10), balance(t, tok, bob))
}
