// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/openfarm/harvester/harvester"
)

// Binding wraps a Fungible with a fixed sender identity, yielding the
// caller-free method set the farm engine consumes. The sender acts as the
// minter for Mint, the source of funds for Transfer and the approved
// spender for TransferFrom.
type Binding struct {
	token  *Fungible
	sender harvester.Address
}

// Bind binds the token to the given sender.
func Bind(token *Fungible, sender harvester.Address) *Binding {
	return &Binding{token: token, sender: sender}
}

func (b *Binding) Address() harvester.Address {
	return b.token.Address()
}

func (b *Binding) Mint(to harvester.Address, amount *big.Int) error {
	return b.token.Mint(b.sender, to, amount)
}

func (b *Binding) Transfer(to harvester.Address, amount *big.Int) error {
	return b.token.Transfer(b.sender, to, amount)
}

func (b *Binding) TransferFrom(from, to harvester.Address, amount *big.Int) error {
	return b.token.TransferFrom(b.sender, from, to, amount)
}

func (b *Binding) BalanceOf(addr harvester.Address) (*big.Int, error) {
	return b.token.BalanceOf(addr)
}

func (b *Binding) TransferOwnership(newOwner harvester.Address) error {
	return b.token.TransferOwnership(b.sender, newOwner)
}
