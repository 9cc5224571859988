// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/state"
	"github.com/openfarm/harvester/storage"
)

var (
	slotTotalSupply = harvester.BytesToBytes32([]byte("total-supply"))
	slotOwner       = harvester.BytesToBytes32([]byte("owner"))
	slotBalances    = harvester.BytesToBytes32([]byte("balances"))
	slotAllowances  = harvester.BytesToBytes32([]byte("allowances"))
)

// marker registered as account code so that contract detection works
var contractCode = []byte{0x01}

// Fungible is a minimal fungible token living on the world state, bound to
// a contract address. Because its balances share the state store with the
// engine, a checkpoint revert rolls its effects back together with the
// engine's own, matching the host's all-or-nothing transaction model.
type Fungible struct {
	context     *storage.Context
	totalSupply *storage.Uint256
	owner       *storage.Address
	balances    *storage.Mapping[harvester.Address, *big.Int]
	allowances  *storage.Mapping[harvester.Bytes32, *big.Int]
}

// New binds a token instance to the given contract address.
func New(addr harvester.Address, st *state.State) *Fungible {
	context := storage.NewContext(addr, st)
	return &Fungible{
		context:     context,
		totalSupply: storage.NewUint256(context, slotTotalSupply),
		owner:       storage.NewAddress(context, slotOwner),
		balances:    storage.NewMapping[harvester.Address, *big.Int](context, slotBalances),
		allowances:  storage.NewMapping[harvester.Bytes32, *big.Int](context, slotAllowances),
	}
}

// Create deploys a token at the given address with the given owner as the
// sole minter.
func Create(st *state.State, addr, owner harvester.Address) *Fungible {
	f := New(addr, st)
	st.SetCode(addr, contractCode)
	f.owner.Set(owner)
	return f
}

// Address returns the token's contract address.
func (f *Fungible) Address() harvester.Address {
	return f.context.Address()
}

// Owner returns the current owner, the only account allowed to mint.
func (f *Fungible) Owner() (harvester.Address, error) {
	return f.owner.Get()
}

// TotalSupply returns the total minted supply.
func (f *Fungible) TotalSupply() (*big.Int, error) {
	return f.totalSupply.Get()
}

// BalanceOf returns the balance of the given account.
func (f *Fungible) BalanceOf(addr harvester.Address) (*big.Int, error) {
	balance, err := f.balances.Get(addr)
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return new(big.Int), nil
	}
	return balance, nil
}

// TransferOwnership hands minting rights over to a new owner.
func (f *Fungible) TransferOwnership(sender, newOwner harvester.Address) error {
	owner, err := f.owner.Get()
	if err != nil {
		return err
	}
	if sender != owner {
		return errors.New("token: caller is not the owner")
	}
	f.owner.Set(newOwner)
	return nil
}

// Mint creates amount units and credits them to `to`. Owner only.
func (f *Fungible) Mint(sender, to harvester.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	owner, err := f.owner.Get()
	if err != nil {
		return err
	}
	if sender != owner {
		return errors.New("token: caller is not the owner")
	}
	if err := f.addBalance(to, amount); err != nil {
		return err
	}
	return f.totalSupply.Add(amount)
}

// Transfer moves amount units from sender to `to`.
func (f *Fungible) Transfer(sender, to harvester.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := f.subBalance(sender, amount); err != nil {
		return err
	}
	return f.addBalance(to, amount)
}

// Approve lets spender move up to amount units out of sender's balance.
func (f *Fungible) Approve(sender, spender harvester.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return f.allowances.Set(allowanceKey(sender, spender), amount)
}

// Allowance returns the remaining amount spender may move out of owner's
// balance.
func (f *Fungible) Allowance(owner, spender harvester.Address) (*big.Int, error) {
	allowance, err := f.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, err
	}
	if allowance == nil {
		return new(big.Int), nil
	}
	return allowance, nil
}

// TransferFrom moves amount units from `from` to `to` on behalf of sender,
// consuming sender's allowance unless sender is `from` itself.
func (f *Fungible) TransferFrom(sender, from, to harvester.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if sender != from {
		allowance, err := f.Allowance(from, sender)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return errors.New("token: insufficient allowance")
		}
		if err := f.allowances.Set(allowanceKey(from, sender), new(big.Int).Sub(allowance, amount)); err != nil {
			return err
		}
	}
	if err := f.subBalance(from, amount); err != nil {
		return err
	}
	return f.addBalance(to, amount)
}

func (f *Fungible) addBalance(addr harvester.Address, amount *big.Int) error {
	balance, err := f.BalanceOf(addr)
	if err != nil {
		return err
	}
	return f.balances.Set(addr, new(big.Int).Add(balance, amount))
}

func (f *Fungible) subBalance(addr harvester.Address, amount *big.Int) error {
	balance, err := f.BalanceOf(addr)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return errors.New("token: insufficient balance")
	}
	return f.balances.Set(addr, new(big.Int).Sub(balance, amount))
}

func allowanceKey(owner, spender harvester.Address) harvester.Bytes32 {
	return harvester.Blake2b(owner.Bytes(), spender.Bytes())
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("token: invalid amount")
	}
	return nil
}
