// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/openfarm/harvester/harvester"
)

// Address is a wrapper for storage and retrieval of an account address
// held in a single slot.
type Address struct {
	context *Context
	pos     harvester.Bytes32
}

func NewAddress(context *Context, slot harvester.Bytes32) *Address {
	return &Address{context: context, pos: slot}
}

func (a *Address) Get() (harvester.Address, error) {
	storage, err := a.context.state.GetStorage(a.context.address, a.pos)
	if err != nil {
		return harvester.Address{}, err
	}
	return harvester.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(value harvester.Address) {
	a.context.state.SetStorage(a.context.address, a.pos, harvester.BytesToBytes32(value.Bytes()))
}
