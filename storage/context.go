// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/state"
)

// Context binds typed cells to the storage space of one contract address.
type Context struct {
	address harvester.Address
	state   *state.State
}

func NewContext(address harvester.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() harvester.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
