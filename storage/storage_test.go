// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/state"
	"github.com/openfarm/harvester/storage"
)

func newContext() *storage.Context {
	return storage.NewContext(harvester.BytesToAddress([]byte("contract")), state.New())
}

func TestUint256(t *testing.T) {
	cell := storage.NewUint256(newContext(), harvester.BytesToBytes32([]byte("counter")))

	v, err := cell.Get()
	assert.NoError(t, err)
	assert.Zero(t, v.Sign())

	cell.Set(big.NewInt(100))
	assert.NoError(t, cell.Add(big.NewInt(23)))
	assert.NoError(t, cell.Sub(big.NewInt(3)))

	v, err = cell.Get()
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(120), v)
}

func TestAddress(t *testing.T) {
	cell := storage.NewAddress(newContext(), harvester.BytesToBytes32([]byte("wallet")))

	v, err := cell.Get()
	assert.NoError(t, err)
	assert.True(t, v.IsZero())

	addr := harvester.BytesToAddress([]byte("treasury"))
	cell.Set(addr)
	v, err = cell.Get()
	assert.NoError(t, err)
	assert.Equal(t, addr, v)
}

type record struct {
	Amount *big.Int
	Block  uint32
}

func TestMapping(t *testing.T) {
	m := storage.NewMapping[harvester.Address, *record](newContext(), harvester.BytesToBytes32([]byte("records")))

	key := harvester.BytesToAddress([]byte("user"))

	// absent key decodes to a zero value, not nil
	got, err := m.Get(key)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Nil(t, got.Amount)
	assert.Zero(t, got.Block)

	want := &record{Amount: big.NewInt(42), Block: 7}
	assert.NoError(t, m.Set(key, want))

	got, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, want.Amount, got.Amount)
	assert.Equal(t, want.Block, got.Block)

	// distinct keys occupy distinct slots
	other, err := m.Get(harvester.BytesToAddress([]byte("other")))
	assert.NoError(t, err)
	assert.Nil(t, other.Amount)
}
