// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

const (
	kindStorage = byte(iota)
	kindCode
)

type entryKey struct {
	kind byte
	addr harvester.Address
	slot harvester.Bytes32
}

// State manages the world state of the engine and its collaborator contracts.
//
// Reads and writes go through a stacked map so that any sequence of mutations
// can be reverted to a checkpoint, which is how entry points achieve
// all-or-nothing semantics. Committed data lives in a plain in-memory source
// map; the source could be swapped for a persistent one without touching
// callers.
type State struct {
	src map[entryKey][]byte
	sm  *stackedmap.StackedMap[entryKey, []byte]
}

// New creates an empty world state.
func New() *State {
	s := &State{src: make(map[entryKey][]byte)}
	s.sm = stackedmap.New(func(key entryKey) ([]byte, bool) {
		v, ok := s.src[key]
		return v, ok
	})
	// base level that Commit collapses into the source map
	s.sm.Push()
	return s
}

// GetStorage returns storage value for the given key.
func (s *State) GetStorage(addr harvester.Address, key harvester.Bytes32) (harvester.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return harvester.Bytes32{}, err
	}
	return harvester.BytesToBytes32(raw), nil
}

// SetStorage sets storage value for the given key.
// Setting a zero value clears the slot.
func (s *State) SetStorage(addr harvester.Address, key, value harvester.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	s.SetRawStorage(addr, key, value.Bytes())
}

// GetRawStorage returns storage value in raw form.
func (s *State) GetRawStorage(addr harvester.Address, key harvester.Bytes32) ([]byte, error) {
	raw, _ := s.sm.Get(entryKey{kindStorage, addr, key})
	return raw, nil
}

// SetRawStorage sets storage value in raw form.
func (s *State) SetRawStorage(addr harvester.Address, key harvester.Bytes32, raw []byte) {
	s.sm.Put(entryKey{kindStorage, addr, key}, raw)
}

// EncodeStorage sets storage value encoded by given enc function.
// An empty encoded value clears the slot.
func (s *State) EncodeStorage(addr harvester.Address, key harvester.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage gets and decodes storage value.
func (s *State) DecodeStorage(addr harvester.Address, key harvester.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetCode returns code of the given account.
func (s *State) GetCode(addr harvester.Address) ([]byte, error) {
	code, _ := s.sm.Get(entryKey{kind: kindCode, addr: addr})
	return code, nil
}

// SetCode sets code of the given account.
func (s *State) SetCode(addr harvester.Address, code []byte) {
	s.sm.Put(entryKey{kind: kindCode, addr: addr}, code)
}

// NewCheckpoint makes a checkpoint of the current state.
// It returns the checkpoint to be passed to RevertTo.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to the checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit collapses all journaled mutations into the source map and resets
// the checkpoint stack. It must not be called with outstanding checkpoints
// whose outcome is still undecided.
func (s *State) Commit() {
	s.sm.Journal(func(key entryKey, value []byte) bool {
		if len(value) == 0 {
			delete(s.src, key)
		} else {
			s.src[key] = value
		}
		return true
	})
	s.sm.PopTo(0)
	s.sm.Push()
}
