// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/openfarm/harvester/farm"
	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/log"
)

// host drives the engine with a wall-clock block counter. All engine entry
// points run under mu, one at a time; API reads take the same lock.
type host struct {
	mu     sync.Mutex
	engine *farm.Farm
	admin  harvester.Address
	block  atomic.Uint32

	blockInterval  time.Duration
	settleInterval uint32
}

func newHost(engine *farm.Farm, admin harvester.Address, startBlock uint32, blockInterval time.Duration, settleInterval uint32) *host {
	h := &host{
		engine:         engine,
		admin:          admin,
		blockInterval:  blockInterval,
		settleInterval: settleInterval,
	}
	h.block.Store(startBlock)
	return h
}

func (h *host) currentBlock() uint32 {
	return h.block.Load()
}

// loop advances the block counter until done closes, mass-settling every
// settleInterval blocks.
func (h *host) loop(done <-chan struct{}) {
	ticker := time.NewTicker(h.blockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			block := h.block.Add(1)
			if h.settleInterval == 0 || block%h.settleInterval != 0 {
				continue
			}
			h.mu.Lock()
			err := h.engine.MassSettle(h.admin, block)
			h.mu.Unlock()
			if err != nil {
				log.Error("mass settlement failed", "block", block, "err", err)
				continue
			}
			log.Info("pools settled", "block", block)
		}
	}
}
