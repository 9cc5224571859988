// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/openfarm/harvester/api/restutil"
	"github.com/openfarm/harvester/farm"
	"github.com/openfarm/harvester/farm/reverts"
	"github.com/openfarm/harvester/harvester"
)

// Farms exposes read-only views of the reward engine. Every handler takes
// the host lock, so reads never interleave with a mutating entry point.
type Farms struct {
	engine      *farm.Farm
	lock        sync.Locker
	blockSource func() uint32
}

func New(engine *farm.Farm, lock sync.Locker, blockSource func() uint32) *Farms {
	return &Farms{
		engine:      engine,
		lock:        lock,
		blockSource: blockSource,
	}
}

func (f *Farms) parsePoolID(req *http.Request) (uint32, error) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 32)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	return uint32(id), nil
}

// parseBlock reads the optional ?block= query, falling back to the host's
// current block.
func (f *Farms) parseBlock(req *http.Request) (uint32, error) {
	raw := req.URL.Query().Get("block")
	if raw == "" {
		return f.blockSource(), nil
	}
	block, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, restutil.BadRequest(errors.WithMessage(err, "block"))
	}
	if block > math.MaxUint32 {
		return 0, restutil.BadRequest(errors.New("block: out of max uint32"))
	}
	return uint32(block), nil
}

// mapEngineErr turns engine reverts into client errors; anything else is a
// server fault.
func mapEngineErr(err error) error {
	if reverts.IsRevertErr(err) {
		return restutil.NotFound(err)
	}
	return err
}

func (f *Farms) getPool(id uint32) (*Pool, error) {
	pool, err := f.engine.GetPool(id)
	if err != nil {
		return nil, mapEngineErr(err)
	}
	stakedSupply, err := f.engine.StakedSupply(id)
	if err != nil {
		return nil, mapEngineErr(err)
	}
	return convertPool(id, pool, stakedSupply), nil
}

func (f *Farms) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	count, err := f.engine.PoolCount()
	if err != nil {
		return err
	}
	pools := make([]*Pool, 0, count)
	for id := uint32(0); id < count; id++ {
		pool, err := f.getPool(id)
		if err != nil {
			return err
		}
		pools = append(pools, pool)
	}
	return restutil.WriteJSON(w, pools)
}

func (f *Farms) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := f.parsePoolID(req)
	if err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	pool, err := f.getPool(id)
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, pool)
}

func (f *Farms) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	id, err := f.parsePoolID(req)
	if err != nil {
		return err
	}
	addr, err := harvester.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	block, err := f.parseBlock(req)
	if err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	pending, err := f.engine.PendingReward(id, *addr, block)
	if err != nil {
		return mapEngineErr(err)
	}
	return restutil.WriteJSON(w, restutil.M{
		"pending": decimalPtr(pending),
		"block":   block,
	})
}

func (f *Farms) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := f.parsePoolID(req)
	if err != nil {
		return err
	}
	addr, err := harvester.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "address"))
	}
	block, err := f.parseBlock(req)
	if err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()

	position, err := f.engine.GetPosition(id, *addr)
	if err != nil {
		return mapEngineErr(err)
	}
	pending, err := f.engine.PendingReward(id, *addr, block)
	if err != nil {
		return mapEngineErr(err)
	}
	return restutil.WriteJSON(w, &Position{
		Amount:     decimal(position.Amount),
		RewardDebt: decimal(position.RewardDebt),
		Pending:    decimal(pending),
	})
}

func (f *Farms) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, convertSchedule(f.engine.Schedule()))
}

func (f *Farms) handleGetTotals(w http.ResponseWriter, _ *http.Request) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	count, err := f.engine.PoolCount()
	if err != nil {
		return err
	}
	totalWeight, err := f.engine.TotalWeight()
	if err != nil {
		return err
	}
	rewardToken, err := f.engine.RewardTokenAddress()
	if err != nil {
		return err
	}
	treasury, community, err := f.engine.Wallets()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Totals{
		PoolCount:   count,
		TotalWeight: decimal(totalWeight),
		RewardToken: rewardToken,
		Treasury:    treasury,
		Community:   community,
		Block:       f.blockSource(),
	})
}

func (f *Farms) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/pools").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(f.handleGetPools))
	sub.Path("/pools/{id}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(f.handleGetPool))
	sub.Path("/pools/{id}/pending/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(f.handleGetPending))
	sub.Path("/pools/{id}/positions/{address}").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(f.handleGetPosition))
	sub.Path("/schedule").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(f.handleGetSchedule))
	sub.Path("/totals").Methods(http.MethodGet).HandlerFunc(restutil.WrapHandlerFunc(f.handleGetTotals))
}
