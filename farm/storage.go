// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/openfarm/harvester/harvester"
	"github.com/openfarm/harvester/state"
	"github.com/openfarm/harvester/storage"
)

var (
	slotPools       = nameToSlot("pools")
	slotPoolCount   = nameToSlot("pool-count")
	slotPositions   = nameToSlot("positions")
	slotTotalWeight = nameToSlot("total-weight")
	slotTreasury    = nameToSlot("treasury-wallet")
	slotCommunity   = nameToSlot("community-wallet")
	slotRewardToken = nameToSlot("reward-token")
)

func nameToSlot(name string) harvester.Bytes32 {
	return harvester.BytesToBytes32([]byte(name))
}

func poolKey(pid uint32) harvester.Bytes32 {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, pid)
	return harvester.BytesToBytes32(b)
}

func positionKey(pid uint32, user harvester.Address) harvester.Bytes32 {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, pid)
	return harvester.Blake2b(b, user.Bytes())
}

// store is the root storage of the engine contract.
type store struct {
	context     *storage.Context
	pools       *storage.Mapping[harvester.Bytes32, *Pool]
	positions   *storage.Mapping[harvester.Bytes32, *UserPosition]
	poolCount   *storage.Uint256
	totalWeight *storage.Uint256
	treasury    *storage.Address
	community   *storage.Address
	rewardToken *storage.Address
}

func newStore(addr harvester.Address, st *state.State) *store {
	context := storage.NewContext(addr, st)
	return &store{
		context:     context,
		pools:       storage.NewMapping[harvester.Bytes32, *Pool](context, slotPools),
		positions:   storage.NewMapping[harvester.Bytes32, *UserPosition](context, slotPositions),
		poolCount:   storage.NewUint256(context, slotPoolCount),
		totalWeight: storage.NewUint256(context, slotTotalWeight),
		treasury:    storage.NewAddress(context, slotTreasury),
		community:   storage.NewAddress(context, slotCommunity),
		rewardToken: storage.NewAddress(context, slotRewardToken),
	}
}

func (s *store) PoolCount() (uint32, error) {
	count, err := s.poolCount.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pool count")
	}
	return uint32(count.Uint64()), nil
}

func (s *store) GetPool(pid uint32) (*Pool, error) {
	pool, err := s.pools.Get(poolKey(pid))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get pool %d", pid)
	}
	return pool.normalize(), nil
}

func (s *store) SetPool(pid uint32, pool *Pool) error {
	if err := s.pools.Set(poolKey(pid), pool); err != nil {
		return errors.Wrapf(err, "failed to set pool %d", pid)
	}
	return nil
}

// AppendPool stores the pool under the next free id and returns that id.
func (s *store) AppendPool(pool *Pool) (uint32, error) {
	pid, err := s.PoolCount()
	if err != nil {
		return 0, err
	}
	if err := s.SetPool(pid, pool); err != nil {
		return 0, err
	}
	s.poolCount.Set(new(big.Int).SetUint64(uint64(pid) + 1))
	return pid, nil
}

func (s *store) GetPosition(pid uint32, user harvester.Address) (*UserPosition, error) {
	position, err := s.positions.Get(positionKey(pid, user))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get position %d/%s", pid, user)
	}
	return position.normalize(), nil
}

func (s *store) SetPosition(pid uint32, user harvester.Address, position *UserPosition) error {
	if err := s.positions.Set(positionKey(pid, user), position); err != nil {
		return errors.Wrapf(err, "failed to set position %d/%s", pid, user)
	}
	return nil
}

func (s *store) TotalWeight() (*big.Int, error) {
	weight, err := s.totalWeight.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total weight")
	}
	return weight, nil
}

func (s *store) SetTotalWeight(weight *big.Int) {
	s.totalWeight.Set(weight)
}

func (s *store) Treasury() (harvester.Address, error) {
	return s.treasury.Get()
}

func (s *store) Community() (harvester.Address, error) {
	return s.community.Get()
}

func (s *store) SetWallets(treasury, community harvester.Address) {
	s.treasury.Set(treasury)
	s.community.Set(community)
}

func (s *store) RewardToken() (harvester.Address, error) {
	return s.rewardToken.Get()
}

func (s *store) SetRewardToken(addr harvester.Address) {
	s.rewardToken.Set(addr)
}
