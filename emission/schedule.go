// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emission

import (
	"math"
	"math/big"

	"github.com/pkg/errors"
)

// Per-period decay applied to the block reward rate: each period emits
// floor(previous * 9900 / 10000) units per block.
const (
	DecayNumerator   = 9900
	DecayDenominator = 10000
)

// Reference deployment parameters.
const (
	DefaultPeriods      = uint32(24)
	DefaultPeriodLength = uint32(172800)
)

// DefaultBaseRate returns the reference period-1 emission rate.
func DefaultBaseRate() *big.Int {
	return big.NewInt(4_320_000)
}

// Config describes an emission window.
type Config struct {
	BaseRate     *big.Int // per-block rate of period 1
	Periods      uint32   // number of decaying periods
	PeriodLength uint32   // blocks per period
	StartBlock   uint32   // first block of the window
}

// DefaultConfig returns the reference deployment configuration, starting at
// the given block.
func DefaultConfig(startBlock uint32) Config {
	return Config{
		BaseRate:     DefaultBaseRate(),
		Periods:      DefaultPeriods,
		PeriodLength: DefaultPeriodLength,
		StartBlock:   startBlock,
	}
}

// Schedule is the immutable per-period reward-rate table of one emission
// window. The table is derived once at construction by geometric decay from
// the base rate; there is no runtime mutation.
type Schedule struct {
	rates        []*big.Int // index 0 holds period 1
	periodLength uint32
	startBlock   uint32
	endBlock     uint32
}

// NewSchedule builds the rate table from the given config.
func NewSchedule(cfg Config) (*Schedule, error) {
	if cfg.BaseRate == nil || cfg.BaseRate.Sign() <= 0 {
		return nil, errors.New("emission: base rate must be positive")
	}
	if cfg.Periods == 0 {
		return nil, errors.New("emission: period count must be positive")
	}
	if cfg.PeriodLength == 0 {
		return nil, errors.New("emission: period length must be positive")
	}
	span := uint64(cfg.Periods) * uint64(cfg.PeriodLength)
	if uint64(cfg.StartBlock)+span > math.MaxUint32 {
		return nil, errors.New("emission: window exceeds block number range")
	}

	rates := make([]*big.Int, cfg.Periods)
	rates[0] = new(big.Int).Set(cfg.BaseRate)
	for i := 1; i < len(rates); i++ {
		next := new(big.Int).Mul(rates[i-1], big.NewInt(DecayNumerator))
		rates[i] = next.Div(next, big.NewInt(DecayDenominator))
	}

	return &Schedule{
		rates:        rates,
		periodLength: cfg.PeriodLength,
		startBlock:   cfg.StartBlock,
		endBlock:     cfg.StartBlock + uint32(span),
	}, nil
}

// RateOf returns the per-block emission rate of the given period.
// Periods are numbered from 1.
func (s *Schedule) RateOf(period uint32) (*big.Int, error) {
	if period == 0 || period > uint32(len(s.rates)) {
		return nil, errors.Errorf("emission: period %d out of range [1, %d]", period, len(s.rates))
	}
	return new(big.Int).Set(s.rates[period-1]), nil
}

// StartBlock returns the first block of the emission window.
func (s *Schedule) StartBlock() uint32 {
	return s.startBlock
}

// EndBlock returns the first block past the emission window.
func (s *Schedule) EndBlock() uint32 {
	return s.endBlock
}

// Periods returns the number of periods.
func (s *Schedule) Periods() uint32 {
	return uint32(len(s.rates))
}

// PeriodLength returns the number of blocks per period.
func (s *Schedule) PeriodLength() uint32 {
	return s.periodLength
}

// PeriodOf returns the 1-based period containing the given block.
// The second return value is false for blocks outside the window.
func (s *Schedule) PeriodOf(block uint32) (uint32, bool) {
	if block < s.startBlock || block >= s.endBlock {
		return 0, false
	}
	return s.periodOf(block), true
}

func (s *Schedule) periodOf(block uint32) uint32 {
	return (block-s.startBlock)/s.periodLength + 1
}

// Multiplier returns the total reward units emittable for one full-weight
// pool over blocks in [from, to). Endpoints are clamped to the emission
// window; a range that is empty after clamping yields zero, never an error.
func (s *Schedule) Multiplier(from, to uint32) *big.Int {
	if from < s.startBlock {
		from = s.startBlock
	}
	if to > s.endBlock {
		to = s.endBlock
	}
	total := new(big.Int)
	if from >= to {
		return total
	}

	fromPeriod := s.periodOf(from)
	toPeriod := s.periodOf(to) // may be Periods+1 when to sits on the window end
	if fromPeriod == toPeriod {
		return total.Mul(big.NewInt(int64(to-from)), s.rates[fromPeriod-1])
	}

	// remainder of the period containing `from`
	head := s.startBlock + fromPeriod*s.periodLength - from
	total.Mul(big.NewInt(int64(head)), s.rates[fromPeriod-1])

	// full periods strictly in between
	for p := fromPeriod + 1; p < toPeriod; p++ {
		total.Add(total, new(big.Int).Mul(big.NewInt(int64(s.periodLength)), s.rates[p-1]))
	}

	// partial of the period containing `to`; zero when `to` sits on a
	// period boundary, in which case its period rate is never read
	tail := (to - s.startBlock) % s.periodLength
	if tail > 0 {
		total.Add(total, new(big.Int).Mul(big.NewInt(int64(tail)), s.rates[toPeriod-1]))
	}
	return total
}
