// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopDefault(t *testing.T) {
	// the default service is a no-op; meters must be safe to use
	assert.IsType(t, &noopMetrics{}, metrics)

	Counter("c").Add(1)
	CounterVec("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "v"})
	Gauge("g").Set(1)
	GaugeVec("gv", []string{"l"}).SetWithLabel(1, map[string]string{"l": "v"})
	Histogram("h", BucketHTTPReqs).Observe(1)

	assert.Nil(t, HTTPHandler())
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	load := LazyLoad(func() int {
		calls++
		return 42
	})
	assert.Equal(t, 42, load())
	assert.Equal(t, 42, load())
	assert.Equal(t, 1, calls)
}
