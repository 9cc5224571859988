// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr("not an error"))
	assert.False(t, IsRevertErr(errors.New("plain")))

	assert.True(t, IsRevertErr(New("rejected")))
	assert.True(t, IsRevertErr(Errorf("pool %d unknown", 3)))
	assert.True(t, IsRevertErr(errors.Wrap(New("rejected"), "wrapped")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "rejected", New("rejected").Error())
	assert.Equal(t, "pool 3 unknown", Errorf("pool %d unknown", 3).Error())
}
