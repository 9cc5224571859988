// Copyright (c) 2026 The Harvester developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(NewTerminalHandler(&buf, false))

	l.Info("pool settled", "pid", 3, "reward", big.NewInt(1000))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[info "), out)
	assert.Contains(t, out, "pool settled")
	assert.Contains(t, out, "pid=3")
	assert.Contains(t, out, "reward=1000")
}

func TestTerminalHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewTerminalHandler(&buf, false)
	h.lvl.Set(LevelWarn)
	l := NewLogger(h)

	l.Debug("dropped")
	l.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(NewTerminalHandler(&buf, false)))
	defer SetDefault(NewLogger(DiscardHandler()))

	WithContext("pkg", "farm").Info("hello")
	assert.Contains(t, buf.String(), `pkg="farm"`)
}
