package candb_test

import (
	"errors"
	"testing"

	candb "github.com/stefanhoelzl/go-candb"
	"github.com/stretchr/testify/assert"
)

func newUintPtr(v uint) *uint { return &v }

func TestMessageAddSignalRejectsDuplicateMembership(t *testing.T) {
	m1 := candb.NewMessage(1, "M1", 1)
	m2 := candb.NewMessage(2, "M2", 1)
	s := candb.NewSignal("S", 0, 4, true, false, 1, 0, 0, 0, "")

	assert.NoError(t, m1.AddSignal(s))
	err := m2.AddSignal(s)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, candb.ErrStructural))
}

func TestMessageAddSignalRejectsOverflow(t *testing.T) {
	m := candb.NewMessage(1, "M", 1) // 8 bits total
	s := candb.NewSignal("S", 4, 8, true, false, 1, 0, 0, 0, "")
	err := m.AddSignal(s)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, candb.ErrStructural))
}

func TestMessageAddSignalRejectsOverlap(t *testing.T) {
	m := candb.NewMessage(1, "M", 2)
	s1 := candb.NewSignal("S1", 0, 8, true, false, 1, 0, 0, 0, "")
	s2 := candb.NewSignal("S2", 4, 8, true, false, 1, 0, 0, 0, "")

	assert.NoError(t, m.AddSignal(s1))
	err := m.AddSignal(s2)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, candb.ErrStructural))
}

func TestMessageAddSignalAllowsOverlapAcrossMultiplexerGroups(t *testing.T) {
	m := candb.NewMessage(1, "M", 2)
	mux := candb.NewSignal("Mux", 0, 4, true, false, 1, 0, 0, 0, "")
	mux.IsMultiplexer = true
	assert.NoError(t, m.AddSignal(mux))

	group0 := candb.NewSignal("Data0", 4, 8, true, false, 1, 0, 0, 0, "")
	group0.MultiplexerID = newUintPtr(0)
	group1 := candb.NewSignal("Data1", 4, 8, true, false, 1, 0, 0, 0, "")
	group1.MultiplexerID = newUintPtr(1)

	assert.NoError(t, m.AddSignal(group0))
	assert.NoError(t, m.AddSignal(group1))
}

// after adding a multiplexer signal and a signal keyed to multiplexer
// group 0 into the same message, the multiplexer is identifiable and the
// data signal carries its group id.
func TestMessageMultiplexerCoherence(t *testing.T) {
	m := candb.NewMessage(1, "M", 2)
	mux := candb.NewSignal("Mux", 0, 4, true, false, 1, 0, 0, 0, "")
	mux.IsMultiplexer = true
	assert.NoError(t, m.AddSignal(mux))

	data := candb.NewSignal("Data", 4, 8, true, false, 1, 0, 0, 0, "")
	data.MultiplexerID = newUintPtr(0)
	assert.NoError(t, m.AddSignal(data))

	assert.Same(t, mux, m.GetMultiplexerSignal())
	assert.Equal(t, uint(0), *m.Signals["Data"].MultiplexerID)
}

func TestMessageRejectsSecondMultiplexerSignal(t *testing.T) {
	m := candb.NewMessage(1, "M", 2)
	mux1 := candb.NewSignal("Mux1", 0, 4, true, false, 1, 0, 0, 0, "")
	mux1.IsMultiplexer = true
	assert.NoError(t, m.AddSignal(mux1))

	mux2 := candb.NewSignal("Mux2", 4, 4, true, false, 1, 0, 0, 0, "")
	mux2.IsMultiplexer = true
	err := m.AddSignal(mux2)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, candb.ErrStructural))
}

func TestMessageRejectsMultiplexerIDWithoutMultiplexerSignal(t *testing.T) {
	m := candb.NewMessage(1, "M", 2)
	data := candb.NewSignal("Data", 0, 4, true, false, 1, 0, 0, 0, "")
	data.MultiplexerID = newUintPtr(0)
	err := m.AddSignal(data)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, candb.ErrStructural))
}

// a 2-byte message with Signal0 (start=0, len=8, raw=159) and
// Signal1 (start=8, len=8, raw=96), both little-endian unsigned, packs to
// int(bits0) | (int(bits1) << 8).
func TestMessagePack(t *testing.T) {
	m := candb.NewMessage(1, "M", 2)
	s0 := candb.NewSignal("Signal0", 0, 8, true, false, 1, 0, 0, 0, "")
	s1 := candb.NewSignal("Signal1", 8, 8, true, false, 1, 0, 0, 0, "")
	assert.NoError(t, m.AddSignal(s0))
	assert.NoError(t, m.AddSignal(s1))
	assert.NoError(t, s0.SetRawValue(159))
	assert.NoError(t, s1.SetRawValue(96))

	assert.Equal(t, uint64(159)|(uint64(96)<<8), m.Pack())
}
