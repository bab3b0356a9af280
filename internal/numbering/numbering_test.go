package numbering

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seqSource struct {
	values []int
	calls  int
}

func (s *seqSource) Intn(n int) int {
	v := s.values[s.calls%len(s.values)] % n
	s.calls++
	return v
}

var errDup = errors.New("duplicate")

func isDup(err error) bool { return errors.Is(err, errDup) }

func fixedClock() time.Time {
	return time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)
}

func TestGenerator_Next(t *testing.T) {
	tests := []struct {
		prefix Prefix
		suffix int
		want   string
	}{
		{PrefixMRRV, 42, "MRRV-202610-042"},
		{PrefixMIRV, 7, "MIRV-202610-007"},
		{PrefixMRV, 999, "MRV-202610-999"},
		{PrefixRFIM, 0, "RFIM-202610-000"},
		{PrefixOSD, 310, "OSD-202610-310"},
		{PrefixGatePass, 5, "GP-202610-005"},
		{PrefixShipment, 12, "ST-202610-012"},
		{PrefixJobOrder, 462, "JO-202610-0462"},
	}
	for _, tt := range tests {
		t.Run(string(tt.prefix), func(t *testing.T) {
			g := NewGenerator(WithClock(fixedClock), WithSource(&seqSource{values: []int{tt.suffix}}))
			got := g.Next(tt.prefix)
			assert.Equal(t, tt.want, got)
			assert.True(t, Valid(got, tt.prefix, fixedClock()))
		})
	}
}

func TestGenerator_RandomNumbersAreWellFormed(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock))
	for _, p := range []Prefix{PrefixMRRV, PrefixMIRV, PrefixMRV, PrefixJobOrder, PrefixRFIM, PrefixOSD, PrefixGatePass, PrefixShipment} {
		for i := 0; i < 200; i++ {
			n := g.Next(p)
			require.True(t, Valid(n, p, fixedClock()), n)
		}
	}
}

func TestValid(t *testing.T) {
	at := fixedClock()
	tests := []struct {
		number string
		prefix Prefix
		want   bool
	}{
		{"MRRV-202610-001", PrefixMRRV, true},
		{"MRRV-202609-001", PrefixMRRV, false},
		{"MRRV-202610-0001", PrefixMRRV, false},
		{"MIRV-202610-001", PrefixMRRV, false},
		{"JO-202610-0001", PrefixJobOrder, true},
		{"JO-202610-001", PrefixJobOrder, false},
		{"JO-2026-0001", PrefixJobOrder, false},
		{"", PrefixMRV, false},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.number, tt.prefix, at))
		})
	}
}

func TestAssign_RetriesOnCollision(t *testing.T) {
	var collisions int
	g := NewGenerator(
		WithClock(fixedClock),
		WithSource(&seqSource{values: []int{1, 1, 2}}),
		OnCollision(func(Prefix) { collisions++ }),
	)
	taken := map[string]bool{"MRRV-202610-001": true}

	var got string
	err := g.Assign(PrefixMRRV, isDup, func(n string) error {
		if taken[n] {
			return errDup
		}
		got = n
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "MRRV-202610-002", got)
	assert.Equal(t, 2, collisions)
}

func TestAssign_GivesUpAfterMaxAttempts(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock), WithSource(&seqSource{values: []int{3}}), WithMaxAttempts(4))
	calls := 0
	err := g.Assign(PrefixMIRV, isDup, func(string) error {
		calls++
		return errDup
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, calls)
}

func TestAssign_StopsOnOtherErrors(t *testing.T) {
	g := NewGenerator(WithClock(fixedClock))
	boom := errors.New("boom")
	calls := 0
	err := g.Assign(PrefixMRV, isDup, func(string) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}
