package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildAB(t *testing.T) *Dfa {
	t.Helper()
	d := NewDfa()
	d.SetMaxState(2)
	d.SetMaxIw(10)
	require.NoError(t, d.Create())
	require.NoError(t, d.SetInitial(0))
	require.NoError(t, d.SetTransition(0, 5, 1))
	require.NoError(t, d.SetTransition(1, 6, 2))
	require.NoError(t, d.SetTransition(1, 3, DeadState))
	require.NoError(t, d.SetTransition(2, 7, NoState))
	require.NoError(t, d.SetFinals([]int{2, 2}))
	require.NoError(t, d.Prepare())
	return d
}

func TestDfaLifecycle(t *testing.T) {
	d := buildAB(t)

	require.True(t, d.Ready())
	require.Equal(t, 2, d.MaxState())
	require.Equal(t, 10, d.MaxIw())
	require.Equal(t, []int{3, 5, 6}, d.IWs(), "NoState transitions must not extend the alphabet")
	require.Equal(t, []int{2}, d.Finals())
	require.True(t, d.IsFinal(2))
	require.False(t, d.IsFinal(1))

	require.Equal(t, 1, d.Dest(0, 5))
	require.Equal(t, DeadState, d.Dest(1, 3))
	require.Equal(t, NoState, d.Dest(0, 6))
	require.Equal(t, NoState, d.Dest(2, 7))
	require.Equal(t, NoState, d.Dest(9, 5))
}

func TestDfaOrderAndBounds(t *testing.T) {
	d := NewDfa()
	require.ErrorIs(t, d.SetTransition(0, 0, 0), ErrNotCreated)
	require.ErrorIs(t, d.Prepare(), ErrNotCreated)
	require.ErrorIs(t, d.Create(), ErrOutOfRange)

	d.SetMaxState(1)
	d.SetMaxIw(1)
	require.NoError(t, d.Create())
	require.ErrorIs(t, d.SetTransition(2, 0, 0), ErrOutOfRange)
	require.ErrorIs(t, d.SetTransition(0, 2, 0), ErrOutOfRange)
	require.ErrorIs(t, d.SetTransition(0, 0, 5), ErrOutOfRange)
	require.ErrorIs(t, d.SetInitial(3), ErrOutOfRange)
	require.ErrorIs(t, d.SetFinals([]int{-1}), ErrOutOfRange)
	require.ErrorIs(t, d.SetIWs([]int{9}), ErrOutOfRange)
	require.ErrorIs(t, d.SetTransitions(0, []int{0}, nil), ErrLengthMismatch)
}

func TestDfaClear(t *testing.T) {
	d := buildAB(t)
	d.Clear()
	require.False(t, d.Ready())
	require.Equal(t, -1, d.MaxState())
	require.Empty(t, d.IWs())
	require.ErrorIs(t, d.SetInitial(0), ErrNotCreated)
}

func TestDfaMutationInvalidatesReady(t *testing.T) {
	d := buildAB(t)
	require.NoError(t, d.SetIWs([]int{9}))
	require.False(t, d.Ready())
	require.NoError(t, d.Prepare())
	require.Equal(t, []int{3, 5, 6, 9}, d.IWs())
}

func TestOutputMaps(t *testing.T) {
	m := NewMealy()
	m.SetOw(0, 5, 42)
	require.Equal(t, 42, m.Ow(0, 5))
	require.Equal(t, NoOw, m.Ow(0, 6))
	m.SetOw(0, 5, NoOw)
	require.Equal(t, NoOw, m.Ow(0, 5))

	s := NewStateOw()
	s.SetOw(1, 7)
	require.Equal(t, 7, s.Ow(1))
	require.Equal(t, NoOw, s.Ow(0))

	ows := NewStateOws()
	ows.SetOws(2, []int{9, 1, 9})
	ows.AddOw(2, 4)
	require.False(t, ows.Ready())
	ows.Prepare()
	require.True(t, ows.Ready())
	require.Equal(t, []int{1, 4, 9}, ows.Ows(2))
	require.Nil(t, ows.Ows(0))
}

func TestNfa(t *testing.T) {
	n := NewNfa(3, 4)
	require.NoError(t, n.AddTransition(0, 1, 2))
	require.NoError(t, n.AddTransition(0, 1, 1))
	require.NoError(t, n.AddTransition(0, 1, 2))
	require.NoError(t, n.AddTransition(1, 4, 3))
	require.ErrorIs(t, n.AddTransition(0, 5, 1), ErrOutOfRange)
	n.Prepare()

	require.Equal(t, []int{1, 4}, n.IWs())
	require.Equal(t, []int{1, 2}, n.Dests(0, 1))
	require.Nil(t, n.Dests(2, 1))

	sigma := NewNfaSigma()
	sigma.SetOw(0, 1, 2, 11)
	require.Equal(t, 11, sigma.Ow(0, 1, 2))
	require.Equal(t, NoOw, sigma.Ow(0, 1, 1))
}
