package rxstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/manttest/internal/rxstore"
)

func TestSubjectUnsubscribeDuringEmit(t *testing.T) {
	subj := rxstore.NewSubject[int]()
	var got []string
	var second rxstore.Subscription
	subj.Subscribe(func(v int) {
		got = append(got, "first")
		second.Unsubscribe()
	})
	second = subj.Subscribe(func(v int) { got = append(got, "second") })

	subj.Emit(1)
	subj.Emit(2)

	require.Equal(t, []string{"first", "first"}, got)
	require.Equal(t, 1, subj.Len())
}

func TestSubjectLateSubscriberMissesCurrentEmit(t *testing.T) {
	subj := rxstore.NewSubject[int]()
	var got []int
	subj.Subscribe(func(v int) {
		if v == 1 {
			subj.Subscribe(func(v int) { got = append(got, v) })
		}
	})

	subj.Emit(1)
	subj.Emit(2)

	require.Equal(t, []int{2}, got)
}

func TestValueReplaysAndSuppressesEqual(t *testing.T) {
	v := rxstore.NewValue(1, func(a, b int) bool { return a == b })
	var got []int
	sub := v.Subscribe(func(n int) { got = append(got, n) })

	require.False(t, v.Set(1))
	require.True(t, v.Set(2))
	sub.Unsubscribe()
	v.Set(3)

	require.Equal(t, []int{1, 2}, got)
	require.Equal(t, 3, v.Get())
}

func TestSwitchDropsPreviousInner(t *testing.T) {
	outer := rxstore.NewValue("a", nil)
	inners := map[string]*rxstore.Subject[int]{
		"a": rxstore.NewSubject[int](),
		"b": rxstore.NewSubject[int](),
	}
	type hit struct {
		from string
		n    int
	}
	var hits []hit
	var alive func() bool
	current := "a"
	sub := rxstore.Switch[string, int](outer, func(key string) rxstore.Observable[int] {
		current = key
		return inners[key]
	}, func(n int, live func() bool) {
		hits = append(hits, hit{from: current, n: n})
		alive = live
	})

	inners["a"].Emit(1)
	require.True(t, alive())

	outer.Set("b")
	require.False(t, alive(), "token of the first inner must be stale")
	inners["a"].Emit(2)
	inners["b"].Emit(3)

	sub.Unsubscribe()
	inners["b"].Emit(4)

	require.Equal(t, []hit{{"a", 1}, {"b", 3}}, hits)
	require.Zero(t, inners["a"].Len())
	require.Zero(t, inners["b"].Len())
}

func TestNamespace(t *testing.T) {
	const n rxstore.Namespace = "App.Area/"
	require.Equal(t, "App.Area/GO", n.Tag("GO"))
	require.True(t, n.Owns("App.Area/GO"))
	require.False(t, n.Owns("App.Other/GO"))
	require.False(t, n.Owns("App"))
}
