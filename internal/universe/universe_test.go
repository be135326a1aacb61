package universe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildUniverse(t *testing.T, names ...string) *Universe {
	t.Helper()
	builder := NewBuilder()
	for _, name := range names {
		require.NoError(t, builder.AddSystem(NewSystem(name, []byte(name))))
	}
	u, err := builder.Build()
	require.NoError(t, err)
	return u
}

func TestUniverse_Get(t *testing.T) {
	u := buildUniverse(t, "Sol", "Alpha-Centauri")

	sys, ok := u.Get("Sol")
	require.True(t, ok)
	require.Equal(t, "Sol", sys.Name())

	_, ok = u.Get("Vega")
	require.False(t, ok)
}

func TestUniverse_Get_Idempotent(t *testing.T) {
	u := buildUniverse(t, "Sol")

	first, ok := u.Get("Sol")
	require.True(t, ok)
	second, ok := u.Get("Sol")
	require.True(t, ok)

	require.Equal(t, first.Name(), second.Name())
	require.Equal(t, first.Data(), second.Data())
	require.Equal(t, 1, u.Len())
}

func TestUniverse_Contains(t *testing.T) {
	u := buildUniverse(t, "Sol")

	require.True(t, u.Contains("Sol"))
	require.False(t, u.Contains("Vega"))
}

func TestUniverse_Systems_FixedSet(t *testing.T) {
	u := buildUniverse(t, "A", "B", "C")

	names := func() []string {
		var out []string
		for _, sys := range u.Systems() {
			out = append(out, sys.Name())
		}
		return out
	}

	// Re-iterating yields the same fixed set
	require.ElementsMatch(t, []string{"A", "B", "C"}, names())
	require.ElementsMatch(t, []string{"A", "B", "C"}, names())
}

func TestUniverse_Names_Sorted(t *testing.T) {
	u := buildUniverse(t, "Vega", "Sol", "Alpha-Centauri")

	require.Equal(t, []string{"Alpha-Centauri", "Sol", "Vega"}, u.Names())
}

func TestUniverse_ConcurrentReads(t *testing.T) {
	u := buildUniverse(t, "Sol", "Vega", "Rigel")

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_, _ = u.Get("Sol")
				_ = u.Contains("Vega")
				_ = u.Len()
				_ = u.Systems()
				_ = u.Names()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
