package universe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSystem(t *testing.T) {
	sys := NewSystem("Sol", []byte(`{"id":1}`))

	require.Equal(t, "Sol", sys.Name())
	require.Equal(t, []byte(`{"id":1}`), sys.Data())
	require.False(t, sys.IsZero())
}

func TestNewSystem_CopiesPayload(t *testing.T) {
	payload := []byte("original")
	sys := NewSystem("Sol", payload)

	payload[0] = 'X'
	require.Equal(t, []byte("original"), sys.Data())
}

func TestSystem_DataReturnsCopy(t *testing.T) {
	sys := NewSystem("Sol", []byte("payload"))

	leaked := sys.Data()
	leaked[0] = 'X'

	require.Equal(t, []byte("payload"), sys.Data())
}

func TestSystem_ZeroValue(t *testing.T) {
	var sys System

	require.True(t, sys.IsZero())
	require.Empty(t, sys.Name())
	require.Nil(t, sys.Data())
}

func TestSystem_EmptyPayload(t *testing.T) {
	sys := NewSystem("Sol", nil)

	require.Equal(t, "Sol", sys.Name())
	require.Nil(t, sys.Data())
	require.False(t, sys.IsZero())
}
