package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryLedgerPutGet(t *testing.T) {
	l := New()
	require.False(t, l.Exists("a"))

	require.NoError(t, l.Put("a", []byte("hello")))
	require.True(t, l.Exists("a"))

	got, err := l.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}

func TestInMemoryLedgerGetMissing(t *testing.T) {
	l := New()
	_, err := l.Get("missing")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestInMemoryLedgerDelete(t *testing.T) {
	l := New()
	require.NoError(t, l.Put("a", []byte("hello")))
	require.NoError(t, l.Delete("a"))
	require.False(t, l.Exists("a"))
}

func TestPebbleBackedLedger(t *testing.T) {
	l, err := Open(t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, l.Close()) }()

	require.NoError(t, l.Put("a", []byte("hello")))
	got, err := l.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)
}
