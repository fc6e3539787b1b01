package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

func TestPingEndpoint(t *testing.T) {
	l := ledger.New()
	a, err := New(&Config{Ledger: l})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, PingEndpoint, nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitInstructionInitVKBuffer(t *testing.T) {
	l := ledger.New()
	a, err := New(&Config{Ledger: l})
	require.NoError(t, err)

	body := `{"opcode":0,"vk_addr":"vk1"}`
	req := httptest.NewRequest(http.MethodPost, InstructionsEndpoint, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	raw, err := l.Get("vk1")
	require.NoError(t, err)
	buf, err := accounts.NewVKBuffer(raw)
	require.NoError(t, err)
	require.Equal(t, accounts.VKUploading, buf.Status())
}

func TestGetAccountNotFound(t *testing.T) {
	l := ledger.New()
	a, err := New(&Config{Ledger: l})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDebugStateReturnsCBORSnapshot(t *testing.T) {
	l := ledger.New()
	a, err := New(&Config{Ledger: l})
	require.NoError(t, err)

	s := verifier.New()
	s.Phase = verifier.PhaseChallenges
	s.LogN = 4
	require.NoError(t, l.Put("state1", accounts.Encode(s)))

	req := httptest.NewRequest(http.MethodGet, "/debug/state/state1", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/cbor", rec.Header().Get("Content-Type"))

	snap, err := accounts.DecodeDebugSnapshot(rec.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, verifier.PhaseChallenges.String(), snap.Phase)
	require.Equal(t, uint64(4), snap.LogN)
}

func TestGetDebugStateMissingAccountReturnsNotFound(t *testing.T) {
	l := ledger.New()
	a, err := New(&Config{Ledger: l})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/debug/state/missing", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitInstructionRejectsUnknownOpcode(t *testing.T) {
	l := ledger.New()
	a, err := New(&Config{Ledger: l})
	require.NoError(t, err)

	body := `{"opcode":200}`
	req := httptest.NewRequest(http.MethodPost, InstructionsEndpoint, strings.NewReader(body))
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
