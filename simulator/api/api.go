// Package api wires the ledger to a small chi-based HTTP surface for
// interactive/manual testing: submit one instruction, see the
// resulting account state. It is never part of the on-chain program.
package api

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	"github.com/nicolaslara/solana-noir-verifier/log"
)

// Config holds the debug API's configuration.
type Config struct {
	Host   string
	Port   int
	Ledger *ledger.Ledger
}

// API is the debug HTTP surface over a ledger.
type API struct {
	router *chi.Mux
	ledger *ledger.Ledger
}

// New constructs an API bound to conf.Ledger and initializes its router.
func New(conf *Config) (*API, error) {
	if conf == nil || conf.Ledger == nil {
		return nil, fmt.Errorf("api: missing ledger instance")
	}
	a := &API{ledger: conf.Ledger}
	a.initRouter()
	return a, nil
}

// Router returns the chi router, for tests and for ListenAndServe.
func (a *API) Router() *chi.Mux { return a.router }

// Serve starts the HTTP server in the background.
func (a *API) Serve(host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	go func() {
		log.Infow("starting debug API server", "addr", addr)
		if err := http.ListenAndServe(addr, a.router); err != nil {
			log.Fatalf("debug API server failed: %v", err)
		}
	}()
}

func (a *API) initRouter() {
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Timeout(30 * time.Second))

	a.registerHandlers()
}

func (a *API) registerHandlers() {
	a.router.Get(PingEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	a.router.Get(AccountEndpoint, a.getAccount)
	a.router.Post(InstructionsEndpoint, a.submitInstruction)
	a.router.Get(ReceiptEndpoint, a.getReceipt)
	a.router.Get(DebugStateEndpoint, a.getDebugState)
}

// getDebugState decodes a verification-state account and returns a
// CBOR-encoded DebugSnapshot: a compact inspection view for tooling,
// never consulted by the phase handlers themselves.
func (a *API) getDebugState(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, DebugStateParam)
	raw, err := a.ledger.Get(addr)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s, err := accounts.Decode(raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	snapBytes, err := accounts.EncodeDebugSnapshot(s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/cbor")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(snapBytes); err != nil {
		log.Warnw("api: failed to write cbor response", "error", err)
	}
}

func (a *API) getAccount(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, AccountParam)
	raw, err := a.ledger.Get(addr)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, map[string]string{"address": addr, "data": hex.EncodeToString(raw)})
}

func (a *API) getReceipt(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, ReceiptParam)
	raw, err := a.ledger.Get(addr)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	receipt, err := accounts.DecodeReceipt(raw)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, receipt)
}

// instructionRequest is the debug API's JSON encoding of ledger.Instruction.
type instructionRequest struct {
	Opcode            byte     `json:"opcode"`
	VKAddr            string   `json:"vk_addr"`
	ProofAddr         string   `json:"proof_addr"`
	StateAddr         string   `json:"state_addr"`
	Offset            uint16   `json:"offset"`
	ChunkIndex        int      `json:"chunk_index"`
	DataHex           string   `json:"data_hex"`
	PublicInputsCount uint16   `json:"public_inputs_count"`
	PublicInputsHex   []string `json:"public_inputs_hex"`
	RoundStart        int      `json:"round_start"`
	RoundEnd          int      `json:"round_end"`
	Slot              uint64   `json:"slot"`
	Timestamp         int64    `json:"timestamp"`
}

func (a *API) submitInstruction(w http.ResponseWriter, r *http.Request) {
	var req instructionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := hex.DecodeString(req.DataHex)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding data_hex: %w", err))
		return
	}
	pis := make([]field.Fr, 0, len(req.PublicInputsHex))
	for _, h := range req.PublicInputsHex {
		b, err := hex.DecodeString(h)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding public input: %w", err))
			return
		}
		v, ok := field.FromRawBytes(b)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Errorf("non-canonical public input scalar"))
			return
		}
		pis = append(pis, v)
	}

	ix := ledger.Instruction{
		Opcode:            accounts.Opcode(req.Opcode),
		VKAddr:            req.VKAddr,
		ProofAddr:         req.ProofAddr,
		StateAddr:         req.StateAddr,
		Offset:            req.Offset,
		ChunkIndex:        req.ChunkIndex,
		Data:              data,
		PublicInputsCount: req.PublicInputsCount,
		PublicInputs:      pis,
		RoundStart:        req.RoundStart,
		RoundEnd:          req.RoundEnd,
		Slot:              req.Slot,
		Timestamp:         req.Timestamp,
	}

	res, err := ledger.Execute(a.ledger, ix)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, map[string]string{"tx_id": res.TxID.String()})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnw("api: failed to write http response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
