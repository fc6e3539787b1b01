package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/config"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/log"
	"github.com/nicolaslara/solana-noir-verifier/verifier"
)

// Instruction is one submitted verifier opcode, addressed at the
// accounts it touches. Not every field is meaningful for every
// opcode; each handler below reads only the fields its opcode needs,
// mirroring how a real transaction's instruction data is opcode-specific.
type Instruction struct {
	Opcode accounts.Opcode

	VKAddr    string
	ProofAddr string
	StateAddr string

	Offset            uint16 // UploadVKChunk
	ChunkIndex        int    // UploadProofChunk
	Data              []byte // raw chunk bytes
	PublicInputsCount uint16 // InitProofBuffer
	PublicInputs      []field.Fr // SetPublicInputs

	RoundStart, RoundEnd int // Phase2Rounds

	Slot      uint64 // CreateReceipt
	Timestamp int64  // CreateReceipt
}

// Result carries the correlation ID assigned to a submitted
// instruction; Execute logs it alongside the opcode name.
type Result struct {
	TxID uuid.UUID
}

// Execute dispatches a single instruction against the ledger,
// loading, mutating, and persisting whichever accounts the opcode
// touches. There is no concurrency here: each call runs to
// completion before the next begins, the same single-threaded
// discipline the on-chain program itself follows.
func Execute(l *Ledger, ix Instruction) (Result, error) {
	txID := uuid.New()
	res := Result{TxID: txID}

	log.Debugw("ledger: executing instruction", "tx", txID.String(), "opcode", ix.Opcode.Name())

	var err error
	switch ix.Opcode {
	case accounts.OpInitVKBuffer:
		err = handleInitVKBuffer(l, ix)
	case accounts.OpUploadVKChunk:
		err = handleUploadVKChunk(l, ix)
	case accounts.OpInitProofBuffer:
		err = handleInitProofBuffer(l, ix)
	case accounts.OpSetPublicInputs:
		err = handleSetPublicInputs(l, ix)
	case accounts.OpUploadProofChunk:
		err = handleUploadProofChunk(l, ix)
	case accounts.OpPhase1Challenges:
		err = handlePhase1(l, ix)
	case accounts.OpPhase2Rounds:
		err = handlePhase2Rounds(l, ix)
	case accounts.OpPhase2dRelations:
		err = handlePhase2dRelations(l, ix)
	case accounts.OpPhase3aWeights:
		err = handlePhase3aWeights(l, ix)
	case accounts.OpPhase3b1Folding:
		err = handlePhase3b1Folding(l, ix)
	case accounts.OpPhase3b2Gemini:
		err = handlePhase3b2Gemini(l, ix)
	case accounts.OpPhase3cMSM:
		err = handlePhase3cMSM(l, ix)
	case accounts.OpPhase3cPairing:
		err = handlePhase3cPairing(l, ix)
	case accounts.OpPhase4Pairing:
		err = handlePhase4Pairing(l, ix)
	case accounts.OpCreateReceipt:
		err = handleCreateReceipt(l, ix)
	case accounts.OpCloseAccounts:
		err = handleCloseAccounts(l, ix)
	default:
		err = fmt.Errorf("ledger: unknown opcode %d", ix.Opcode)
	}

	if err != nil {
		log.Errorw(err, fmt.Sprintf("ledger: instruction %s failed", ix.Opcode.Name()))
		return res, err
	}
	return res, nil
}

func loadVKBuffer(l *Ledger, addr string) (accounts.VKBuffer, error) {
	raw, err := l.Get(addr)
	if err != nil {
		if err == ErrAccountNotFound {
			raw = make([]byte, accounts.VKBufferSize)
		} else {
			return accounts.VKBuffer{}, err
		}
	}
	return accounts.NewVKBuffer(raw)
}

func saveVKBuffer(l *Ledger, addr string, buf accounts.VKBuffer) error {
	return l.Put(addr, buf.Raw())
}

func handleInitVKBuffer(l *Ledger, ix Instruction) error {
	buf, err := loadVKBuffer(l, ix.VKAddr)
	if err != nil {
		return err
	}
	if err := buf.InitVKBuffer(); err != nil {
		return err
	}
	return saveVKBuffer(l, ix.VKAddr, buf)
}

func handleUploadVKChunk(l *Ledger, ix Instruction) error {
	buf, err := loadVKBuffer(l, ix.VKAddr)
	if err != nil {
		return err
	}
	if err := buf.UploadVKChunk(ix.Offset, ix.Data); err != nil {
		return err
	}
	return saveVKBuffer(l, ix.VKAddr, buf)
}

func loadProofBuffer(l *Ledger, addr string) (accounts.ProofBuffer, error) {
	raw, err := l.Get(addr)
	if err != nil {
		if err == ErrAccountNotFound {
			raw = make([]byte, accounts.ProofBufferSize)
		} else {
			return accounts.ProofBuffer{}, err
		}
	}
	return accounts.NewProofBuffer(raw)
}

func saveProofBuffer(l *Ledger, addr string, buf accounts.ProofBuffer) error {
	return l.Put(addr, buf.Raw())
}

func handleInitProofBuffer(l *Ledger, ix Instruction) error {
	buf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	if err := buf.InitBuffer(ix.PublicInputsCount); err != nil {
		return err
	}
	return saveProofBuffer(l, ix.ProofAddr, buf)
}

func handleSetPublicInputs(l *Ledger, ix Instruction) error {
	buf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	if err := buf.SetPublicInputs(ix.PublicInputs); err != nil {
		return err
	}
	return saveProofBuffer(l, ix.ProofAddr, buf)
}

func handleUploadProofChunk(l *Ledger, ix Instruction) error {
	buf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	if err := buf.UploadChunk(ix.ChunkIndex, ix.Data); err != nil {
		return err
	}
	return saveProofBuffer(l, ix.ProofAddr, buf)
}

func loadState(l *Ledger, addr string) (*verifier.State, error) {
	raw, err := l.Get(addr)
	if err != nil {
		if err == ErrAccountNotFound {
			return verifier.New(), nil
		}
		return nil, err
	}
	s, err := accounts.Decode(raw)
	if err != nil {
		return nil, err
	}
	// Decode returns the Gemini fold slices at their full fixed width;
	// cut them back to the log_n-1 entries this proof uses.
	if n := int(s.LogN) - 1; n >= 0 && n < len(s.FoldScalar) {
		s.FoldScalar = s.FoldScalar[:n]
		s.InvPlus = s.InvPlus[:n]
		s.InvMinus = s.InvMinus[:n]
	}
	return s, nil
}

func saveState(l *Ledger, addr string, s *verifier.State) error {
	return l.Put(addr, accounts.Encode(s))
}

func handlePhase1(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	vkBuf, err := loadVKBuffer(l, ix.VKAddr)
	if err != nil {
		return err
	}
	vkView, err := vkBuf.View()
	if err != nil {
		return err
	}
	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	if !proofBuf.Ready() {
		return fmt.Errorf("ledger: proof buffer is not fully uploaded")
	}
	p, err := proofBuf.View()
	if err != nil {
		return err
	}
	publicInputs, err := proofBuf.PublicInputs()
	if err != nil {
		return err
	}
	if err := s.Phase1(vkView, p, publicInputs); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase1Challenges, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase2Rounds(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	p, err := proofBuf.View()
	if err != nil {
		return err
	}
	if err := s.Phase2Rounds(ix.RoundStart, ix.RoundEnd, p); err != nil {
		return err
	}
	steps := ix.RoundEnd - ix.RoundStart
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase2RoundsStep*steps, map[string]any{
		"state":       ix.StateAddr,
		"round_start": ix.RoundStart,
		"round_end":   ix.RoundEnd,
	})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase2dRelations(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	p, err := proofBuf.View()
	if err != nil {
		return err
	}
	if err := s.Phase2dRelations(p); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase2dRelations, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase3aWeights(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	p, err := proofBuf.View()
	if err != nil {
		return err
	}
	if err := s.Phase3aWeights(p); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase3aWeights, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase3b1Folding(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	if err := s.Phase3b1Folding(); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase3b1Folding, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase3b2Gemini(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	if err := s.Phase3b2Gemini(); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase3b2Gemini, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase3cMSM(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	vkBuf, err := loadVKBuffer(l, ix.VKAddr)
	if err != nil {
		return err
	}
	vkView, err := vkBuf.View()
	if err != nil {
		return err
	}
	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	p, err := proofBuf.View()
	if err != nil {
		return err
	}
	if err := s.Phase3cMSM(vkView, p); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase3cMSM, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase3cPairing(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	p, err := proofBuf.View()
	if err != nil {
		return err
	}
	if err := s.Phase3cAndPairing(p); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase3cMSM+config.CUBudgetPhase3cPairing, map[string]any{"state": ix.StateAddr})
	return saveState(l, ix.StateAddr, s)
}

func handlePhase4Pairing(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	if err := s.Phase4Pairing(); err != nil {
		return err
	}
	log.PhaseEvent(s.Phase.String(), s.LogN, config.CUBudgetPhase4Pairing, map[string]any{
		"state":    ix.StateAddr,
		"verified": s.Verified,
	})
	return saveState(l, ix.StateAddr, s)
}

func handleCreateReceipt(l *Ledger, ix Instruction) error {
	s, err := loadState(l, ix.StateAddr)
	if err != nil {
		return err
	}
	if err := accounts.ReadyForReceipt(s); err != nil {
		return err
	}
	slot := ix.Slot
	ts := ix.Timestamp
	if ts == 0 {
		ts = time.Now().Unix()
	}
	receipt := accounts.NewReceipt(slot, ts)

	proofBuf, err := loadProofBuffer(l, ix.ProofAddr)
	if err != nil {
		return err
	}
	publicInputs, err := proofBuf.PublicInputs()
	if err != nil {
		return err
	}
	addr := accounts.DeriveReceiptAddress([]byte(ix.VKAddr), publicInputs)
	return l.Put(fmt.Sprintf("%x", addr), receipt.Encode())
}

func handleCloseAccounts(l *Ledger, ix Instruction) error {
	for _, addr := range []string{ix.VKAddr, ix.ProofAddr, ix.StateAddr} {
		if addr == "" {
			continue
		}
		if err := l.Delete(addr); err != nil {
			return err
		}
	}
	return nil
}
