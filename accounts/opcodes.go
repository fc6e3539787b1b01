// Package accounts lays out the on-chain account kinds the phased
// verifier reads and writes, and the opcode table client programs use
// to address them. Every account is a fixed-size byte buffer with an
// explicit offset-based (de)serializer, the same discipline proof.View
// and vk.View apply to the immutable wire formats.
package accounts

// Opcode identifies a single verifier instruction. Values are a stable,
// append-only numbering: client programs and off-chain indexers persist
// these, so an existing opcode is never renumbered or reused.
type Opcode byte

const (
	OpInitVKBuffer    Opcode = 0
	OpUploadVKChunk   Opcode = 1
	OpSetPublicInputs Opcode = 3
	OpInitProofBuffer Opcode = 4
	OpUploadProofChunk Opcode = 5

	OpPhase1Challenges Opcode = 30

	OpPhase2Rounds Opcode = 40

	OpPhase2dRelations Opcode = 43

	OpPhase3aWeights   Opcode = 50
	OpPhase3b1Folding  Opcode = 51
	OpPhase3b2Gemini   Opcode = 52
	OpPhase3cMSM       Opcode = 53
	OpPhase3cPairing   Opcode = 54
	OpPhase4Pairing    Opcode = 55

	OpCreateReceipt Opcode = 60

	OpCloseAccounts Opcode = 70
)

// Name returns the human-readable instruction name for an opcode, used
// for logging and CLI help text.
func (o Opcode) Name() string {
	switch o {
	case OpInitVKBuffer:
		return "InitVKBuffer"
	case OpUploadVKChunk:
		return "UploadVKChunk"
	case OpSetPublicInputs:
		return "SetPublicInputs"
	case OpInitProofBuffer:
		return "InitProofBuffer"
	case OpUploadProofChunk:
		return "UploadProofChunk"
	case OpPhase1Challenges:
		return "Phase1Challenges"
	case OpPhase2Rounds:
		return "Phase2Rounds"
	case OpPhase2dRelations:
		return "Phase2dRelations"
	case OpPhase3aWeights:
		return "Phase3aWeights"
	case OpPhase3b1Folding:
		return "Phase3b1Folding"
	case OpPhase3b2Gemini:
		return "Phase3b2Gemini"
	case OpPhase3cMSM:
		return "Phase3cMSM"
	case OpPhase3cPairing:
		return "Phase3cPairing"
	case OpPhase4Pairing:
		return "Phase4Pairing"
	case OpCreateReceipt:
		return "CreateReceipt"
	case OpCloseAccounts:
		return "CloseAccounts"
	default:
		return "Unknown"
	}
}
