package accounts

import (
	"encoding/binary"
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
)

// ProofStatus tracks the lifecycle of a ProofBuffer account.
type ProofStatus uint8

const (
	ProofUninitialized ProofStatus = 0
	ProofUploading      ProofStatus = 1
	ProofReady           ProofStatus = 2
)

// piSetFlag is a spare high bit of the status byte marking that
// SetPublicInputs has run. The header is fixed at 9 bytes by the wire
// format, so there is no room for a dedicated flag byte; the status
// byte's low bits still hold one of the ProofStatus values above.
const piSetFlag = 0x80

func (b ProofBuffer) statusByte() byte  { return b.raw[0] &^ piSetFlag }
func (b ProofBuffer) piSet() bool       { return b.raw[0]&piSetFlag != 0 }

// MaxPublicInputs bounds the public-input vector this account can
// hold; 32 covers every scenario in the operating examples (the
// widest named case needs 32 public inputs).
const MaxPublicInputs = 32

// ChunkSize is the fixed size of one proof upload chunk. 16,224 bytes
// of proof divided into 900-byte chunks needs 19 chunks, comfortably
// inside the 32-bit chunk bitmap.
const ChunkSize = 900

// NumChunks is the number of chunks a full proof upload takes.
const NumChunks = (proof.Size + ChunkSize - 1) / ChunkSize

const proofHeaderSize = 9 // status(1) + proof_len(u16) + public_inputs_count(u16) + chunk_bitmap(u32)

const piSectionSize = MaxPublicInputs * 32

// ProofBufferSize is the fixed account size: header, public-input
// section, then the proof payload.
const ProofBufferSize = proofHeaderSize + piSectionSize + proof.Size

// ProofBuffer is a zero-copy view over a fixed ProofBufferSize account.
type ProofBuffer struct {
	raw []byte
}

// NewProofBuffer wraps an existing ProofBufferSize-byte account.
func NewProofBuffer(raw []byte) (ProofBuffer, error) {
	if len(raw) != ProofBufferSize {
		return ProofBuffer{}, fmt.Errorf("accounts: proof buffer must be %d bytes, got %d", ProofBufferSize, len(raw))
	}
	return ProofBuffer{raw: raw}, nil
}

// Raw returns the buffer's backing bytes, for a caller that needs to
// persist the account after mutating it through the handler methods
// below (which all write through this same slice in place).
func (b ProofBuffer) Raw() []byte { return b.raw }

// Status returns the ProofStatus bits of the status byte.
func (b ProofBuffer) Status() ProofStatus { return ProofStatus(b.statusByte()) }

// ProofLen returns the high-water mark of proof bytes written so far.
func (b ProofBuffer) ProofLen() uint16 { return binary.LittleEndian.Uint16(b.raw[1:3]) }

// PublicInputsCount returns the declared number of public inputs.
func (b ProofBuffer) PublicInputsCount() uint16 { return binary.LittleEndian.Uint16(b.raw[3:5]) }

// ChunkBitmap returns the bitmap of which of the NumChunks chunks have
// been uploaded so far.
func (b ProofBuffer) ChunkBitmap() uint32 { return binary.LittleEndian.Uint32(b.raw[5:9]) }

func (b ProofBuffer) setStatus(s ProofStatus) {
	flag := byte(0)
	if b.piSet() {
		flag = piSetFlag
	}
	b.raw[0] = byte(s) | flag
}

// InitBuffer (re)initializes the account for piCount public inputs and
// a fresh proof upload.
func (b ProofBuffer) InitBuffer(piCount uint16) error {
	if int(piCount) > MaxPublicInputs {
		return fmt.Errorf("accounts: public input count %d exceeds maximum %d", piCount, MaxPublicInputs)
	}
	for i := range b.raw {
		b.raw[i] = 0
	}
	b.raw[0] = byte(ProofUploading)
	binary.LittleEndian.PutUint16(b.raw[3:5], piCount)
	return nil
}

// SetPublicInputs writes the public-input vector in one shot (the
// public-inputs opcode is not chunked, unlike the proof body).
func (b ProofBuffer) SetPublicInputs(values []field.Fr) error {
	if b.Status() == ProofReady {
		return fmt.Errorf("accounts: proof buffer is already finalized")
	}
	if uint16(len(values)) != b.PublicInputsCount() {
		return fmt.Errorf("accounts: expected %d public inputs, got %d", b.PublicInputsCount(), len(values))
	}
	off := proofHeaderSize
	for _, v := range values {
		raw := v.ToRawBytes()
		copy(b.raw[off:off+32], raw[:])
		off += 32
	}
	b.raw[0] |= piSetFlag
	return nil
}

// PublicInputs decodes the stored public-input vector.
func (b ProofBuffer) PublicInputs() ([]field.Fr, error) {
	if !b.piSet() {
		return nil, fmt.Errorf("accounts: public inputs not yet set")
	}
	n := int(b.PublicInputsCount())
	out := make([]field.Fr, n)
	off := proofHeaderSize
	for i := 0; i < n; i++ {
		v, ok := field.FromRawBytes(b.raw[off : off+32])
		if !ok {
			return nil, fmt.Errorf("accounts: non-canonical public input at index %d", i)
		}
		out[i] = v
		off += 32
	}
	return out, nil
}

func (b ProofBuffer) proofOff() int { return proofHeaderSize + piSectionSize }

// UploadChunk writes one ChunkSize-aligned chunk of the proof body and
// marks its bit in the chunk bitmap.
func (b ProofBuffer) UploadChunk(chunkIdx int, data []byte) error {
	if b.Status() != ProofUploading {
		return fmt.Errorf("accounts: proof buffer is not accepting uploads (status %d)", b.Status())
	}
	if chunkIdx < 0 || chunkIdx >= NumChunks {
		return fmt.Errorf("accounts: chunk index %d out of range [0,%d)", chunkIdx, NumChunks)
	}
	start := chunkIdx * ChunkSize
	end := start + len(data)
	if end > proof.Size {
		return fmt.Errorf("accounts: chunk %d overruns proof body (end %d > %d)", chunkIdx, end, proof.Size)
	}
	base := b.proofOff()
	copy(b.raw[base+start:base+end], data)

	bitmap := b.ChunkBitmap() | (1 << uint(chunkIdx))
	binary.LittleEndian.PutUint32(b.raw[5:9], bitmap)

	if uint16(end) > b.ProofLen() {
		binary.LittleEndian.PutUint16(b.raw[1:3], uint16(end))
	}
	if b.AllChunksPresent() && b.piSet() && b.ProofLen() == uint16(proof.Size) {
		b.setStatus(ProofReady)
	}
	return nil
}

// AllChunksPresent reports whether every one of the NumChunks bits is set.
func (b ProofBuffer) AllChunksPresent() bool {
	want := uint32(1)<<uint(NumChunks) - 1
	return b.ChunkBitmap()&want == want
}

// Ready reports whether the account holds a complete proof body and
// public-input vector, i.e. is safe to hand to the challenges phase.
func (b ProofBuffer) Ready() bool {
	return b.Status() == ProofReady
}

// View returns a proof.View over the completed payload.
func (b ProofBuffer) View() (proof.View, error) {
	if !b.Ready() {
		return proof.View{}, fmt.Errorf("accounts: proof buffer is not ready (status %d)", b.Status())
	}
	base := b.proofOff()
	return proof.New(b.raw[base : base+proof.Size])
}
