package accounts

import (
	"encoding/binary"
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/vk"
)

// VKStatus tracks the lifecycle of a VKBuffer account. A verification
// key is immutable once Ready: there is no update instruction, and
// InitVKBuffer refuses a Ready buffer (an Uninitialized or Uploading
// buffer can be initialized again).
type VKStatus uint8

const (
	VKUninitialized VKStatus = 0
	VKUploading     VKStatus = 1
	VKReady         VKStatus = 2
)

// vkHeaderSize is the 3-byte header: status (1 byte) + bytes_written (u16 LE).
const vkHeaderSize = 3

// VKBufferSize is the fixed account size: a 3-byte header plus the
// 1,760-byte verification-key payload.
const VKBufferSize = vkHeaderSize + vk.Size

// VKBuffer is a zero-copy view over a fixed VKBufferSize account. The
// payload is laid out at a fixed offset from construction, so a VK
// account never needs to move once created.
type VKBuffer struct {
	raw []byte
}

// NewVKBuffer wraps an existing VKBufferSize-byte account.
func NewVKBuffer(raw []byte) (VKBuffer, error) {
	if len(raw) != VKBufferSize {
		return VKBuffer{}, fmt.Errorf("accounts: VK buffer must be %d bytes, got %d", VKBufferSize, len(raw))
	}
	return VKBuffer{raw: raw}, nil
}

// Raw returns the buffer's backing bytes, for a caller that needs to
// persist the account after mutating it through the handler methods
// below (which all write through this same slice in place).
func (b VKBuffer) Raw() []byte { return b.raw }

// Status returns the buffer's current lifecycle status.
func (b VKBuffer) Status() VKStatus { return VKStatus(b.raw[0]) }

// BytesWritten returns the high-water mark of payload bytes written so far.
func (b VKBuffer) BytesWritten() uint16 { return binary.LittleEndian.Uint16(b.raw[1:3]) }

// InitVKBuffer (re)initializes the account for a fresh upload. Rejects
// re-initialization of a Ready buffer: once a verification key is
// complete it is immutable, matching a receipt's dependence on the VK
// account's address staying stable for its lifetime.
func (b VKBuffer) InitVKBuffer() error {
	if b.Status() == VKReady {
		return fmt.Errorf("accounts: VK buffer is already ready, cannot re-initialize")
	}
	b.raw[0] = byte(VKUploading)
	binary.LittleEndian.PutUint16(b.raw[1:3], 0)
	for i := vkHeaderSize; i < VKBufferSize; i++ {
		b.raw[i] = 0
	}
	return nil
}

// UploadVKChunk writes data at offset into the payload region, bumping
// the bytes-written high-water mark and flipping to Ready once the
// full 1,760-byte key has arrived.
func (b VKBuffer) UploadVKChunk(offset uint16, data []byte) error {
	if b.Status() != VKUploading {
		return fmt.Errorf("accounts: VK buffer is not accepting uploads (status %d)", b.Status())
	}
	end := int(offset) + len(data)
	if offset < 0 || end > vk.Size {
		return fmt.Errorf("accounts: VK chunk [%d,%d) out of bounds for %d-byte payload", offset, end, vk.Size)
	}
	copy(b.raw[vkHeaderSize+int(offset):vkHeaderSize+end], data)
	if uint16(end) > b.BytesWritten() {
		binary.LittleEndian.PutUint16(b.raw[1:3], uint16(end))
	}
	if b.BytesWritten() == uint16(vk.Size) {
		b.raw[0] = byte(VKReady)
	}
	return nil
}

// View returns a vk.View over the completed payload. The buffer must
// be Ready; otherwise the payload may still contain partial data that
// vk.New would reject anyway (bad log_n, malformed commitments).
func (b VKBuffer) View() (vk.View, error) {
	if b.Status() != VKReady {
		return vk.View{}, fmt.Errorf("accounts: VK buffer is not ready (status %d)", b.Status())
	}
	return vk.New(b.raw[vkHeaderSize:])
}
