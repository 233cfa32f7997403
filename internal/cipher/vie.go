package cipher

import (
	"encoding/binary"
	"errors"

	"github.com/zonecore/zoneclient/internal/rng"
)

// ErrSessionKeyInvalid is returned when the server's EncryptionResponse key
// is neither the client's original key (encryption disabled) nor the
// classic-scheme derivation of it.
var ErrSessionKeyInvalid = errors.New("cipher: invalid session key")

const keystreamWords = 130 // 520 bytes / 4

// VieCipher implements the classic SubSpace stream cipher: a 520-byte
// keystream generated by rng.LCG seeded with the negotiated session key, XOR
// chained word-by-word with a rolling IV.
type VieCipher struct {
	keystream []uint32
	iv        uint32
	enabled   bool
}

// DeriveSessionKey computes the session key the server is expected to reply
// with for a given client key, per the classic handshake's
// negate-and-increment transform.
func DeriveSessionKey(clientKey uint32) uint32 {
	return -(^clientKey + 1)
}

// NewVieCipher validates serverKey against clientKey and, unless encryption
// is disabled (serverKey == clientKey), builds the 520-byte keystream.
func NewVieCipher(clientKey, serverKey uint32) (*VieCipher, error) {
	if serverKey == clientKey {
		return &VieCipher{enabled: false}, nil
	}
	if serverKey != DeriveSessionKey(clientKey) {
		return nil, ErrSessionKeyInvalid
	}
	gen := rng.NewLCG(serverKey)
	return &VieCipher{
		keystream: gen.Keystream(keystreamWords),
		iv:        serverKey,
		enabled:   true,
	}, nil
}

// Enabled reports whether encryption is active for this session (a server
// may legitimately disable it by echoing the client's own key back).
func (c *VieCipher) Enabled() bool { return c.enabled }

// Encrypt transforms plaintext into ciphertext in place. The first byte
// (and the second, if the first is 0x00) is left in clear so core framing
// bytes (0x00 <subtype>) remain legible to the dispatcher before the
// receiver decrypts — matching the source client's "leading bytes in the
// clear" behaviour.
func (c *VieCipher) Encrypt(data []byte) {
	c.transform(data, true)
}

// Decrypt reverses Encrypt in place.
func (c *VieCipher) Decrypt(data []byte) {
	c.transform(data, false)
}

func (c *VieCipher) transform(data []byte, encrypting bool) {
	if !c.enabled || len(data) == 0 {
		return
	}
	clearLen := 1
	if data[0] == 0x00 && len(data) > 1 {
		clearLen = 2
	}
	iv := c.iv
	i := clearLen
	word := 0
	for i+4 <= len(data) {
		in := binary.LittleEndian.Uint32(data[i:])
		ks := c.keystream[word%len(c.keystream)]
		out := in ^ ks ^ iv
		binary.LittleEndian.PutUint32(data[i:], out)
		if encrypting {
			iv = out
		} else {
			iv = in
		}
		word++
		i += 4
	}
	if tail := len(data) - i; tail > 0 {
		var inTail [4]byte
		copy(inTail[:], data[i:])
		in := binary.LittleEndian.Uint32(inTail[:])
		ks := c.keystream[word%len(c.keystream)]
		mask := uint32(1)<<(uint(tail)*8) - 1
		out := (in ^ ks ^ iv) & mask
		var outBytes [4]byte
		binary.LittleEndian.PutUint32(outBytes[:], out)
		copy(data[i:], outBytes[:tail])
	}
	c.iv = iv
}
