package cipher

import (
	"bytes"
	"testing"
)

func TestVieCipherRoundTrip(t *testing.T) {
	clientKey := uint32(0x12345678)
	serverKey := DeriveSessionKey(clientKey)

	enc, err := NewVieCipher(clientKey, serverKey)
	if err != nil {
		t.Fatalf("NewVieCipher: %v", err)
	}
	dec, err := NewVieCipher(clientKey, serverKey)
	if err != nil {
		t.Fatalf("NewVieCipher: %v", err)
	}

	for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 8, 23, 520} {
		plain := make([]byte, n)
		for i := range plain {
			plain[i] = byte(i * 7)
		}
		if n > 0 {
			plain[0] = 0x03
		}
		buf := append([]byte(nil), plain...)
		enc.Encrypt(buf)
		dec.Decrypt(buf)
		if !bytes.Equal(buf, plain) {
			t.Fatalf("round trip failed for n=%d: got %v want %v", n, buf, plain)
		}
	}
}

func TestVieCipherDisabledWhenKeysMatch(t *testing.T) {
	c, err := NewVieCipher(42, 42)
	if err != nil {
		t.Fatalf("NewVieCipher: %v", err)
	}
	if c.Enabled() {
		t.Fatal("expected cipher to be disabled when server echoes client key")
	}
	data := []byte{1, 2, 3, 4, 5}
	cp := append([]byte(nil), data...)
	c.Encrypt(cp)
	if !bytes.Equal(cp, data) {
		t.Fatal("disabled cipher must not modify data")
	}
}

func TestVieCipherInvalidSessionKey(t *testing.T) {
	if _, err := NewVieCipher(1, 2); err != ErrSessionKeyInvalid {
		t.Fatalf("expected ErrSessionKeyInvalid, got %v", err)
	}
}

func TestVieDeterministicAcrossPeers(t *testing.T) {
	clientKey := uint32(777)
	serverKey := DeriveSessionKey(clientKey)
	a, _ := NewVieCipher(clientKey, serverKey)
	b, _ := NewVieCipher(clientKey, serverKey)

	plain := []byte{0x05, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	bufA := append([]byte(nil), plain...)
	bufB := append([]byte(nil), plain...)
	a.Encrypt(bufA)
	b.Encrypt(bufB)
	if !bytes.Equal(bufA, bufB) {
		t.Fatal("two peers with identical session key must produce identical ciphertext")
	}
}

func TestContCipherRoundTrip(t *testing.T) {
	var table [ExpandedKeyWords]uint32
	for i := range table {
		table[i] = uint32(i*0x9E3779B1 + 12345)
	}
	expanded := ExpandKey(table, 0xAAAAAAAA)

	for _, n := range []int{0, 1, 3, 4, 7, 8, 9, 15, 16, 64} {
		c1 := NewContCipher(expanded)
		c2 := NewContCipher(expanded)

		plain := make([]byte, n)
		for i := range plain {
			plain[i] = byte(i*3 + 1)
		}
		ct := c1.Encrypt(plain)
		pt, err := c2.Decrypt(ct)
		if err != nil {
			t.Fatalf("n=%d: Decrypt: %v", n, err)
		}
		if !bytes.Equal(pt, plain) {
			t.Fatalf("n=%d: round trip mismatch: got %v want %v", n, pt, plain)
		}
	}
}

func TestCRC8Deterministic(t *testing.T) {
	data := []byte("subspace-continuum")
	if CRC8(data) != CRC8(data) {
		t.Fatal("CRC8 must be a pure function of its input")
	}
}
