package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	c, err := New("uma-senha-qualquer")
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}

	sealed, err := c.Seal("123.456.789-09")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if sealed[0] != envelopeV1 {
		t.Fatalf("expected envelope version byte, got %#x", sealed[0])
	}
	if bytes.Contains(sealed, []byte("123.456.789")) {
		t.Fatal("sealed value leaks plaintext")
	}

	plain, err := c.Open(sealed)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if plain != "123.456.789-09" {
		t.Fatalf("round trip = %q", plain)
	}
}

func TestSealProducesFreshNonces(t *testing.T) {
	c, err := New("chave")
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}
	a, _ := c.Seal("valor")
	b, _ := c.Seal("valor")
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same value must differ")
	}
}

func TestOpenRejectsTampering(t *testing.T) {
	c, err := New("chave")
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}
	sealed, err := c.Seal("123.456.789-09")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff

	if _, err := c.Open(sealed); !errors.Is(err, ErrOpenFailed) {
		t.Fatalf("expected ErrOpenFailed, got %v", err)
	}
}

func TestOpenRejectsTruncatedEnvelope(t *testing.T) {
	c, err := New("chave")
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}
	if _, err := c.Open([]byte{envelopeV1, 0x01, 0x02}); !errors.Is(err, ErrBadEnvelope) {
		t.Fatalf("expected ErrBadEnvelope, got %v", err)
	}
}

func TestUnconfiguredCipherPassesThrough(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}
	if c.Configured() {
		t.Fatal("empty passphrase should leave the cipher unconfigured")
	}

	sealed, err := c.Seal("123.456.789-09")
	if err != nil {
		t.Fatalf("seal failed: %v", err)
	}
	if string(sealed) != "123.456.789-09" {
		t.Fatalf("expected passthrough, got %q", sealed)
	}
	plain, err := c.Open(sealed)
	if err != nil || plain != "123.456.789-09" {
		t.Fatalf("passthrough open = %q, %v", plain, err)
	}
}

func TestOpenReturnsLegacyPlaintextUnchanged(t *testing.T) {
	c, err := New("chave")
	if err != nil {
		t.Fatalf("new cipher failed: %v", err)
	}
	// Rows written before a key was configured carry no envelope marker.
	plain, err := c.Open([]byte("98765432100"))
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if plain != "98765432100" {
		t.Fatalf("legacy value = %q", plain)
	}
}
