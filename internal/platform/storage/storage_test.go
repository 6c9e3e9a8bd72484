package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFileStoreSaveOpenDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	ctx := context.Background()
	written, err := store.Save(ctx, "abc123/recibo.pdf", strings.NewReader("conteudo"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if written != int64(len("conteudo")) {
		t.Fatalf("expected %d bytes written, got %d", len("conteudo"), written)
	}

	rc, err := store.Open(ctx, "abc123/recibo.pdf")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	data, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "conteudo" {
		t.Fatalf("unexpected content %q", data)
	}

	if err := store.Delete(ctx, "abc123/recibo.pdf"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Open(ctx, "abc123/recibo.pdf"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist after delete, got %v", err)
	}
}

func TestFileStoreRejectsDuplicateKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	ctx := context.Background()
	if _, err := store.Save(ctx, "k/f.txt", strings.NewReader("a")); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if _, err := store.Save(ctx, "k/f.txt", strings.NewReader("b")); err == nil {
		t.Fatal("expected second save on same key to fail")
	}
}

func TestFileStoreRejectsTraversalKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	for _, key := range []string{"../escape", "/abs/path", "a/../../b"} {
		if _, err := store.Save(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected key %q to be rejected", key)
		}
	}
}

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("segredo", time.Hour)
	token, err := signer.Mint("doc-1")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	docID, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if docID != "doc-1" {
		t.Fatalf("expected doc-1, got %s", docID)
	}
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("segredo", -time.Minute)
	token, err := signer.Mint("doc-1")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := signer.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestSignerRejectsForeignSecret(t *testing.T) {
	token, err := NewSigner("segredo-a", time.Hour).Mint("doc-1")
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := NewSigner("segredo-b", time.Hour).Verify(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
