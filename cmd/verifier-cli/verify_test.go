package main

import (
	"testing"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/vk"
)

func TestParsePublicInputsEmptyString(t *testing.T) {
	out, err := parsePublicInputs("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil slice for empty input, got %v", out)
	}
}

func TestParsePublicInputsRejectsMalformedHex(t *testing.T) {
	if _, err := parsePublicInputs("zz"); err == nil {
		t.Fatalf("expected an error for malformed hex")
	}
}

func TestParsePublicInputsDecodesCommaSeparatedValues(t *testing.T) {
	out, err := parsePublicInputs("0x0000000000000000000000000000000000000000000000000000000000000001,0x0000000000000000000000000000000000000000000000000000000000000002")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 public inputs, got %d", len(out))
	}
}

func TestUploadVKAndUploadProofEndToEnd(t *testing.T) {
	l := ledger.New()

	vkRaw := make([]byte, vk.Size)
	vkRaw[8] = 1 // log_n = 1
	if err := uploadVK(l, "vk", vkRaw); err != nil {
		t.Fatalf("uploadVK: %v", err)
	}
	raw, err := l.Get("vk")
	if err != nil {
		t.Fatalf("reading vk account: %v", err)
	}
	buf, err := accounts.NewVKBuffer(raw)
	if err != nil {
		t.Fatalf("accounts.NewVKBuffer: %v", err)
	}
	if buf.Status() != accounts.VKReady {
		t.Fatalf("expected vk buffer to be ready, got status %d", buf.Status())
	}

	proofRaw := make([]byte, proof.Size)
	if err := uploadProof(l, "proof", proofRaw, nil); err != nil {
		t.Fatalf("uploadProof: %v", err)
	}
	praw, err := l.Get("proof")
	if err != nil {
		t.Fatalf("reading proof account: %v", err)
	}
	pbuf, err := accounts.NewProofBuffer(praw)
	if err != nil {
		t.Fatalf("accounts.NewProofBuffer: %v", err)
	}
	if !pbuf.Ready() {
		t.Fatalf("expected proof buffer to be ready after full upload")
	}
}

func TestRunPipelineFailsOnZeroProof(t *testing.T) {
	l := ledger.New()

	vkRaw := make([]byte, vk.Size)
	vkRaw[8] = 1
	if err := uploadVK(l, "vk", vkRaw); err != nil {
		t.Fatalf("uploadVK: %v", err)
	}
	if err := uploadProof(l, "proof", make([]byte, proof.Size), nil); err != nil {
		t.Fatalf("uploadProof: %v", err)
	}

	if err := runPipeline(l, "vk", "proof", "state"); err == nil {
		t.Fatalf("expected the zero proof to fail relation checking")
	}
}
