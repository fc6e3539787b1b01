package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	"github.com/nicolaslara/solana-noir-verifier/log"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/sumcheck"
	"github.com/nicolaslara/solana-noir-verifier/vk"
)

// runVerify drives one VK/proof pair through every opcode of the
// phased pipeline in a single process, exactly the sequence a client
// would submit as separate transactions, and reports the outcome.
// It is a one-shot convenience for local testing, not a long-running
// service.
func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	vkPath := fs.String("vk", "", "path to the raw 1,760-byte verification key")
	proofPath := fs.String("proof", "", "path to the raw 16,224-byte proof")
	publicInputsHex := fs.String("public-inputs", "", "comma-separated hex-encoded 32-byte public inputs")
	datadir := fs.String("datadir", "", "pebble datadir for the ledger (empty uses an in-memory ledger)")
	createReceipt := fs.Bool("create-receipt", true, "submit CreateReceipt once verification completes")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parsing verify flags: %v", err)
	}

	log.Init("info", "stderr", nil)

	if *vkPath == "" || *proofPath == "" {
		log.Fatalf("verify: both --vk and --proof are required")
	}

	vkRaw, err := os.ReadFile(*vkPath)
	if err != nil {
		log.Fatalf("reading vk file: %v", err)
	}
	if len(vkRaw) != vk.Size {
		log.Fatalf("vk file must be %d bytes, got %d", vk.Size, len(vkRaw))
	}
	proofRaw, err := os.ReadFile(*proofPath)
	if err != nil {
		log.Fatalf("reading proof file: %v", err)
	}
	if len(proofRaw) != proof.Size {
		log.Fatalf("proof file must be %d bytes, got %d", proof.Size, len(proofRaw))
	}

	publicInputs, err := parsePublicInputs(*publicInputsHex)
	if err != nil {
		log.Fatalf("parsing public inputs: %v", err)
	}

	var l *ledger.Ledger
	if *datadir != "" {
		l, err = ledger.Open(*datadir)
		if err != nil {
			log.Fatalf("opening ledger: %v", err)
		}
	} else {
		l = ledger.New()
	}
	defer func() {
		if err := l.Close(); err != nil {
			log.Errorw(err, "closing ledger")
		}
	}()

	const vkAddr, proofAddr, stateAddr = "vk", "proof", "state"
	if err := uploadVK(l, vkAddr, vkRaw); err != nil {
		log.Fatalf("uploading vk: %v", err)
	}
	if err := uploadProof(l, proofAddr, proofRaw, publicInputs); err != nil {
		log.Fatalf("uploading proof: %v", err)
	}
	if err := runPipeline(l, vkAddr, proofAddr, stateAddr); err != nil {
		log.Fatalf("verification failed: %v", err)
	}

	raw, err := l.Get(stateAddr)
	if err != nil {
		log.Fatalf("reading state account: %v", err)
	}
	s, err := accounts.Decode(raw)
	if err != nil {
		log.Fatalf("decoding state account: %v", err)
	}
	log.Infow("verification finished", "phase", s.Phase.String(), "verified", s.Verified)

	if *createReceipt && s.Verified {
		if _, err := ledger.Execute(l, ledger.Instruction{
			Opcode: accounts.OpCreateReceipt, VKAddr: vkAddr, ProofAddr: proofAddr, StateAddr: stateAddr,
		}); err != nil {
			log.Fatalf("creating receipt: %v", err)
		}
		addr := accounts.DeriveReceiptAddress([]byte(vkAddr), publicInputs)
		log.Infow("receipt created", "address", fmt.Sprintf("%x", addr))
	}
}

func parsePublicInputs(s string) ([]field.Fr, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]field.Fr, 0, len(parts))
	for _, p := range parts {
		b, err := hex.DecodeString(strings.TrimPrefix(p, "0x"))
		if err != nil {
			return nil, fmt.Errorf("decoding %q: %w", p, err)
		}
		v, ok := field.FromRawBytes(b)
		if !ok {
			return nil, fmt.Errorf("public input %q is not a canonical field element", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func uploadVK(l *ledger.Ledger, addr string, raw []byte) error {
	if _, err := ledger.Execute(l, ledger.Instruction{Opcode: accounts.OpInitVKBuffer, VKAddr: addr}); err != nil {
		return err
	}
	_, err := ledger.Execute(l, ledger.Instruction{Opcode: accounts.OpUploadVKChunk, VKAddr: addr, Offset: 0, Data: raw})
	return err
}

func uploadProof(l *ledger.Ledger, addr string, raw []byte, publicInputs []field.Fr) error {
	if _, err := ledger.Execute(l, ledger.Instruction{
		Opcode: accounts.OpInitProofBuffer, ProofAddr: addr, PublicInputsCount: uint16(len(publicInputs)),
	}); err != nil {
		return err
	}
	if _, err := ledger.Execute(l, ledger.Instruction{
		Opcode: accounts.OpSetPublicInputs, ProofAddr: addr, PublicInputs: publicInputs,
	}); err != nil {
		return err
	}
	for i := 0; i < accounts.NumChunks; i++ {
		start := i * accounts.ChunkSize
		end := start + accounts.ChunkSize
		if end > proof.Size {
			end = proof.Size
		}
		if _, err := ledger.Execute(l, ledger.Instruction{
			Opcode: accounts.OpUploadProofChunk, ProofAddr: addr, ChunkIndex: i, Data: raw[start:end],
		}); err != nil {
			return err
		}
	}
	return nil
}

// runPipeline steps a freshly-uploaded VK/proof pair through every
// phase of the verifier, one instruction at a time, the same sequence
// the debug API or a real client would submit as separate transactions.
func runPipeline(l *ledger.Ledger, vkAddr, proofAddr, stateAddr string) error {
	if _, err := ledger.Execute(l, ledger.Instruction{
		Opcode: accounts.OpPhase1Challenges, VKAddr: vkAddr, ProofAddr: proofAddr, StateAddr: stateAddr,
	}); err != nil {
		return err
	}

	for round := 0; round < sumcheck.MaxRounds; round += 4 {
		end := round + 4
		if end > sumcheck.MaxRounds {
			end = sumcheck.MaxRounds
		}
		if _, err := ledger.Execute(l, ledger.Instruction{
			Opcode: accounts.OpPhase2Rounds, ProofAddr: proofAddr, StateAddr: stateAddr,
			RoundStart: round, RoundEnd: end,
		}); err != nil {
			return err
		}
	}

	steps := []accounts.Opcode{
		accounts.OpPhase2dRelations,
		accounts.OpPhase3aWeights,
		accounts.OpPhase3b1Folding,
		accounts.OpPhase3b2Gemini,
		accounts.OpPhase3cMSM,
		accounts.OpPhase3cPairing,
		accounts.OpPhase4Pairing,
	}
	for _, op := range steps {
		if _, err := ledger.Execute(l, ledger.Instruction{
			Opcode: op, VKAddr: vkAddr, ProofAddr: proofAddr, StateAddr: stateAddr,
		}); err != nil {
			return err
		}
	}
	return nil
}
