// Package simulator assembles the ledger, the debug HTTP surface, and
// an optional background finalization watcher into one harness
// process the CLI and integration tests drive. None of this is part
// of the on-chain verifier itself: the phased driver stays
// single-threaded (verifier.State carries no goroutines or channels),
// this is purely off-chain convenience for exercising it.
package simulator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nicolaslara/solana-noir-verifier/accounts"
	"github.com/nicolaslara/solana-noir-verifier/ledger"
	"github.com/nicolaslara/solana-noir-verifier/log"
)

// PendingReceipt names a verification state account that the watcher
// should try to finalize once it reaches PhaseComplete.
type PendingReceipt struct {
	StateAddr string
	VKAddr    string
	ProofAddr string
}

// Finalizer polls a set of in-flight state accounts and automatically
// submits CreateReceipt once they complete.
type Finalizer struct {
	ledger     *ledger.Ledger
	OndemandCh chan PendingReceipt
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc

	mu      sync.Mutex
	pending map[string]PendingReceipt
}

// NewFinalizer constructs a Finalizer bound to l.
func NewFinalizer(l *ledger.Ledger) *Finalizer {
	return &Finalizer{
		ledger:     l,
		OndemandCh: make(chan PendingReceipt, 32),
		pending:    make(map[string]PendingReceipt),
	}
}

// Start begins watching. monitorInterval of 0 disables the periodic
// sweep and relies solely on OndemandCh submissions.
func (f *Finalizer) Start(ctx context.Context, monitorInterval time.Duration) {
	f.ctx, f.cancel = context.WithCancel(ctx)

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		for {
			select {
			case p := <-f.OndemandCh:
				f.track(p)
				f.tryFinalize(p)
			case <-f.ctx.Done():
				return
			}
		}
	}()

	if monitorInterval > 0 {
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			ticker := time.NewTicker(monitorInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					f.sweep()
				case <-f.ctx.Done():
					return
				}
			}
		}()
	}

	log.Infow("simulator: auto-finalizer started")
}

// Close stops the watcher and waits for its goroutines to exit.
func (f *Finalizer) Close() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	f.cancel = nil
	f.wg.Wait()
}

func (f *Finalizer) track(p PendingReceipt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[p.StateAddr] = p
}

func (f *Finalizer) untrack(addr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, addr)
}

func (f *Finalizer) sweep() {
	f.mu.Lock()
	snapshot := make([]PendingReceipt, 0, len(f.pending))
	for _, p := range f.pending {
		snapshot = append(snapshot, p)
	}
	f.mu.Unlock()

	for _, p := range snapshot {
		f.tryFinalize(p)
	}
}

func (f *Finalizer) tryFinalize(p PendingReceipt) {
	raw, err := f.ledger.Get(p.StateAddr)
	if err != nil {
		return
	}
	s, err := accounts.Decode(raw)
	if err != nil {
		log.Errorw(err, fmt.Sprintf("simulator: decoding state %s", p.StateAddr))
		return
	}
	if err := accounts.ReadyForReceipt(s); err != nil {
		return // not complete yet, or failed; either way nothing to do this pass
	}

	if _, err := ledger.Execute(f.ledger, ledger.Instruction{
		Opcode:    accounts.OpCreateReceipt,
		VKAddr:    p.VKAddr,
		ProofAddr: p.ProofAddr,
		StateAddr: p.StateAddr,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		log.Errorw(err, fmt.Sprintf("simulator: auto-finalizing %s", p.StateAddr))
		return
	}
	log.Infow("simulator: auto-created receipt", "state", p.StateAddr)
	f.untrack(p.StateAddr)
}
