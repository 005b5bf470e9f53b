package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/aulalivre/aulalivre/internal/gateway/nfse"
	"github.com/aulalivre/aulalivre/internal/types"
)

// FakeNfseClient records submissions and polls, with overridable funcs for
// failure injection.
type FakeNfseClient struct {
	mu sync.Mutex

	Disabled     bool
	SubmitFn     func(ctx context.Context, sub *nfse.Submission) (string, error)
	PollStatusFn func(ctx context.Context, submissionID string) (*nfse.StatusResult, error)

	submitCalls []*nfse.Submission
	pollCalls   []string
	nextID      int
}

func NewFakeNfseClient() *FakeNfseClient {
	return &FakeNfseClient{}
}

func (f *FakeNfseClient) Enabled() bool {
	return !f.Disabled
}

func (f *FakeNfseClient) SubmitTaxInvoice(ctx context.Context, sub *nfse.Submission) (string, error) {
	f.mu.Lock()
	f.submitCalls = append(f.submitCalls, sub)
	f.nextID++
	id := fmt.Sprintf("sub-%d", f.nextID)
	fn := f.SubmitFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, sub)
	}
	return id, nil
}

func (f *FakeNfseClient) PollTaxInvoiceStatus(ctx context.Context, submissionID string) (*nfse.StatusResult, error) {
	f.mu.Lock()
	f.pollCalls = append(f.pollCalls, submissionID)
	fn := f.PollStatusFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, submissionID)
	}
	return &nfse.StatusResult{Status: types.NfseStatusPending}, nil
}

// SubmitCalls returns every submission seen so far
func (f *FakeNfseClient) SubmitCalls() []*nfse.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]*nfse.Submission, len(f.submitCalls))
	copy(calls, f.submitCalls)
	return calls
}

// PollCalls returns every polled submission id
func (f *FakeNfseClient) PollCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]string, len(f.pollCalls))
	copy(calls, f.pollCalls)
	return calls
}
