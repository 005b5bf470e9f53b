package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/aulalivre/aulalivre/internal/gateway/cora"
)

// FakeCoraClient records invoice creations and lets tests inject failures
// through the overridable funcs.
type FakeCoraClient struct {
	mu sync.Mutex

	Disabled        bool
	CreateInvoiceFn func(ctx context.Context, req *cora.CreateInvoiceRequest) (string, error)
	CancelInvoiceFn func(ctx context.Context, coraInvoiceID string) error

	createCalls []*cora.CreateInvoiceRequest
	cancelCalls []string
	nextID      int
}

func NewFakeCoraClient() *FakeCoraClient {
	return &FakeCoraClient{}
}

func (f *FakeCoraClient) Enabled() bool {
	return !f.Disabled
}

func (f *FakeCoraClient) CreateInvoice(ctx context.Context, req *cora.CreateInvoiceRequest) (string, error) {
	f.mu.Lock()
	f.createCalls = append(f.createCalls, req)
	f.nextID++
	id := fmt.Sprintf("cora-%d", f.nextID)
	fn := f.CreateInvoiceFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return id, nil
}

func (f *FakeCoraClient) CancelInvoice(ctx context.Context, coraInvoiceID string) error {
	f.mu.Lock()
	f.cancelCalls = append(f.cancelCalls, coraInvoiceID)
	fn := f.CancelInvoiceFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, coraInvoiceID)
	}
	return nil
}

// CreateCalls returns every CreateInvoice request seen so far
func (f *FakeCoraClient) CreateCalls() []*cora.CreateInvoiceRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]*cora.CreateInvoiceRequest, len(f.createCalls))
	copy(calls, f.createCalls)
	return calls
}

// CancelCalls returns every cancelled gateway invoice id seen so far
func (f *FakeCoraClient) CancelCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	calls := make([]string, len(f.cancelCalls))
	copy(calls, f.cancelCalls)
	return calls
}
