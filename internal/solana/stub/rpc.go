// Package stub provides an in-memory RPCClient for tests.
package stub

import (
	"context"

	"pumpstream/internal/solana"
)

// RPCClient implements solana.RPCClient for testing. Errs is consumed one
// entry per call before the transaction map is consulted, so tests can
// script failure sequences such as repeated rate limits.
type RPCClient struct {
	Transactions map[string]*solana.Transaction
	Errs         []error
	Calls        int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Transactions: make(map[string]*solana.Transaction),
	}
}

// GetTransaction replays scripted errors, then serves the stub store.
// Like the HTTP client, a missing signature yields (nil, nil).
func (c *RPCClient) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	c.Calls++
	if len(c.Errs) > 0 {
		err := c.Errs[0]
		c.Errs = c.Errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return c.Transactions[signature], nil
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *solana.Transaction) {
	c.Transactions[tx.Signature] = tx
}

// FailWith queues errors to be returned by subsequent calls, in order.
func (c *RPCClient) FailWith(errs ...error) {
	c.Errs = append(c.Errs, errs...)
}

var _ solana.RPCClient = (*RPCClient)(nil)
