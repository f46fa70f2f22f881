package solana

import "context"

// RPCClient defines the Solana RPC surface the pipeline consumes.
type RPCClient interface {
	// GetTransaction retrieves a confirmed transaction by signature.
	// Returns (nil, nil) when the transaction is not found.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)
}
