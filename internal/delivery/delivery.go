// Package delivery defines the contract shared by all serving surfaces.
package delivery

import "context"

// Delivery is a long-running server started by main. Implementations
// register their own shutdown through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
