package model

import (
	"context"

	"github.com/pennwright/inkwell/internal/model/contract"
)

// Provider is the single boundary to one model backend. Additional backends
// implement this contract; there is no shared base state between them.
type Provider interface {
	Complete(ctx context.Context, req contract.CompletionRequest) (*contract.CompletionResponse, error)
	Name() string
}
