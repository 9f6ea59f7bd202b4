//go:build !cgo
// +build !cgo

package scoring

import (
	"context"
	"errors"
)

var errNoCGO = errors.New("cross-encoder requires CGO; build with CGO_ENABLED=1 and onnxruntime")

// CrossEncoder stub type when built without CGO (see cross_encoder.go for
// the real implementation).
type CrossEncoder struct{}

// NewCrossEncoder returns an error when built without CGO.
func NewCrossEncoder(_ string, _ int) (*CrossEncoder, error) {
	return nil, errNoCGO
}

// Score is unavailable without CGO.
func (c *CrossEncoder) Score(_ context.Context, _, _ string) (float64, error) {
	return 0, errNoCGO
}

// Close is a no-op for the stub.
func (c *CrossEncoder) Close() error { return nil }
