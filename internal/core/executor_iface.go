package core

import (
	"context"

	"github.com/dkeye/CodeRoom/internal/domain"
)

// Executor runs source code on a remote execution service.
// Implementations may be slow and must honour ctx cancellation.
type Executor interface {
	Execute(ctx context.Context, req domain.ExecRequest) (domain.ExecResult, error)
}
