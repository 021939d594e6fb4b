package commands

import (
	"context"
	"errors"
	"io"

	"github.com/sbu-community/sentinel/internal/registry"
	"go.uber.org/zap"
)

var (
	ErrNameRequired = errors.New("NAME argument required")
	ErrInvalidID    = errors.New("invalid moderator ID")
)

// Resolver looks up the canonical external ID for a display name.
type Resolver interface {
	Lookup(ctx context.Context, name string) (string, error)
}

// CLIDependencies holds the common dependencies needed by CLI commands.
type CLIDependencies struct {
	Registry registry.Registry
	Resolver Resolver
	Logger   *zap.Logger
	Out      io.Writer
}
