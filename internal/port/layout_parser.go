package port

import (
	"context"

	"drawbook/internal/layout"
)

// LayoutParser abstracts the remote layout parsing API.
type LayoutParser interface {
	Parse(ctx context.Context, fileBytes []byte, isPDF bool) (*layout.ParseResult, error)
}
