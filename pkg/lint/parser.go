package lint

import (
	"context"

	"github.com/yaklabco/rbfix/pkg/ast"
)

// Parser turns Ruby source into a ParsedSource.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/external) provide the concrete parsing.
//
// Implementations must be:
//   - deterministic for a given (path, content) pair,
//   - safe for concurrent use by multiple goroutines, if documented as such.
type Parser interface {
	// Parse converts raw Ruby bytes into a ParsedSource.
	//
	// Parameters:
	//   - ctx: context for cancellation and timeout propagation.
	//   - path: logical file path, used as the buffer name.
	//   - content: raw source bytes (must not be mutated by the implementation).
	//
	// On error no partial ParsedSource is returned. On success:
	//   - ps.Path == path and ps.Buffer.Source() == string(content),
	//   - every node range lies inside its parent's expression range,
	//   - tokens are sorted by begin then end.
	Parse(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error)
}
