package settings

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

//go:embed schema.cue
var schemaSource []byte

const schemaRoot = "#Settings"

//nolint:gochecknoglobals // compiled once, read-only afterward
var (
	schemaOnce  sync.Once
	schemaCtx   *cue.Context
	schemaValue cue.Value
	schemaErr   error

	// validateMu guards schemaCtx; a cue.Context is not safe for concurrent use.
	validateMu sync.Mutex
)

func compiledSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
		if v.Err() != nil {
			schemaErr = fmt.Errorf("internal error: failed to compile settings schema: %w", v.Err())
			return
		}
		root := v.LookupPath(cue.ParsePath(schemaRoot))
		if root.Err() != nil {
			schemaErr = fmt.Errorf("internal error: schema definition %s not found: %w", schemaRoot, root.Err())
			return
		}
		schemaValue = root
	})
	return schemaCtx, schemaValue, schemaErr
}

// Validate checks raw JSON document bytes against the settings schema.
// Malformed JSON and shape violations are reported as ErrSettingsCorrupted
// with the CUE error details; filename only labels positions in the message.
func Validate(data []byte, filename string) error {
	ctx, schema, err := compiledSchema()
	if err != nil {
		return err
	}

	validateMu.Lock()
	defer validateMu.Unlock()

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return corrupted(err)
	}
	value := ctx.BuildExpr(expr)
	if value.Err() != nil {
		return corrupted(value.Err())
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return corrupted(err)
	}
	return nil
}

func corrupted(err error) error {
	return fmt.Errorf("%w: %s", dsferrors.ErrSettingsCorrupted, strings.TrimSpace(cueerrors.Details(err, nil)))
}
