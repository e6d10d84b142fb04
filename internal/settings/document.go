// Package settings provides the deployment settings document model, its JSON
// codec, schema validation and the file store used by every pipeline stage.
//
// The document is the contract between stages: each stage loads it, fills the
// slots it owns and saves it again. Keys are written in a fixed order and a
// section that was never found in the bundle stays absent (not empty).
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/domain"
)

// Top-level document keys, in write order.
const (
	KeyEnvironmentVariables = "EnvironmentVariables"
	KeyConnectionReferences = "ConnectionReferences"
	KeyWorkflowOwnership    = "SolutionComponentOwnershipConfiguration"
)

// Section is a top-level list that may be absent from the document.
// An absent section is omitted on write; a present one is always written,
// as [] when it has no items.
type Section[T any] struct {
	Present bool
	Items   []T
}

// Present returns a present section holding items.
func Present[T any](items ...T) Section[T] {
	if items == nil {
		items = []T{}
	}
	return Section[T]{Present: true, Items: items}
}

// Len returns the number of items (0 for an absent section).
func (s Section[T]) Len() int {
	return len(s.Items)
}

// Document is the deployment settings document.
type Document struct {
	EnvironmentVariables Section[domain.EnvironmentVariable]
	ConnectionReferences Section[domain.ConnectionReference]
	WorkflowOwnership    Section[domain.WorkflowOwnership]

	// extra holds unrecognized top-level keys so a load/save cycle keeps them.
	extra map[string]json.RawMessage
}

// SchemaNames returns the distinct environment variable schema names in document order.
func (d *Document) SchemaNames() []string {
	seen := make(map[string]struct{}, d.EnvironmentVariables.Len())
	names := make([]string, 0, d.EnvironmentVariables.Len())
	for _, v := range d.EnvironmentVariables.Items {
		if _, ok := seen[v.SchemaName]; ok {
			continue
		}
		seen[v.SchemaName] = struct{}{}
		names = append(names, v.SchemaName)
	}
	return names
}

// ExtraKeys returns the unrecognized top-level keys carried by the document, sorted.
func (d *Document) ExtraKeys() []string {
	keys := make([]string, 0, len(d.extra))
	for k := range d.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON writes known sections in fixed order, then extra keys sorted.
func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	field := func(key string, v any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		k, err := encodeCompact(key)
		if err != nil {
			return err
		}
		val, err := encodeCompact(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
		return nil
	}

	if d.EnvironmentVariables.Present {
		if err := field(KeyEnvironmentVariables, nonNil(d.EnvironmentVariables.Items)); err != nil {
			return nil, err
		}
	}
	if d.ConnectionReferences.Present {
		if err := field(KeyConnectionReferences, nonNil(d.ConnectionReferences.Items)); err != nil {
			return nil, err
		}
	}
	if d.WorkflowOwnership.Present {
		if err := field(KeyWorkflowOwnership, nonNil(d.WorkflowOwnership.Items)); err != nil {
			return nil, err
		}
	}
	for _, k := range d.ExtraKeys() {
		if err := field(k, d.extra[k]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a settings document. A null section is treated as absent.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Document
	if err := decodeSection(raw, KeyEnvironmentVariables, &out.EnvironmentVariables); err != nil {
		return err
	}
	if err := decodeSection(raw, KeyConnectionReferences, &out.ConnectionReferences); err != nil {
		return err
	}
	if err := decodeSection(raw, KeyWorkflowOwnership, &out.WorkflowOwnership); err != nil {
		return err
	}

	for k, v := range raw {
		switch k {
		case KeyEnvironmentVariables, KeyConnectionReferences, KeyWorkflowOwnership:
			continue
		}
		if out.extra == nil {
			out.extra = make(map[string]json.RawMessage)
		}
		out.extra[k] = v
	}

	*d = out
	return nil
}

// Encode renders the document the way it is written to disk: indented,
// without HTML escaping, with a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", constants.SettingsIndent)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a settings document without schema validation.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &doc, nil
}

func decodeSection[T any](raw map[string]json.RawMessage, key string, s *Section[T]) error {
	msg, ok := raw[key]
	if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return nil
	}
	var items []T
	if err := json.Unmarshal(msg, &items); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*s = Present(items...)
	return nil
}

func encodeCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
