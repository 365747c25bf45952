// Package pipeline parses a pipeline description string, resolves each
// named element against a registry.Registry, and drives the per-step
// simulation loop. Grounded on
// `original_source/physim-core/src/pipeline.rs`
// (`parse_element_description`, `PipelineBuilder`, `Pipeline::run`).
package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/physim/physim/internal/apierr"
	"github.com/physim/physim/internal/element"
)

// descriptor is one parsed `element key=value...` segment of a pipeline
// description, before being resolved against a registry.
type descriptor struct {
	Name  string
	Props element.Properties
}

// Parse splits a pipeline description on "!" and parses each segment's
// element name and key=value properties. Keys are identifiers; values
// are JSON scalars. Empty key or empty value is a ConfigParse error.
func Parse(line string) ([]descriptor, error) {
	segments := strings.Split(line, "!")
	out := make([]descriptor, 0, len(segments))
	for _, seg := range segments {
		d, err := parseSegment(seg)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseSegment(seg string) (descriptor, error) {
	seg = strings.TrimSpace(seg)
	if seg == "" {
		return descriptor{}, apierr.New(apierr.ErrConfigParse, "empty element description", 400)
	}

	fields := strings.Fields(seg)
	name := fields[0]
	props := make(element.Properties, len(fields)-1)

	for _, field := range fields[1:] {
		key, value, ok := strings.Cut(field, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return descriptor{}, apierr.New(apierr.ErrConfigParse,
				fmt.Sprintf("malformed property %q in element %q", field, name), 400)
		}

		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return descriptor{}, apierr.New(apierr.ErrConfigParse,
				fmt.Sprintf("cannot parse value %q for key %q as JSON", value, key), 400)
		}
		props[key] = parsed
	}

	return descriptor{Name: name, Props: props}, nil
}
