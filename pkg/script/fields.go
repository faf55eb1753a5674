package script

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Assignment sets every field whose name matches Pattern to Value.
type Assignment struct {
	Pattern string
	Value   string
}

func (a Assignment) matcher() (glob.Glob, error) {
	g, err := glob.Compile(a.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid field pattern '%s': %w", a.Pattern, err)
	}
	return g, nil
}

// Assignments keeps the order in which fields are written in the script.
type Assignments []Assignment

// UnmarshalYAML decodes a mapping of pattern to scalar value.
func (as *Assignments) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", node.Line)
	}

	out := make(Assignments, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: field %q needs a scalar value", value.Line, key.Value)
		}
		out = append(out, Assignment{Pattern: key.Value, Value: value.Value})
	}
	*as = out
	return nil
}

// ParseAssignment parses "pattern=value".
func ParseAssignment(s string) (Assignment, error) {
	pattern, value, ok := strings.Cut(s, "=")
	if !ok || pattern == "" {
		return Assignment{}, fmt.Errorf("expected pattern=value, got %q", s)
	}
	a := Assignment{Pattern: pattern, Value: value}
	if _, err := a.matcher(); err != nil {
		return Assignment{}, err
	}
	return a, nil
}
