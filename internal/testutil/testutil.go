// Package testutil defines support code for unit tests.
package testutil

import (
	"os"
	"testing"

	"github.com/berdon/jval/ast"
	"gopkg.in/yaml.v3"
)

// Flatten converts v into plain Go data for comparison in tests: objects
// become map[string]any, arrays []any, strings their raw text, and the
// scalars their Go values. A nil value flattens to nil.
func Flatten(v *ast.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind() {
	case ast.KindNull:
		return nil
	case ast.KindBool:
		return v.Bool()
	case ast.KindInt:
		return v.Int64()
	case ast.KindFloat:
		return v.Float64()
	case ast.KindString:
		return v.Text()
	case ast.KindArray:
		arr := v.Array()
		vals := make([]any, arr.Len())
		for i := range vals {
			vals[i] = Flatten(arr.At(i))
		}
		return vals
	case ast.KindObject:
		obj := v.Object()
		m := make(map[string]any, obj.Len())
		for i := 0; i < obj.Len(); i++ {
			mem := obj.Member(i)
			m[mem.Key] = Flatten(mem.Value)
		}
		return m
	}
	return "<invalid>"
}

// A Vector is one scripted parser case from a testdata file.
type Vector struct {
	Name    string `yaml:"name"`
	Dialect string `yaml:"dialect"` // "json5", or "" for strict
	Input   string `yaml:"input"`
	Want    string `yaml:"want"` // formatted rendering of the parsed value
	Fail    bool   `yaml:"fail"` // whether the parse must report an error
}

// LoadVectors reads the scripted parser cases from path.
func LoadVectors(t *testing.T, path string) []Vector {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read vectors: %v", err)
	}
	var vs []Vector
	if err := yaml.Unmarshal(data, &vs); err != nil {
		t.Fatalf("Decode vectors: %v", err)
	}
	return vs
}
