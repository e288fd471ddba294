package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compileSchema compiles a standalone JSON Schema document for one tool. Each
// tool gets its own compiler instance since tool schemas are registered
// independently and rarely share $ref definitions; callers with shared refs
// should build a jsonschema.Compiler themselves and use RegisterSchema.
func compileSchema(name string, doc []byte) (*jsonschema.Schema, error) {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return nil, fmt.Errorf("tool %q: parse schema: %w", name, err)
	}
	url := "mem://tools/" + name + ".schema.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, v); err != nil {
		return nil, fmt.Errorf("tool %q: add schema resource: %w", name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("tool %q: compile schema: %w", name, err)
	}
	return schema, nil
}

// NewCompiler exposes a fresh jsonschema.Compiler for callers (e.g. MCP
// config loading) that need to register several tool schemas sharing common
// $ref definitions via RegisterSchema.
func NewCompiler() *jsonschema.Compiler {
	return jsonschema.NewCompiler()
}

// CompileFromReader compiles a single schema document read as raw JSON bytes
// into a reusable *jsonschema.Schema, for callers that load schemas from
// files rather than Go string literals.
func CompileFromReader(c *jsonschema.Compiler, url string, doc []byte) (*jsonschema.Schema, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", url, err)
	}
	if err := c.AddResource(url, v); err != nil {
		return nil, fmt.Errorf("add schema resource %s: %w", url, err)
	}
	return c.Compile(url)
}
