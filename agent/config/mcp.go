package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// MCPServer is one entry in the MCP server list describes: a tool
// source the startup sequence registers into the tool registry.
type MCPServer struct {
	Name string `yaml:"name"`
	Command string `yaml:"command"`
	Args []string `yaml:"args"`
}

// mcpFile mirrors the full YAML form:
//
//	mcp:
//	  servers:
//	    - name: <string>
//	      command: <string>
//	      args: [<string>,...]
type mcpFile struct {
	MCP struct {
		Servers []MCPServer `yaml:"servers"`
	} `yaml:"mcp"`
}

// ParseMCPConfig parses the full YAML form of MCP server
// configuration.
func ParseMCPConfig(data []byte) ([]MCPServer, error) {
	var f mcpFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, ConfigError("parse MCP config", err)
	}
	for i, s := range f.MCP.Servers {
		if s.Name == "" || s.Command == "" {
			return nil, ConfigError(fmt.Sprintf("MCP server entry %d missing name or command", i), nil)
		}
	}
	return f.MCP.Servers, nil
}

// ParseCompactMCPServer parses alternative compact form:
// "<name>:<command> <arg> <arg>...".
func ParseCompactMCPServer(s string) (MCPServer, error) {
	name, rest, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return MCPServer{}, ConfigError(fmt.Sprintf("invalid compact MCP server spec %q: expected name:command", s), nil)
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return MCPServer{}, ConfigError(fmt.Sprintf("invalid compact MCP server spec %q: missing command", s), nil)
	}
	return MCPServer{Name: name, Command: fields[0], Args: fields[1:]}, nil
}
