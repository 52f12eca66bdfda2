package tools

import (
	"context"
)

//go:generate mockgen -source=tools.go -destination=../mocks/mocktools/tools_mock.gen.go -package mocktools

// ToolInfo describes a tool exposed by the builtin executor.
type ToolInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Parameters is the JSON schema of the tool parameters, if known.
	Parameters any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ServerInfo describes a server registered in the external hub.
type ServerInfo struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	IsConnected bool   `json:"is_connected" yaml:"is_connected"`
}

// BuiltinExecutor executes tools that live in the current process.
type BuiltinExecutor interface {
	// ListTools returns the tools served by the executor.
	ListTools(ctx context.Context) []ToolInfo
	// CallTool invokes the tool by name.
	// Implementations should honor ctx cancellation.
	CallTool(ctx context.Context, name string, parameters map[string]any) (any, error)
}

// ExternalHub routes calls to tools served by external servers.
type ExternalHub interface {
	// GetServer returns the server, or nil if it is not registered.
	GetServer(serverID string) *ServerInfo
	// CallTool invokes the tool on the server.
	// Implementations should honor ctx cancellation.
	CallTool(ctx context.Context, serverID, name string, parameters map[string]any) (any, error)
}

// ITool is a builtin tool that can be served by a BuiltinExecutor.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool.
	Description() string
	// Parameters returns the JSON schema of the tool parameters.
	Parameters() any

	// Call executes the tool with the given parameters and returns the result.
	Call(ctx context.Context, parameters map[string]any) (any, error)
}

// GetInfos returns descriptions of the tools.
func GetInfos(list ...ITool) []ToolInfo {
	infos := make([]ToolInfo, 0, len(list))
	for _, tool := range list {
		infos = append(infos, ToolInfo{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return infos
}
