package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
)

// registeredTool pairs a tool with its resolved input schema.
type registeredTool struct {
	tool     *Tool
	resolved *jsonschema.Resolved
}

// Registry holds the tool catalog bound to one vector store and dispatches calls.
// It is immutable after construction and safe for concurrent use.
type Registry struct {
	tools   map[ToolName]*registeredTool
	order   []ToolName
	api     RemoteClient
	storeID string
	logger  *slog.Logger
}

// NewRegistry creates a registry holding the full catalog.
func NewRegistry(api RemoteClient, storeID string, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		tools:   make(map[ToolName]*registeredTool),
		api:     api,
		storeID: storeID,
		logger:  logger,
	}

	for _, tool := range Catalog() {
		if err := r.register(tool); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// register adds a tool to the registry.
func (r *Registry) register(tool *Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil for %s", tool.Name)
	}
	if tool.InputSchema == nil {
		return fmt.Errorf("tool input schema cannot be nil for %s", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}

	resolved, err := tool.InputSchema.Resolve(&jsonschema.ResolveOptions{ValidateDefaults: true})
	if err != nil {
		return fmt.Errorf("failed to resolve input schema for %s: %w", tool.Name, err)
	}

	r.tools[tool.Name] = &registeredTool{tool: tool, resolved: resolved}
	r.order = append(r.order, tool.Name)
	r.logger.Debug("Registered tool", "name", tool.Name, "method", tool.Method, "path", tool.Path)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, error) {
	rt, exists := r.tools[ToolName(name)]
	if !exists {
		return nil, &UnknownToolError{Name: name, Suggestion: closestToolName(name, r.order)}
	}
	return rt.tool, nil
}

// ListAll returns all registered tools in catalog order.
func (r *Registry) ListAll() []*Tool {
	tools := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// StoreID returns the vector store the registry is bound to.
func (r *Registry) StoreID() string {
	return r.storeID
}

// Execute runs a tool with the given arguments. Errors from the API client are
// returned unchanged.
func (r *Registry) Execute(ctx context.Context, toolName string, arguments map[string]any) (*Result, error) {
	start := time.Now()

	rt, exists := r.tools[ToolName(toolName)]
	if !exists {
		err := &UnknownToolError{Name: toolName, Suggestion: closestToolName(toolName, r.order)}
		r.logger.WarnContext(ctx, "Rejected call to unknown tool", "name", toolName, "suggestion", err.Suggestion)
		return nil, err
	}

	args, err := r.prepareArguments(rt, arguments)
	if err != nil {
		r.logger.WarnContext(ctx, "Rejected tool arguments", "name", toolName, "error", err)
		return nil, err
	}

	r.logger.InfoContext(ctx, "Executing tool", "name", toolName, "method", rt.tool.Method, "path", rt.tool.Path)

	value, err := rt.tool.Handler(ctx, &Invocation{
		API:     r.api,
		StoreID: r.storeID,
		Args:    args,
	})
	executionTime := time.Since(start).Milliseconds()
	if err != nil {
		r.logger.ErrorContext(ctx, "Tool execution failed", "name", toolName, "error", err, "execution_time_ms", executionTime)
		return nil, err
	}

	r.logger.InfoContext(ctx, "Tool execution successful", "name", toolName, "execution_time_ms", executionTime)

	return &Result{ToolName: rt.tool.Name, Value: value}, nil
}

// prepareArguments checks required arguments, applies defaults and validates
// the result against the tool's input schema.
func (r *Registry) prepareArguments(rt *registeredTool, arguments map[string]any) (Arguments, error) {
	args := withoutNulls(arguments)

	for _, name := range rt.tool.InputSchema.Required {
		if _, ok := args[name]; !ok {
			return nil, &ArgumentError{Tool: rt.tool.Name, Argument: name, Reason: ReasonMissing}
		}
	}

	instance := map[string]any(args)
	if err := rt.resolved.ApplyDefaults(&instance); err != nil {
		return nil, fmt.Errorf("failed to apply defaults for %s: %w", rt.tool.Name, err)
	}
	if err := rt.resolved.Validate(instance); err != nil {
		return nil, &ArgumentError{Tool: rt.tool.Name, Reason: ReasonInvalid, Cause: err}
	}

	return Arguments(instance), nil
}
