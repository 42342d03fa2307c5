package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"otter/server/internal/jsonrpc"
	"otter/server/internal/middleware"
	"otter/server/internal/observability"
	"otter/server/internal/tools"
)

type Handler struct {
	registry *tools.Registry
	metrics  *observability.ToolMetrics
	tracer   trace.Tracer
}

func NewHandler(registry *tools.Registry) *Handler {
	return &Handler{
		registry: registry,
		metrics:  observability.NewToolMetrics(),
		tracer:   observability.Tracer(),
	}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
// A nil result with a nil error means the method produces no result.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(), nil
	case "ping":
		return struct{}{}, nil
	case "notifications/initialized":
		return nil, nil
	case "tools/list":
		return &ToolsListResult{Tools: h.registry.Definitions()}, nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	default:
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Method not found: " + req.Method}
	}
}

func (h *Handler) handleInitialize() *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
	}
}

// parseToolCallParams reads params.name and params.arguments leniently: a
// missing or non-string name yields "", non-object arguments yield an empty map.
func parseToolCallParams(raw json.RawMessage) ToolCallParams {
	params := ToolCallParams{Arguments: map[string]interface{}{}}

	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return params
	}
	if name, ok := fields["name"]; ok {
		_ = json.Unmarshal(name, &params.Name)
	}
	if args, ok := fields["arguments"]; ok {
		var m map[string]interface{}
		if err := json.Unmarshal(args, &m); err == nil && m != nil {
			params.Arguments = m
		}
	}
	return params
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	params := parseToolCallParams(req.Params)
	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: InvalidParams, Message: "Missing tool name"}
	}

	name, ok := h.registry.Lookup(params.Name)
	if !ok {
		return nil, &jsonrpc.Error{Code: MethodNotFound, Message: "Unknown tool: " + params.Name}
	}

	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		return nil, &jsonrpc.Error{Code: InternalError, Message: "Internal error: auth context missing"}
	}

	ctx, span := h.tracer.Start(ctx, "mcp.tools/call",
		trace.WithAttributes(attribute.String("tool.name", params.Name)))
	defer span.End()

	start := time.Now()
	result := h.callTool(ctx, name, params.Arguments, tools.CallContext{
		Store:  authCtx.Store,
		UserID: authCtx.UserID,
	})
	elapsed := time.Since(start)

	status, errMsg := "success", ""
	if result.IsError {
		status, errMsg = "error", result.Text()
		span.SetStatus(codes.Error, errMsg)
	}
	h.metrics.Record(ctx, params.Name, status, elapsed)
	observability.LogToolCall(middleware.GetRequestID(ctx), authCtx.UserID, params.Name, elapsed.Milliseconds(), status, errMsg)

	return result, nil
}

// callTool runs one tool and turns any handler failure, including a panic,
// into an isError result scoped to this call.
func (h *Handler) callTool(ctx context.Context, name tools.Name, args map[string]interface{}, cc tools.CallContext) (result *ToolCallResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[mcp] tool %s panicked: %v\n%s", name, r, debug.Stack())
			result = tools.ErrorResult(fmt.Sprintf("Tool execution failed: %v", r))
		}
	}()

	res, err := h.registry.Call(ctx, name, args, cc)
	if err != nil {
		return tools.ErrorResult("Tool execution failed: " + err.Error())
	}
	if res == nil {
		return tools.ErrorResult("Tool execution failed: no result")
	}
	return res
}
