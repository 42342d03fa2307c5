package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"otter/server/internal/jsonrpc"
)

// Dispatch processes the messages of one HTTP body in order. It returns a
// single *jsonrpc.Response for a non-batch body, a []*jsonrpc.Response for a
// batch, or nil when nothing is owed to the caller.
func (h *Handler) Dispatch(ctx context.Context, msgs []json.RawMessage, batch bool) interface{} {
	if !batch {
		if len(msgs) == 0 {
			return nil
		}
		if resp := h.handleMessage(ctx, msgs[0]); resp != nil {
			return resp
		}
		return nil
	}

	var out []*jsonrpc.Response
	for _, raw := range msgs {
		if resp := h.handleMessage(ctx, raw); resp != nil {
			out = append(out, resp)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// handleMessage answers one message, or returns nil when no response is owed.
func (h *Handler) handleMessage(ctx context.Context, raw json.RawMessage) *jsonrpc.Response {
	req, err := jsonrpc.DecodeRequest(raw)
	if err != nil {
		if !req.Answerable() {
			return nil
		}
		return jsonrpc.Failure(req.ID, InvalidRequest, "Invalid Request: missing jsonrpc or method")
	}

	result, rpcErr := h.safeProcess(ctx, req)
	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return jsonrpc.Failure(req.ID, rpcErr.Code, rpcErr.Message)
	}
	return jsonrpc.Success(req.ID, result)
}

func (h *Handler) safeProcess(ctx context.Context, req *jsonrpc.Request) (result interface{}, rpcErr *jsonrpc.Error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[mcp] %s panicked: %v\n%s", req.Method, r, debug.Stack())
			result = nil
			rpcErr = &jsonrpc.Error{Code: InternalError, Message: fmt.Sprintf("Internal error: %v", r)}
		}
	}()
	return h.ProcessRequest(ctx, req)
}
