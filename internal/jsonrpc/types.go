package jsonrpc

import "encoding/json"

// Version is the only protocol version accepted in the "jsonrpc" member.
const Version = "2.0"

// Request is a JSON-RPC 2.0 Request. ID and Params are kept raw so the id
// can be echoed byte-for-byte and params decoded per method.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`

	badID bool // id present but neither string, number nor null
}

// IsNotification reports whether the request carries no usable id. A JSON
// null id counts as absent.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Answerable reports whether an invalid request is still owed an error
// response: it carried a usable id, or an id of the wrong type (answered
// with a null id).
func (r *Request) Answerable() bool {
	return r.badID || !r.IsNotification()
}

// Response is a JSON-RPC 2.0 Response. The id is always present and is null
// when the request's id could not be recovered.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 Error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// JSON-RPC 2.0 standard error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Success builds a result response. A nil result is sent as an empty object
// so the response always carries exactly one of result or error.
func Success(id json.RawMessage, result interface{}) *Response {
	if result == nil {
		result = struct{}{}
	}
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// Failure builds an error response.
func Failure(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: Version, ID: id, Error: &Error{Code: code, Message: message}}
}
