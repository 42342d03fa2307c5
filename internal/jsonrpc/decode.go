package jsonrpc

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

var (
	// ErrParse means the body is not valid JSON.
	ErrParse = errors.New("invalid JSON")
	// ErrInvalidRequest means a message is not a well-formed request object.
	ErrInvalidRequest = errors.New("missing jsonrpc or method")
)

// SplitBody validates body and splits it into messages. batch reports
// whether the body was a JSON array; a non-array body is a single message.
func SplitBody(body []byte) (msgs []json.RawMessage, batch bool, err error) {
	if !jx.Valid(body) {
		return nil, false, ErrParse
	}
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Array {
		return []json.RawMessage{body}, false, nil
	}
	err = d.Arr(func(d *jx.Decoder) error {
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		msgs = append(msgs, json.RawMessage(append([]byte(nil), raw...)))
		return nil
	})
	if err != nil {
		return nil, true, errors.Wrap(ErrParse, err.Error())
	}
	return msgs, true, nil
}

// DecodeRequest decodes one message. When the message is not a valid request
// it returns ErrInvalidRequest together with whatever id could be recovered,
// so the caller can decide whether a response is owed.
func DecodeRequest(raw []byte) (*Request, error) {
	req := &Request{}
	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Object {
		return req, ErrInvalidRequest
	}

	valid := true
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "jsonrpc":
			if d.Next() != jx.String {
				valid = false
				return d.Skip()
			}
			v, err := d.Str()
			req.JSONRPC = v
			return err
		case "method":
			if d.Next() != jx.String {
				valid = false
				return d.Skip()
			}
			v, err := d.Str()
			req.Method = v
			return err
		case "id":
			switch d.Next() {
			case jx.String, jx.Number, jx.Null:
				v, err := d.Raw()
				if err != nil {
					return err
				}
				req.ID = json.RawMessage(append([]byte(nil), v...))
				return nil
			default:
				valid = false
				req.badID = true
				return d.Skip()
			}
		case "params":
			v, err := d.Raw()
			if err != nil {
				return err
			}
			req.Params = json.RawMessage(append([]byte(nil), v...))
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return req, errors.Wrap(ErrInvalidRequest, err.Error())
	}
	if !valid || req.JSONRPC != Version || req.Method == "" {
		return req, ErrInvalidRequest
	}
	return req, nil
}
