package api

import (
	"encoding/json"
	"errors"
)

// ConnectionErrorMessage is the message of every synthesized failure response.
const ConnectionErrorMessage = "Error de conexión con el servidor"

// ErrNoData is returned by DecodeData when the response carries no data object.
var ErrNoData = errors.New("response has no data")

// Response is the uniform shape returned by every backend call, and by the
// client itself when the call could not complete.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`

	// Raw holds the exact body bytes as received. It is nil for synthesized
	// responses.
	Raw json.RawMessage `json:"-"`
}

// DecodeData unmarshals the data object into v.
func (r Response) DecodeData(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrNoData
	}
	return json.Unmarshal(r.Data, v)
}

// MessageOr returns the backend message, or fallback when it is empty.
func (r Response) MessageOr(fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	return fallback
}

func connectionFailure() Response {
	return Response{Success: false, Message: ConnectionErrorMessage}
}

// decodeResponse parses a backend body. A body that is a JSON object but types
// a field loosely (for example "success":0 or a numeric message) is read field
// by field: success holds only for the literal true and a non-string message
// is ignored. Only bodies that are not a JSON object fail.
func decodeResponse(raw []byte) (Response, error) {
	var resp Response
	err := json.Unmarshal(raw, &resp)
	var typeErr *json.UnmarshalTypeError
	if err == nil || !errors.As(err, &typeErr) {
		return resp, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Response{}, err
	}
	resp = Response{Success: string(fields["success"]) == "true"}
	if msg, ok := fields["message"]; ok {
		_ = json.Unmarshal(msg, &resp.Message)
	}
	if data, ok := fields["data"]; ok {
		resp.Data = data
	}
	return resp, nil
}
