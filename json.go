package toylang

import (
	"github.com/oarkflow/json"
)

// EncodeJSON renders v as JSON. Instances become objects and functions
// their printed form.
func EncodeJSON(v Value) (string, error) {
	g, err := ToGo(v)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(g)
	if err != nil {
		return "", &Error{Kind: ValueError, Message: "cannot encode value as JSON", Cause: err}
	}
	return string(data), nil
}

// DecodeJSON parses text into runtime values: objects become field-only
// instances and arrays become arrays.
func DecodeJSON(text string) (Value, error) {
	var generic any
	if err := json.Unmarshal([]byte(text), &generic); err != nil {
		return nil, &Error{Kind: FormatError, Message: "invalid JSON: " + err.Error(), Cause: err}
	}
	v, err := FromGo(generic)
	if err != nil {
		return nil, &Error{Kind: FormatError, Message: err.Error(), Cause: err}
	}
	return v, nil
}

// MarshalTokens renders a token stream as a JSON array, used by the
// --tokens flag.
func MarshalTokens(tokens []Token) ([]byte, error) {
	return json.Marshal(tokens)
}
