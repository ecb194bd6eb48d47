package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	pkgerrors "usercodec/pkg/errors"
)

// Wire names. These are contract strings and must not follow Go naming.
const (
	FieldCreatedAt = "createdAt"
	FieldID        = "id"
	FieldIsAdmin   = "isAdmin"
	FieldKarma     = "karma"
)

// field binds one wire name to its encoder and decoder.
type field struct {
	name   string
	encode func(u *User) []byte
	decode func(u *User, raw json.RawMessage) error
}

// fields is the serialization boundary. Order here is encode order and
// the order in which decode reports the first failing field.
var fields = [...]field{
	{
		name:   FieldCreatedAt,
		encode: func(u *User) []byte { return quote(u.CreatedAt.String()) },
		decode: func(u *User, raw json.RawMessage) error {
			s, err := decodeString(FieldCreatedAt, raw, "timestamp")
			if err != nil {
				return err
			}
			ts, err := ParseTimestamp(s)
			if err != nil {
				return pkgerrors.NewInvalidTimestampError(FieldCreatedAt, s, err)
			}
			u.CreatedAt = ts
			return nil
		},
	},
	{
		name:   FieldID,
		encode: func(u *User) []byte { return quote(u.ID) },
		decode: func(u *User, raw json.RawMessage) error {
			s, err := decodeString(FieldID, raw, "string")
			if err != nil {
				return err
			}
			u.ID = s
			return nil
		},
	},
	{
		name:   FieldIsAdmin,
		encode: func(u *User) []byte { return strconv.AppendBool(nil, u.IsAdmin) },
		decode: func(u *User, raw json.RawMessage) error {
			switch string(raw) {
			case "true":
				u.IsAdmin = true
			case "false":
				u.IsAdmin = false
			default:
				return pkgerrors.NewTypeMismatchError(FieldIsAdmin, "boolean", kindOf(raw))
			}
			return nil
		},
	},
	{
		name:   FieldKarma,
		encode: func(u *User) []byte { return strconv.AppendInt(nil, int64(u.Karma), 10) },
		decode: func(u *User, raw json.RawMessage) error {
			if kindOf(raw) != "number" {
				return pkgerrors.NewTypeMismatchError(FieldKarma, "int32", kindOf(raw))
			}
			n, err := strconv.ParseInt(string(raw), 10, 32)
			if err != nil {
				return pkgerrors.NewTypeMismatchError(FieldKarma, "int32", "number "+string(raw))
			}
			u.Karma = int32(n)
			return nil
		},
	},
}

// DecodeOption adjusts decode policy.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	disallowUnknown bool
}

// DisallowUnknownFields makes Decode reject keys outside the field table.
func DisallowUnknownFields() DecodeOption {
	return func(o *decodeOptions) {
		o.disallowUnknown = true
	}
}

// Encode renders u as a JSON object keyed by wire names. It never fails.
func Encode(u User) []byte {
	buf := make([]byte, 0, 96)
	buf = append(buf, '{')
	for i, f := range fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, f.name)
		buf = append(buf, ':')
		buf = append(buf, f.encode(&u)...)
	}
	return append(buf, '}')
}

// Decode parses a JSON object into a User. Any failure yields a
// *errors.DecodeError naming the first offending field and no User.
func Decode(data []byte, opts ...DecodeOption) (User, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	obj, err := decodeObject(data)
	if err != nil {
		return User{}, err
	}

	if o.disallowUnknown {
		if name, ok := firstUnknown(obj); ok {
			return User{}, pkgerrors.NewUnknownFieldError(name)
		}
	}

	var u User
	for _, f := range fields {
		raw, ok := obj[f.name]
		if !ok {
			return User{}, pkgerrors.NewMissingFieldError(f.name)
		}
		if err := f.decode(&u, bytes.TrimSpace(raw)); err != nil {
			return User{}, err
		}
	}
	return u, nil
}

// MarshalJSON implements json.Marshaler.
func (u User) MarshalJSON() ([]byte, error) {
	return Encode(u), nil
}

// UnmarshalJSON implements json.Unmarshaler with lenient unknown-field policy.
func (u *User) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*u = decoded
	return nil
}

// FieldNames returns the wire names in table order.
func FieldNames() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var v json.RawMessage
	if err := dec.Decode(&v); err != nil {
		return nil, pkgerrors.NewMalformedInputError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, pkgerrors.NewMalformedInputError(errors.New("trailing data after JSON value"))
	}

	if kind := kindOf(v); kind != "object" {
		return nil, pkgerrors.NewTypeMismatchError("", "object", kind)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(v, &obj); err != nil {
		return nil, pkgerrors.NewMalformedInputError(err)
	}
	return obj, nil
}

func firstUnknown(obj map[string]json.RawMessage) (string, bool) {
	var unknown []string
	for name := range obj {
		if !isKnown(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return "", false
	}
	// deterministic report regardless of map order
	first := unknown[0]
	for _, name := range unknown[1:] {
		if name < first {
			first = name
		}
	}
	return first, true
}

func isKnown(name string) bool {
	for _, f := range fields {
		if f.name == name {
			return true
		}
	}
	return false
}

func decodeString(name string, raw json.RawMessage, expected string) (string, error) {
	if kindOf(raw) != "string" {
		return "", pkgerrors.NewTypeMismatchError(name, expected, kindOf(raw))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", pkgerrors.NewTypeMismatchError(name, expected, "invalid string")
	}
	return s, nil
}

// kindOf names the JSON kind of an already-validated raw value.
func kindOf(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "empty"
	}
	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

func quote(s string) []byte {
	// json.Marshal never fails on a string; invalid UTF-8 is coerced.
	b, _ := json.Marshal(s)
	return b
}
