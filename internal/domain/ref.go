package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RefKind tells how a Ref identifies its target.
type RefKind string

const (
	RefByReference RefKind = "reference"
	RefByCode      RefKind = "code"
)

// Ref points at a course or user either by database reference or by a plain code.
// Older documents store a bare string code, newer ones an object reference.
type Ref struct {
	Kind  RefKind
	Value string
}

func ByReference(id string) Ref { return Ref{Kind: RefByReference, Value: id} }

func ByCode(code string) Ref { return Ref{Kind: RefByCode, Value: code} }

func (r Ref) IsZero() bool { return r.Value == "" }

// Matches reports whether the ref identifies id, whichever form it was stored in.
func (r Ref) Matches(id string) bool {
	return !r.IsZero() && r.Value == id
}

func (r Ref) String() string { return r.Value }

type refObject struct {
	ID string `json:"id"`
}

// MarshalJSON writes codes as strings and references as {"id": ...}.
func (r Ref) MarshalJSON() ([]byte, error) {
	switch {
	case r.IsZero():
		return []byte("null"), nil
	case r.Kind == RefByReference:
		return json.Marshal(refObject{ID: r.Value})
	default:
		return json.Marshal(r.Value)
	}
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	switch data[0] {
	case '"':
		var code string
		if err := json.Unmarshal(data, &code); err != nil {
			return err
		}
		*r = ByCode(code)
		return nil
	case '{':
		var obj refObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = ByReference(obj.ID)
		return nil
	default:
		return fmt.Errorf("ref: unsupported json %s", data)
	}
}
