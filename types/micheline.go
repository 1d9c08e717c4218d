package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ecadlabs/taco-shop/internal/utils/safecast"
)

// Micheline is a node of the JSON encoding of Michelson code and data. A node is exactly one
// of: an integer literal, a string literal, a bytes literal, a primitive application or a
// sequence.
type Micheline struct {
	Prim   string
	Args   []Micheline
	Annots []string

	Int    *string
	String *string
	Bytes  *string

	Seq   []Micheline
	IsSeq bool
}

// NewInt returns an integer literal.
func NewInt(n uint64) Micheline {
	s := strconv.FormatUint(n, 10)
	return Micheline{Int: &s}
}

// NewString returns a string literal.
func NewString(s string) Micheline {
	return Micheline{String: &s}
}

// NewBytes returns a bytes literal from its hex form.
func NewBytes(hex string) Micheline {
	return Micheline{Bytes: &hex}
}

// NewPrim returns a primitive application.
func NewPrim(prim string, args ...Micheline) Micheline {
	return Micheline{Prim: prim, Args: args}
}

// NewSeq returns a sequence.
func NewSeq(items ...Micheline) Micheline {
	return Micheline{Seq: items, IsSeq: true}
}

// Uint64 returns the value of a non-negative integer literal.
func (m Micheline) Uint64() (uint64, error) {
	if m.Int == nil {
		return 0, fmt.Errorf("expected int literal, got %s", m.describe())
	}

	return safecast.ParseNat(*m.Int)
}

func (m Micheline) describe() string {
	switch {
	case m.IsSeq:
		return "sequence"
	case m.Int != nil:
		return "int"
	case m.String != nil:
		return "string"
	case m.Bytes != nil:
		return "bytes"
	case m.Prim != "":
		return "prim " + m.Prim
	default:
		return "empty node"
	}
}

type michelineNode struct {
	Prim   string      `json:"prim,omitempty"`
	Args   []Micheline `json:"args,omitempty"`
	Annots []string    `json:"annots,omitempty"`
	Int    *string     `json:"int,omitempty"`
	String *string     `json:"string,omitempty"`
	Bytes  *string     `json:"bytes,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface.
func (m Micheline) MarshalJSON() ([]byte, error) {
	if m.IsSeq {
		if m.Seq == nil {
			return []byte("[]"), nil
		}

		return json.Marshal(m.Seq)
	}

	if m.Prim == "" && m.Int == nil && m.String == nil && m.Bytes == nil {
		return nil, errors.New("cannot encode empty micheline node")
	}

	return json.Marshal(michelineNode{
		Prim:   m.Prim,
		Args:   m.Args,
		Annots: m.Annots,
		Int:    m.Int,
		String: m.String,
		Bytes:  m.Bytes,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Micheline) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var seq []Micheline
		if err := json.Unmarshal(b, &seq); err != nil {
			return err
		}
		*m = Micheline{Seq: seq, IsSeq: true}

		return nil
	}

	var node michelineNode
	if err := json.Unmarshal(b, &node); err != nil {
		return err
	}
	*m = Micheline{
		Prim:   node.Prim,
		Args:   node.Args,
		Annots: node.Annots,
		Int:    node.Int,
		String: node.String,
		Bytes:  node.Bytes,
	}

	return nil
}
