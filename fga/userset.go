package fga

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Userset is the relation rewrite rule of an authorization model. The
// wire form is a JSON object where exactly one of six keys is present;
// here each kind is its own type so the translation boundary matches
// exhaustively instead of probing optional fields.
type Userset interface {
	usersetKind() string
}

// This grants the relation to directly related users.
type This struct{}

// ComputedUserset rewrites to another relation on the same object.
type ComputedUserset struct {
	Object   string `json:"object,omitempty"`
	Relation string `json:"relation"`
}

// ObjectRelation names a relation, optionally on another object.
type ObjectRelation struct {
	Object   string `json:"object,omitempty"`
	Relation string `json:"relation"`
}

// TupleToUserset follows a tupleset relation and evaluates a computed
// userset on the objects found there.
type TupleToUserset struct {
	Tupleset        ObjectRelation `json:"tupleset"`
	ComputedUserset ObjectRelation `json:"computedUserset"`
}

// Union grants the relation when any child does.
type Union struct {
	Children []Userset
}

// Intersection grants the relation only when every child does.
type Intersection struct {
	Children []Userset
}

// Difference grants the relation when Base does and Subtract does not.
type Difference struct {
	Base     Userset
	Subtract Userset
}

func (This) usersetKind() string            { return "this" }
func (ComputedUserset) usersetKind() string { return "computedUserset" }
func (TupleToUserset) usersetKind() string  { return "tupleToUserset" }
func (Union) usersetKind() string           { return "union" }
func (Intersection) usersetKind() string    { return "intersection" }
func (Difference) usersetKind() string      { return "difference" }

// wireUserset is the all-optional JSON shape the authorization server
// speaks. It exists only inside the codec.
type wireUserset struct {
	This            *struct{}           `json:"this,omitempty"`
	ComputedUserset *ComputedUserset    `json:"computedUserset,omitempty"`
	TupleToUserset  *wireTupleToUserset `json:"tupleToUserset,omitempty"`
	Union           *wireChildren       `json:"union,omitempty"`
	Intersection    *wireChildren       `json:"intersection,omitempty"`
	Difference      *wireDifference     `json:"difference,omitempty"`
}

type wireTupleToUserset struct {
	Tupleset        ObjectRelation `json:"tupleset"`
	ComputedUserset ObjectRelation `json:"computedUserset"`
}

type wireChildren struct {
	Child []json.RawMessage `json:"child"`
}

type wireDifference struct {
	Base     json.RawMessage `json:"base"`
	Subtract json.RawMessage `json:"subtract"`
}

// MarshalUserset encodes a userset into the server's wire form.
func MarshalUserset(us Userset) ([]byte, error) {
	wire, err := toWire(us)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

func toWire(us Userset) (*wireUserset, error) {
	switch v := us.(type) {
	case This:
		return &wireUserset{This: &struct{}{}}, nil
	case ComputedUserset:
		return &wireUserset{ComputedUserset: &v}, nil
	case TupleToUserset:
		return &wireUserset{TupleToUserset: &wireTupleToUserset{
			Tupleset:        v.Tupleset,
			ComputedUserset: v.ComputedUserset,
		}}, nil
	case Union:
		children, err := marshalChildren(v.Children)
		if err != nil {
			return nil, err
		}
		return &wireUserset{Union: &wireChildren{Child: children}}, nil
	case Intersection:
		children, err := marshalChildren(v.Children)
		if err != nil {
			return nil, err
		}
		return &wireUserset{Intersection: &wireChildren{Child: children}}, nil
	case Difference:
		base, err := MarshalUserset(v.Base)
		if err != nil {
			return nil, err
		}
		subtract, err := MarshalUserset(v.Subtract)
		if err != nil {
			return nil, err
		}
		return &wireUserset{Difference: &wireDifference{Base: base, Subtract: subtract}}, nil
	default:
		return nil, errors.Errorf("[MarshalUserset] unknown userset kind %T", us)
	}
}

func marshalChildren(children []Userset) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(children))
	for _, child := range children {
		raw, err := MarshalUserset(child)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

// UnmarshalUserset decodes the wire form, rejecting objects that set
// zero or multiple variant keys.
func UnmarshalUserset(raw []byte) (Userset, error) {
	var wire wireUserset
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.Wrap(err, "[UnmarshalUserset] decode")
	}

	var result Userset
	variants := 0

	if wire.This != nil {
		result = This{}
		variants++
	}
	if wire.ComputedUserset != nil {
		result = *wire.ComputedUserset
		variants++
	}
	if wire.TupleToUserset != nil {
		result = TupleToUserset{
			Tupleset:        wire.TupleToUserset.Tupleset,
			ComputedUserset: wire.TupleToUserset.ComputedUserset,
		}
		variants++
	}
	if wire.Union != nil {
		children, err := unmarshalChildren(wire.Union.Child)
		if err != nil {
			return nil, err
		}
		result = Union{Children: children}
		variants++
	}
	if wire.Intersection != nil {
		children, err := unmarshalChildren(wire.Intersection.Child)
		if err != nil {
			return nil, err
		}
		result = Intersection{Children: children}
		variants++
	}
	if wire.Difference != nil {
		base, err := UnmarshalUserset(wire.Difference.Base)
		if err != nil {
			return nil, err
		}
		subtract, err := UnmarshalUserset(wire.Difference.Subtract)
		if err != nil {
			return nil, err
		}
		result = Difference{Base: base, Subtract: subtract}
		variants++
	}

	if variants != 1 {
		return nil, fmt.Errorf("[UnmarshalUserset] expected exactly one userset variant, got %d", variants)
	}
	return result, nil
}

func unmarshalChildren(raw []json.RawMessage) ([]Userset, error) {
	out := make([]Userset, 0, len(raw))
	for _, child := range raw {
		us, err := UnmarshalUserset(child)
		if err != nil {
			return nil, err
		}
		out = append(out, us)
	}
	return out, nil
}
