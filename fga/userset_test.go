package fga_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/permithq/tenantgate/fga"
)

func roundTrip(t *testing.T, us fga.Userset) fga.Userset {
	t.Helper()
	raw, err := fga.MarshalUserset(us)
	require.NoError(t, err)
	decoded, err := fga.UnmarshalUserset(raw)
	require.NoError(t, err)
	return decoded
}

func TestUsersetThis(t *testing.T) {
	decoded := roundTrip(t, fga.This{})
	require.IsType(t, fga.This{}, decoded)

	raw, err := fga.MarshalUserset(fga.This{})
	require.NoError(t, err)
	require.JSONEq(t, `{"this":{}}`, string(raw))
}

func TestUsersetComputed(t *testing.T) {
	decoded := roundTrip(t, fga.ComputedUserset{Relation: "owner"})
	require.Equal(t, fga.ComputedUserset{Relation: "owner"}, decoded)
}

func TestUsersetTupleToUserset(t *testing.T) {
	us := fga.TupleToUserset{
		Tupleset:        fga.ObjectRelation{Relation: "parent"},
		ComputedUserset: fga.ObjectRelation{Object: "$TUPLE_USERSET_OBJECT", Relation: "viewer"},
	}
	require.Equal(t, us, roundTrip(t, us))
}

func TestUsersetUnion(t *testing.T) {
	us := fga.Union{Children: []fga.Userset{
		fga.This{},
		fga.ComputedUserset{Relation: "editor"},
	}}
	decoded := roundTrip(t, us)

	union, ok := decoded.(fga.Union)
	require.True(t, ok)
	require.Len(t, union.Children, 2)
	require.IsType(t, fga.This{}, union.Children[0])
	require.Equal(t, fga.ComputedUserset{Relation: "editor"}, union.Children[1])
}

func TestUsersetDifferenceNested(t *testing.T) {
	us := fga.Difference{
		Base: fga.Union{Children: []fga.Userset{
			fga.This{},
			fga.ComputedUserset{Relation: "editor"},
		}},
		Subtract: fga.ComputedUserset{Relation: "banned"},
	}
	decoded := roundTrip(t, us)

	diff, ok := decoded.(fga.Difference)
	require.True(t, ok)
	require.IsType(t, fga.Union{}, diff.Base)
	require.Equal(t, fga.ComputedUserset{Relation: "banned"}, diff.Subtract)
}

func TestUnmarshalRejectsEmptyObject(t *testing.T) {
	_, err := fga.UnmarshalUserset([]byte(`{}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsMultipleVariants(t *testing.T) {
	raw := `{"this":{},"computedUserset":{"relation":"owner"}}`
	_, err := fga.UnmarshalUserset([]byte(raw))
	require.Error(t, err)
}

func TestTypeDefinitionRoundTrip(t *testing.T) {
	def := fga.TypeDefinition{
		Type: "document",
		Relations: map[string]fga.Userset{
			"owner":  fga.This{},
			"viewer": fga.Union{Children: []fga.Userset{fga.This{}, fga.ComputedUserset{Relation: "owner"}}},
		},
	}

	raw, err := json.Marshal(def)
	require.NoError(t, err)

	var decoded fga.TypeDefinition
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "document", decoded.Type)
	require.IsType(t, fga.This{}, decoded.Relations["owner"])
	require.IsType(t, fga.Union{}, decoded.Relations["viewer"])
}

func TestWriteTuplesRequestShape(t *testing.T) {
	req := fga.WriteTuplesRequest{
		Writes: []fga.TupleKey{{Object: "document:budget", Relation: "viewer", User: "user:anne"}},
	}
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"writes":{"tuple_keys":[{"object":"document:budget","relation":"viewer","user":"user:anne"}]}}`, string(raw))
}
