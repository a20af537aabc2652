package fga

import "encoding/json"

// TupleKey is one relationship: user has relation on object.
type TupleKey struct {
	User     string `json:"user"`
	Relation string `json:"relation"`
	Object   string `json:"object"`
}

// TypeDefinition declares one object type and its relation rewrites.
type TypeDefinition struct {
	Type      string             `json:"type"`
	Relations map[string]Userset `json:"-"`
}

// typeDefinitionWire carries relations as raw JSON across the boundary.
type typeDefinitionWire struct {
	Type      string                     `json:"type"`
	Relations map[string]json.RawMessage `json:"relations,omitempty"`
}

func (td TypeDefinition) MarshalJSON() ([]byte, error) {
	wire := typeDefinitionWire{Type: td.Type}
	if len(td.Relations) > 0 {
		wire.Relations = make(map[string]json.RawMessage, len(td.Relations))
		for name, us := range td.Relations {
			raw, err := MarshalUserset(us)
			if err != nil {
				return nil, err
			}
			wire.Relations[name] = raw
		}
	}
	return json.Marshal(wire)
}

func (td *TypeDefinition) UnmarshalJSON(raw []byte) error {
	var wire typeDefinitionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	td.Type = wire.Type
	if len(wire.Relations) > 0 {
		td.Relations = make(map[string]Userset, len(wire.Relations))
		for name, rawUserset := range wire.Relations {
			us, err := UnmarshalUserset(rawUserset)
			if err != nil {
				return err
			}
			td.Relations[name] = us
		}
	}
	return nil
}

// AuthorizationModel is a versioned set of type definitions.
type AuthorizationModel struct {
	ID              string           `json:"id,omitempty"`
	SchemaVersion   string           `json:"schema_version"`
	TypeDefinitions []TypeDefinition `json:"type_definitions"`
}

// Store is an authorization data namespace on the FGA server.
type Store struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// WriteTuplesRequest adds and/or removes relationship tuples.
type WriteTuplesRequest struct {
	Writes               []TupleKey `json:"-"`
	Deletes              []TupleKey `json:"-"`
	AuthorizationModelID string     `json:"authorization_model_id,omitempty"`
}

func (r WriteTuplesRequest) MarshalJSON() ([]byte, error) {
	type keyList struct {
		TupleKeys []TupleKey `json:"tuple_keys"`
	}
	wire := struct {
		Writes               *keyList `json:"writes,omitempty"`
		Deletes              *keyList `json:"deletes,omitempty"`
		AuthorizationModelID string   `json:"authorization_model_id,omitempty"`
	}{AuthorizationModelID: r.AuthorizationModelID}
	if len(r.Writes) > 0 {
		wire.Writes = &keyList{TupleKeys: r.Writes}
	}
	if len(r.Deletes) > 0 {
		wire.Deletes = &keyList{TupleKeys: r.Deletes}
	}
	return json.Marshal(wire)
}

// ReadTuplesRequest filters stored tuples; zero-valued fields match all.
type ReadTuplesRequest struct {
	TupleKey          *TupleKey `json:"tuple_key,omitempty"`
	PageSize          int32     `json:"page_size,omitempty"`
	ContinuationToken string    `json:"continuation_token,omitempty"`
}

type ReadTuplesResponse struct {
	Tuples []struct {
		Key       TupleKey `json:"key"`
		Timestamp string   `json:"timestamp"`
	} `json:"tuples"`
	ContinuationToken string `json:"continuation_token,omitempty"`
}

type ListStoresResponse struct {
	Stores            []Store `json:"stores"`
	ContinuationToken string  `json:"continuation_token,omitempty"`
}

type WriteModelResponse struct {
	AuthorizationModelID string `json:"authorization_model_id"`
}

// CheckRequest asks whether a user has a relation to an object.
type CheckRequest struct {
	TupleKey             TupleKey `json:"tuple_key"`
	AuthorizationModelID string   `json:"authorization_model_id,omitempty"`
}

type CheckResponse struct {
	Allowed    bool   `json:"allowed"`
	Resolution string `json:"resolution,omitempty"`
}

// BatchCheckItem is one membership question inside a batch, identified
// by a caller-chosen correlation id.
type BatchCheckItem struct {
	TupleKey      TupleKey `json:"tuple_key"`
	CorrelationID string   `json:"correlation_id"`
}

type BatchCheckRequest struct {
	Checks               []BatchCheckItem `json:"checks"`
	AuthorizationModelID string           `json:"authorization_model_id,omitempty"`
}

// BatchCheckResponse maps each correlation id to its outcome.
type BatchCheckResponse struct {
	Result map[string]CheckResponse `json:"result"`
}

// ExpandRequest resolves the userset tree behind a relation on an object.
type ExpandRequest struct {
	TupleKey             ObjectRelation `json:"tuple_key"`
	AuthorizationModelID string         `json:"authorization_model_id,omitempty"`
}

// ExpandResponse carries the server's userset tree verbatim; the gateway
// forwards it without interpreting the evaluation.
type ExpandResponse struct {
	Tree json.RawMessage `json:"tree"`
}

// ObjectRef identifies one object by type and id.
type ObjectRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// UserTypeFilter restricts ListUsers results to one user type, optionally
// as members of a relation on that type.
type UserTypeFilter struct {
	Type     string `json:"type"`
	Relation string `json:"relation,omitempty"`
}

type ListUsersRequest struct {
	Object               ObjectRef        `json:"object"`
	Relation             string           `json:"relation"`
	UserFilters          []UserTypeFilter `json:"user_filters"`
	AuthorizationModelID string           `json:"authorization_model_id,omitempty"`
}

type ListUsersResponse struct {
	Users []json.RawMessage `json:"users"`
}
