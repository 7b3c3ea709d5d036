package graph

import (
	kgerrors "github.com/c360/kgstat/errors"
)

// NodeRecordFromFields builds a NodeRecord from decoded fields. The "id"
// field is required and is lifted out of the retained properties. The input
// map is never mutated.
func NodeRecordFromFields(fields PropertyMap) (*NodeRecord, error) {
	id, ok := fields.String("id")
	if !ok || id == "" {
		return nil, kgerrors.WrapInvalid(kgerrors.ErrMalformedRecord, "graph", "NodeRecordFromFields", "read id field")
	}

	props := make(PropertyMap, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		props[k] = v
	}

	return &NodeRecord{ID: id, Properties: props}, nil
}

// EdgeRecordFromFields builds an EdgeRecord from decoded fields. The
// "subject" and "object" fields are required; an "id" field, when present,
// becomes the edge key. All three are lifted out of the retained
// properties. The input map is never mutated.
func EdgeRecordFromFields(fields PropertyMap) (*EdgeRecord, error) {
	subject, ok := fields.String("subject")
	if !ok || subject == "" {
		return nil, kgerrors.WrapInvalid(kgerrors.ErrMalformedRecord, "graph", "EdgeRecordFromFields", "read subject field")
	}
	object, ok := fields.String("object")
	if !ok || object == "" {
		return nil, kgerrors.WrapInvalid(kgerrors.ErrMalformedRecord, "graph", "EdgeRecordFromFields", "read object field")
	}
	key, _ := fields.String("id")

	props := make(PropertyMap, len(fields))
	for k, v := range fields {
		switch k {
		case "subject", "object", "id":
			continue
		}
		props[k] = v
	}

	return &EdgeRecord{Subject: subject, Object: object, Key: key, Properties: props}, nil
}

// RecordFromFields dispatches on the entity type and builds the matching
// record. An entity type outside the defined constants is a fatal error
// because it signals a corrupted stream routing, not bad record content.
func RecordFromFields(entity EntityType, fields PropertyMap) (Record, error) {
	switch entity {
	case EntityNode:
		return NodeRecordFromFields(fields)
	case EntityEdge:
		return EdgeRecordFromFields(fields)
	default:
		return nil, kgerrors.WrapFatal(kgerrors.ErrUnknownEntityType, "graph", "RecordFromFields", "dispatch record of type "+entity.String())
	}
}
