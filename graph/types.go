// Package graph defines the streaming record model for knowledge graph
// traversals: typed node and edge records, their property maps, and the
// source contract that delivers them.
package graph

import (
	"encoding/json"
)

// EntityType represents the kind of graph entity a record describes.
// This enum provides type-safe dispatch between node and edge handling.
type EntityType string

const (
	// EntityNode indicates a record describing a graph node.
	EntityNode EntityType = "node"

	// EntityEdge indicates a record describing a directed edge.
	EntityEdge EntityType = "edge"
)

// String returns the string representation of the EntityType.
func (et EntityType) String() string {
	return string(et)
}

// MarshalJSON implements json.Marshaler to ensure EntityType serializes as a string.
func (et EntityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(et))
}

// UnmarshalJSON implements json.Unmarshaler to deserialize EntityType from string.
func (et *EntityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*et = EntityType(s)
	return nil
}

// IsValid checks if the EntityType is one of the defined constants.
func (et EntityType) IsValid() bool {
	switch et {
	case EntityNode, EntityEdge:
		return true
	default:
		return false
	}
}

// Record is the closed union of streaming graph records. Exactly two types
// implement it: *NodeRecord and *EdgeRecord. Consumers dispatch with a type
// switch; the unexported marker keeps foreign implementations out so the
// switch stays exhaustive.
type Record interface {
	// EntityType reports which kind of entity the record describes.
	EntityType() EntityType

	isRecord()
}

// NodeRecord describes one graph node: its identifier plus all remaining
// properties of the serialized node object.
type NodeRecord struct {
	ID         string      `json:"id"`
	Properties PropertyMap `json:"properties,omitempty"`
}

// EntityType implements Record.
func (n *NodeRecord) EntityType() EntityType { return EntityNode }

func (n *NodeRecord) isRecord() {}

// EdgeRecord describes one directed edge between two nodes. Key carries the
// producer's edge identity; it plays no role in counting.
type EdgeRecord struct {
	Subject    string      `json:"subject"`
	Object     string      `json:"object"`
	Key        string      `json:"key,omitempty"`
	Properties PropertyMap `json:"properties,omitempty"`
}

// EntityType implements Record.
func (e *EdgeRecord) EntityType() EntityType { return EntityEdge }

func (e *EdgeRecord) isRecord() {}
