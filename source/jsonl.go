package source

import (
	"context"
	"encoding/json"
	"fmt"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
)

// JSONLines reads KGX JSON Lines files. Each line is one record object:
// nodes carry "id" plus properties, edges carry "subject" and "object" plus
// an optional "id" and properties. An empty path yields no records.
type JSONLines struct {
	nodePath string
	edgePath string
}

// NewJSONLines returns a source over the given node and edge files.
func NewJSONLines(nodePath, edgePath string) *JSONLines {
	return &JSONLines{nodePath: nodePath, edgePath: edgePath}
}

// ForEachNode implements graph.Source.
func (j *JSONLines) ForEachNode(ctx context.Context, fn func(*graph.NodeRecord) error) error {
	if j.nodePath == "" {
		return nil
	}
	return scanLines(ctx, j.nodePath, "ForEachNode", func(lineNum int, line string) error {
		fields, err := decodeObject(line, lineNum, j.nodePath, "ForEachNode")
		if err != nil {
			return err
		}
		node, err := graph.NodeRecordFromFields(fields)
		if err != nil {
			return kgerrors.Wrap(err, componentName, "ForEachNode", fmt.Sprintf("decode line %d of %s", lineNum, j.nodePath))
		}
		return fn(node)
	})
}

// ForEachEdge implements graph.Source.
func (j *JSONLines) ForEachEdge(ctx context.Context, fn func(*graph.EdgeRecord) error) error {
	if j.edgePath == "" {
		return nil
	}
	return scanLines(ctx, j.edgePath, "ForEachEdge", func(lineNum int, line string) error {
		fields, err := decodeObject(line, lineNum, j.edgePath, "ForEachEdge")
		if err != nil {
			return err
		}
		edge, err := graph.EdgeRecordFromFields(fields)
		if err != nil {
			return kgerrors.Wrap(err, componentName, "ForEachEdge", fmt.Sprintf("decode line %d of %s", lineNum, j.edgePath))
		}
		return fn(edge)
	})
}

func decodeObject(line string, lineNum int, path, method string) (graph.PropertyMap, error) {
	var fields graph.PropertyMap
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: %v", kgerrors.ErrParsingFailed, err),
			componentName, method, fmt.Sprintf("parse line %d of %s", lineNum, path),
		)
	}
	return fields, nil
}
