package source

import (
	"context"
	"fmt"
	"strings"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
)

// listSeparator splits multi-valued TSV cells, per the KGX convention.
const listSeparator = "|"

// TSV reads KGX tab-separated files. The first non-blank line is the header;
// data cells are matched to header columns by position. Empty cells are
// omitted from the property map and cells holding the list separator become
// string lists. An empty path yields no records.
type TSV struct {
	nodePath string
	edgePath string
}

// NewTSV returns a source over the given node and edge files.
func NewTSV(nodePath, edgePath string) *TSV {
	return &TSV{nodePath: nodePath, edgePath: edgePath}
}

// ForEachNode implements graph.Source.
func (t *TSV) ForEachNode(ctx context.Context, fn func(*graph.NodeRecord) error) error {
	if t.nodePath == "" {
		return nil
	}
	var header []string
	return scanLines(ctx, t.nodePath, "ForEachNode", func(lineNum int, line string) error {
		if header == nil {
			header = strings.Split(line, "\t")
			return checkHeader(header, []string{"id"}, t.nodePath, "ForEachNode")
		}
		node, err := graph.NodeRecordFromFields(rowFields(header, line))
		if err != nil {
			return kgerrors.Wrap(err, componentName, "ForEachNode", fmt.Sprintf("decode line %d of %s", lineNum, t.nodePath))
		}
		return fn(node)
	})
}

// ForEachEdge implements graph.Source.
func (t *TSV) ForEachEdge(ctx context.Context, fn func(*graph.EdgeRecord) error) error {
	if t.edgePath == "" {
		return nil
	}
	var header []string
	return scanLines(ctx, t.edgePath, "ForEachEdge", func(lineNum int, line string) error {
		if header == nil {
			header = strings.Split(line, "\t")
			return checkHeader(header, []string{"subject", "object"}, t.edgePath, "ForEachEdge")
		}
		edge, err := graph.EdgeRecordFromFields(rowFields(header, line))
		if err != nil {
			return kgerrors.Wrap(err, componentName, "ForEachEdge", fmt.Sprintf("decode line %d of %s", lineNum, t.edgePath))
		}
		return fn(edge)
	})
}

func checkHeader(header, required []string, path, method string) error {
	for _, want := range required {
		found := false
		for _, column := range header {
			if column == want {
				found = true
				break
			}
		}
		if !found {
			return kgerrors.WrapInvalid(
				fmt.Errorf("%w: header of %s has no %q column", kgerrors.ErrMalformedRecord, path, want),
				componentName, method, "validate header",
			)
		}
	}
	return nil
}

// rowFields zips one data row against the header. Rows shorter than the
// header simply stop early; cells past the header are dropped.
func rowFields(header []string, line string) graph.PropertyMap {
	row := strings.Split(line, "\t")
	fields := make(graph.PropertyMap, len(header))
	for i, column := range header {
		if i >= len(row) {
			break
		}
		value := row[i]
		if value == "" {
			continue
		}
		if strings.Contains(value, listSeparator) {
			parts := strings.Split(value, listSeparator)
			list := make([]string, 0, len(parts))
			for _, part := range parts {
				if part != "" {
					list = append(list, part)
				}
			}
			fields[column] = list
			continue
		}
		fields[column] = value
	}
	return fields
}
