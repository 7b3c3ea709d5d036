package stream

import (
	"encoding/json"
	"fmt"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/graph"
)

// decodeRecord turns one message payload into a graph record of the given
// kind. Payloads carry the same objects the file sources read: nodes have
// "id" plus properties, edges have "subject" and "object" plus an optional
// "id" and properties.
func decodeRecord(kind graph.EntityType, data []byte) (graph.Record, error) {
	var fields graph.PropertyMap
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, kgerrors.WrapInvalid(
			fmt.Errorf("%w: %v", kgerrors.ErrParsingFailed, err),
			"stream", "decodeRecord", "parse payload",
		)
	}
	return graph.RecordFromFields(kind, fields)
}
