package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kgerrors "github.com/c360/kgstat/errors"
)

func TestNodeRecordFromFields(t *testing.T) {
	t.Run("valid node", func(t *testing.T) {
		fields := PropertyMap{
			"id":       "HGNC:11603",
			"name":     "TBX4",
			"category": []any{"biolink:Gene"},
		}

		node, err := NodeRecordFromFields(fields)
		require.NoError(t, err)
		assert.Equal(t, "HGNC:11603", node.ID)
		assert.False(t, node.Properties.Has("id"), "id must be lifted out of properties")
		assert.True(t, node.Properties.Has("name"))
		assert.True(t, node.Properties.Has("category"))
	})

	t.Run("input map untouched", func(t *testing.T) {
		fields := PropertyMap{"id": "HGNC:11603", "name": "TBX4"}

		_, err := NodeRecordFromFields(fields)
		require.NoError(t, err)
		assert.True(t, fields.Has("id"))
		assert.Len(t, fields, 2)
	})

	tests := []struct {
		name   string
		fields PropertyMap
	}{
		{"missing id", PropertyMap{"name": "TBX4"}},
		{"empty id", PropertyMap{"id": ""}},
		{"non-string id", PropertyMap{"id": 11603}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NodeRecordFromFields(tt.fields)
			assert.Nil(t, node)
			require.Error(t, err)
			assert.ErrorIs(t, err, kgerrors.ErrMalformedRecord)
			assert.True(t, kgerrors.IsInvalid(err))
		})
	}
}

func TestEdgeRecordFromFields(t *testing.T) {
	t.Run("valid edge", func(t *testing.T) {
		fields := PropertyMap{
			"id":        "urn:uuid:5b06e86f",
			"subject":   "HGNC:11603",
			"object":    "MONDO:0005002",
			"predicate": "biolink:contributes_to",
		}

		edge, err := EdgeRecordFromFields(fields)
		require.NoError(t, err)
		assert.Equal(t, "HGNC:11603", edge.Subject)
		assert.Equal(t, "MONDO:0005002", edge.Object)
		assert.Equal(t, "urn:uuid:5b06e86f", edge.Key)
		assert.False(t, edge.Properties.Has("subject"))
		assert.False(t, edge.Properties.Has("object"))
		assert.False(t, edge.Properties.Has("id"))
		assert.True(t, edge.Properties.Has("predicate"))
	})

	t.Run("key is optional", func(t *testing.T) {
		fields := PropertyMap{"subject": "A:1", "object": "B:2"}

		edge, err := EdgeRecordFromFields(fields)
		require.NoError(t, err)
		assert.Empty(t, edge.Key)
	})

	tests := []struct {
		name   string
		fields PropertyMap
	}{
		{"missing subject", PropertyMap{"object": "MONDO:0005002"}},
		{"empty subject", PropertyMap{"subject": "", "object": "MONDO:0005002"}},
		{"missing object", PropertyMap{"subject": "HGNC:11603"}},
		{"non-string object", PropertyMap{"subject": "HGNC:11603", "object": 5002}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, err := EdgeRecordFromFields(tt.fields)
			assert.Nil(t, edge)
			require.Error(t, err)
			assert.ErrorIs(t, err, kgerrors.ErrMalformedRecord)
			assert.True(t, kgerrors.IsInvalid(err))
		})
	}
}

func TestRecordFromFields(t *testing.T) {
	t.Run("node dispatch", func(t *testing.T) {
		rec, err := RecordFromFields(EntityNode, PropertyMap{"id": "HGNC:11603"})
		require.NoError(t, err)
		node, ok := rec.(*NodeRecord)
		require.True(t, ok)
		assert.Equal(t, "HGNC:11603", node.ID)
	})

	t.Run("edge dispatch", func(t *testing.T) {
		rec, err := RecordFromFields(EntityEdge, PropertyMap{"subject": "A:1", "object": "B:2"})
		require.NoError(t, err)
		edge, ok := rec.(*EdgeRecord)
		require.True(t, ok)
		assert.Equal(t, "A:1", edge.Subject)
	})

	t.Run("unknown entity type is fatal", func(t *testing.T) {
		rec, err := RecordFromFields(EntityType("vertex"), PropertyMap{"id": "A:1"})
		assert.Nil(t, rec)
		require.Error(t, err)
		assert.ErrorIs(t, err, kgerrors.ErrUnknownEntityType)
		assert.True(t, kgerrors.IsFatal(err))
	})
}
