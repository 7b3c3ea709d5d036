package summary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStringSet_Basics(t *testing.T) {
	s := NewStringSet("biolink:Gene")
	s.Add("biolink:Disease")
	s.Add("biolink:Gene")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("biolink:Gene"))
	assert.False(t, s.Has("biolink:Protein"))
}

func TestStringSet_Sorted(t *testing.T) {
	s := NewStringSet("zebra", "alpha", "monkey")

	assert.Equal(t, []string{"alpha", "monkey", "zebra"}, s.Sorted())
}

func TestStringSet_MarshalJSON(t *testing.T) {
	s := NewStringSet("b", "a", "c")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, string(data))
}

func TestStringSet_MarshalYAML(t *testing.T) {
	s := NewStringSet("b", "a")

	data, err := yaml.Marshal(s)
	require.NoError(t, err)

	var decoded []string
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"a", "b"}, decoded)
}
