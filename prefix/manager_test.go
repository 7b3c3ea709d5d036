package prefix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Baseline(t *testing.T) {
	m := NewManager()
	prefixes := m.PrefixMap()

	assert.Equal(t, "https://w3id.org/biolink/vocab/", prefixes["biolink"])
	assert.Equal(t, "http://w3id.org/owlstar/", prefixes["owlstar"])
	assert.Equal(t, "https://monarchinitiative.org/", prefixes["MONARCH"])
	assert.Equal(t, "https://monarchinitiative.org/MONARCH_", prefixes["MONARCH_NODE"])
	assert.Equal(t, DefaultNamespace, prefixes[""])
	assert.NotContains(t, prefixes, "@vocab")
}

func TestNewManager_PrefixMapReturnsCopy(t *testing.T) {
	m := NewManager()

	prefixes := m.PrefixMap()
	prefixes["GO"] = "http://mutated/"

	assert.Equal(t, "http://purl.obolibrary.org/obo/GO_", m.PrefixMap()["GO"])
}

func TestSetPrefixMap(t *testing.T) {
	t.Run("vocab seeds biolink", func(t *testing.T) {
		m := NewManager(WithContextMap(map[string]any{
			"@vocab": "https://example.org/vocab/",
		}))

		assert.Equal(t, "https://example.org/vocab/", m.PrefixMap()["biolink"])
		assert.NotContains(t, m.PrefixMap(), "@vocab")
	})

	t.Run("object values use @id", func(t *testing.T) {
		m := NewManager(WithContextMap(map[string]any{
			"GO": map[string]any{
				"@id":     "http://purl.obolibrary.org/obo/GO_",
				"@prefix": true,
			},
			"category": map[string]any{
				"@type": "@id",
			},
		}))

		assert.Equal(t, "http://purl.obolibrary.org/obo/GO_", m.PrefixMap()["GO"])
		assert.NotContains(t, m.PrefixMap(), "category")
	})

	t.Run("supplied default namespace is kept", func(t *testing.T) {
		m := NewManager(WithContextMap(map[string]any{
			"": "https://example.org/fallback/",
		}))

		assert.Equal(t, "https://example.org/fallback/", m.PrefixMap()[""])
	})
}

func TestExpand(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name  string
		curie string
		want  string
	}{
		{"registered prefix", "GO:0008150", "http://purl.obolibrary.org/obo/GO_0008150"},
		{"biolink category", "biolink:Gene", "https://w3id.org/biolink/vocab/Gene"},
		{"unregistered prefix passes through", "FOO:123", "FOO:123"},
		{"empty prefix uses default namespace", ":orphan", DefaultNamespace + "orphan"},
		{"non-CURIE passes through", "not a curie", "not a curie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Expand(tt.curie))
		})
	}
}

func TestContract(t *testing.T) {
	m := NewManager()

	t.Run("registered namespace", func(t *testing.T) {
		curie, ok := m.Contract("http://purl.obolibrary.org/obo/GO_0008150")
		require.True(t, ok)
		assert.Equal(t, "GO:0008150", curie)
	})

	t.Run("longest namespace wins", func(t *testing.T) {
		// MONARCH and MONARCH_NODE namespaces share a prefix of each other
		curie, ok := m.Contract("https://monarchinitiative.org/MONARCH_000123")
		require.True(t, ok)
		assert.Equal(t, "MONARCH_NODE:000123", curie)

		curie, ok = m.Contract("https://monarchinitiative.org/about")
		require.True(t, ok)
		assert.Equal(t, "MONARCH:about", curie)
	})

	t.Run("unknown namespace", func(t *testing.T) {
		curie, ok := m.Contract("https://unregistered.example.com/thing")
		assert.False(t, ok)
		assert.Empty(t, curie)
	})

	t.Run("shared namespace ties break lexicographically", func(t *testing.T) {
		tied := NewManager(WithPrefixes(map[string]string{
			"zfirst": "https://tied.example.org/ns/",
			"afirst": "https://tied.example.org/ns/",
		}))

		curie, ok := tied.Contract("https://tied.example.org/ns/42")
		require.True(t, ok)
		assert.Equal(t, "afirst:42", curie)
	})
}

func TestRoundTrip(t *testing.T) {
	m := NewManager()

	for _, curie := range []string{"GO:0008150", "MONDO:0005002", "biolink:Gene", "MONARCH_NODE:000123"} {
		expanded := m.Expand(curie)
		contracted, ok := m.Contract(expanded)
		require.True(t, ok, "contract(%q)", expanded)
		assert.Equal(t, curie, contracted)
	}
}

func TestIsCURIE(t *testing.T) {
	m := NewManager()

	tests := []struct {
		input string
		want  bool
	}{
		{"GO:0008150", true},
		{"biolink:Gene", true},
		{":orphan", true},
		{"MONARCH_NODE:000123", true},
		{"no colon at all", false},
		{"http://example.org/thing", false},
		{"a:b:c", false},
		{"PREFIX: spaced", false},
		{"trailing:", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsCURIE(tt.input))
		})
	}
}

func TestIsIRI(t *testing.T) {
	m := NewManager()

	assert.True(t, m.IsIRI("http://purl.obolibrary.org/obo/GO_0008150"))
	assert.True(t, m.IsIRI("https://w3id.org/biolink/vocab/Gene"))
	assert.False(t, m.IsIRI("GO:0008150"))
	assert.False(t, m.IsIRI("ftp://example.org/file"))
}

func TestGetPrefix(t *testing.T) {
	m := NewManager()

	prefix, ok := m.GetPrefix("GO:0008150")
	require.True(t, ok)
	assert.Equal(t, "GO", prefix)

	prefix, ok = m.GetPrefix(":orphan")
	require.True(t, ok)
	assert.Empty(t, prefix, "default-namespace identifiers have an empty prefix")

	_, ok = m.GetPrefix("not a curie")
	assert.False(t, ok)
}

func TestGetReference(t *testing.T) {
	m := NewManager()

	ref, ok := m.GetReference("GO:0008150")
	require.True(t, ok)
	assert.Equal(t, "0008150", ref)

	_, ok = m.GetReference("http://example.org/thing")
	assert.False(t, ok)
}

func TestHasURLFragment(t *testing.T) {
	m := NewManager()

	assert.True(t, m.HasURLFragment("http://www.w3.org/2002/07/owl#sameAs"))
	assert.False(t, m.HasURLFragment("http://purl.obolibrary.org/obo/GO_0008150"))
}

func TestCachedResultsMatchUncached(t *testing.T) {
	m := NewManager()

	first := m.Expand("GO:0008150")
	second := m.Expand("GO:0008150")
	assert.Equal(t, first, second)

	stats := m.results.Stats()
	assert.GreaterOrEqual(t, stats.Hits(), int64(1), "second call must be served from cache")
}

func TestUpdatePrefixMapInvalidatesCache(t *testing.T) {
	m := NewManager(WithPrefixes(map[string]string{
		"EX": "https://example.org/old/",
	}))

	assert.Equal(t, "https://example.org/old/1", m.Expand("EX:1"))

	m.UpdatePrefixMap(map[string]string{"EX": "https://example.org/new/"})

	assert.Equal(t, "https://example.org/new/1", m.Expand("EX:1"))

	curie, ok := m.Contract("https://example.org/new/1")
	require.True(t, ok)
	assert.Equal(t, "EX:1", curie)
}

func TestSetPrefixMapInvalidatesCache(t *testing.T) {
	m := NewManager()
	assert.Equal(t, "http://purl.obolibrary.org/obo/GO_0008150", m.Expand("GO:0008150"))

	m.SetPrefixMap(map[string]any{"GO": "https://replacement.example.org/GO_"})

	assert.Equal(t, "https://replacement.example.org/GO_0008150", m.Expand("GO:0008150"))
}
