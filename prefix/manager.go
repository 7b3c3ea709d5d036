// Package prefix converts between compact identifiers (CURIEs) and their
// expanded URI forms against a configurable prefix table.
package prefix

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/c360/kgstat/pkg/cache"
)

// DefaultNamespace is the fallback namespace bound to the empty prefix.
// Identifiers with no recognizable prefix expand into this namespace.
const DefaultNamespace = "https://www.example.org/UNKNOWN/"

// conversionCacheSize bounds the memoized conversion results.
const conversionCacheSize = 1024

// curiePattern matches prefix:reference identifiers. The prefix admits no
// spaces, angle brackets, parentheses or colons; the reference admits no
// slashes, spaces or further colons.
var curiePattern = regexp.MustCompile(`^[^ <()>:]*:[^/ :]+$`)

// result is the memoized outcome of one conversion operation.
type result struct {
	value string
	ok    bool
}

// Manager owns a prefix table and converts identifiers against it.
// Conversion results are memoized in a bounded LRU keyed by operation and
// input, purged whenever the table changes. A Manager is intended for
// single-goroutine use; the underlying cache is itself thread-safe.
type Manager struct {
	prefixMap  map[string]string
	reverseMap map[string]string
	results    cache.Cache[result]
	logger     *slog.Logger
}

// Option configures a Manager during construction.
type Option func(*managerOptions)

type managerOptions struct {
	context  map[string]any
	prefixes map[string]string
	logger   *slog.Logger
}

// WithContextMap supplies the JSON-LD context the prefix table is built
// from, replacing the compiled-in default context.
func WithContextMap(context map[string]any) Option {
	return func(o *managerOptions) {
		o.context = context
	}
}

// WithPrefixes merges extra prefix to namespace mappings into the table
// after the context is applied.
func WithPrefixes(prefixes map[string]string) Option {
	return func(o *managerOptions) {
		o.prefixes = prefixes
	}
}

// WithLogger sets the logger for table-update diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *managerOptions) {
		o.logger = logger
	}
}

// NewManager builds a Manager from a JSON-LD context (the compiled-in
// default unless overridden). The table always ends up with the baseline
// biolink, owlstar and MONARCH mappings and a default-namespace fallback
// for the empty prefix.
func NewManager(opts ...Option) *Manager {
	options := managerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&options)
	}

	results, err := cache.NewLRU[result](conversionCacheSize)
	if err != nil {
		// size constant is positive, so construction cannot fail; run
		// uncached rather than propagate an impossible error
		results = cache.NewNoop[result]()
	}

	m := &Manager{
		results: results,
		logger:  options.logger,
	}

	context := options.context
	if context == nil {
		context = DefaultContext()
	}
	m.SetPrefixMap(context)

	if len(options.prefixes) > 0 {
		m.UpdatePrefixMap(options.prefixes)
	}

	return m
}

// SetPrefixMap rebuilds the prefix table from a JSON-LD context mapping.
// Values may be plain namespace strings or objects carrying "@id". A
// "@vocab" entry seeds the biolink prefix and is then dropped. Baseline
// mappings are filled in when absent, and all memoized conversions are
// invalidated.
func (m *Manager) SetPrefixMap(context map[string]any) {
	prefixes := make(map[string]string, len(context)+4)
	for k, v := range context {
		switch val := v.(type) {
		case string:
			prefixes[k] = val
		case map[string]any:
			if id, ok := val["@id"].(string); ok {
				prefixes[k] = id
			}
		}
	}

	if _, ok := prefixes["biolink"]; !ok {
		if vocab, ok := prefixes["@vocab"]; ok {
			prefixes["biolink"] = vocab
		} else {
			prefixes["biolink"] = "https://w3id.org/biolink/vocab/"
		}
	}
	if _, ok := prefixes["owlstar"]; !ok {
		prefixes["owlstar"] = "http://w3id.org/owlstar/"
	}
	delete(prefixes, "@vocab")
	if _, ok := prefixes["MONARCH"]; !ok {
		prefixes["MONARCH"] = "https://monarchinitiative.org/"
		prefixes["MONARCH_NODE"] = "https://monarchinitiative.org/MONARCH_"
	}
	if supplied, ok := prefixes[""]; ok {
		m.logger.Debug("keeping supplied default namespace", "namespace", supplied)
	} else {
		prefixes[""] = DefaultNamespace
	}

	m.prefixMap = prefixes
	m.rebuildReverse()
	m.purge()
}

// UpdatePrefixMap merges new prefix to namespace mappings into the table
// and invalidates all memoized conversions.
func (m *Manager) UpdatePrefixMap(prefixes map[string]string) {
	for k, v := range prefixes {
		m.prefixMap[k] = v
	}
	m.rebuildReverse()
	m.purge()
}

// PrefixMap returns a copy of the active prefix table.
func (m *Manager) PrefixMap() map[string]string {
	out := make(map[string]string, len(m.prefixMap))
	for k, v := range m.prefixMap {
		out[k] = v
	}
	return out
}

// rebuildReverse derives the namespace to prefix table used by Contract.
// Prefixes sharing one namespace collapse to the lexicographically
// smallest prefix so contraction stays deterministic.
func (m *Manager) rebuildReverse() {
	reverse := make(map[string]string, len(m.prefixMap))
	for prefix, namespace := range m.prefixMap {
		if namespace == "" {
			continue
		}
		if existing, ok := reverse[namespace]; ok && existing <= prefix {
			continue
		}
		reverse[namespace] = prefix
	}
	m.reverseMap = reverse
}

func (m *Manager) purge() {
	if err := m.results.Clear(); err != nil {
		m.logger.Warn("failed to purge conversion cache", "error", err)
	}
}

func (m *Manager) memoize(key string, r result) result {
	if _, err := m.results.Set(key, r); err != nil {
		m.logger.Warn("conversion cache rejected entry", "key", key, "error", err)
	}
	return r
}

// Expand resolves a CURIE to a URI using the prefix table. Inputs that are
// not CURIEs, or whose prefix is unregistered, come back unchanged.
func (m *Manager) Expand(curie string) string {
	key := "expand:" + curie
	if cached, ok := m.results.Get(key); ok {
		return cached.value
	}

	expanded := curie
	if m.IsCURIE(curie) {
		idx := strings.Index(curie, ":")
		if namespace, ok := m.prefixMap[curie[:idx]]; ok {
			expanded = namespace + curie[idx+1:]
		}
	}
	return m.memoize(key, result{value: expanded, ok: true}).value
}

// Contract resolves a URI to a CURIE by longest-namespace match over the
// reverse table. The second return is false when no registered namespace
// prefixes the URI.
func (m *Manager) Contract(uri string) (string, bool) {
	key := "contract:" + uri
	if cached, ok := m.results.Get(key); ok {
		return cached.value, cached.ok
	}

	var best string
	for namespace := range m.reverseMap {
		if strings.HasPrefix(uri, namespace) && len(namespace) > len(best) {
			best = namespace
		}
	}
	if best == "" {
		r := m.memoize(key, result{})
		return r.value, r.ok
	}

	curie := m.reverseMap[best] + ":" + uri[len(best):]
	r := m.memoize(key, result{value: curie, ok: true})
	return r.value, r.ok
}

// IsCURIE reports whether s is syntactically a CURIE.
func (m *Manager) IsCURIE(s string) bool {
	key := "curie:" + s
	if cached, ok := m.results.Get(key); ok {
		return cached.ok
	}
	return m.memoize(key, result{ok: curiePattern.MatchString(s)}).ok
}

// IsIRI reports whether s is an expanded identifier with an http or https
// scheme.
func (m *Manager) IsIRI(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// GetPrefix returns the prefix portion of a CURIE, which may be empty for
// default-namespace identifiers. The second return is false when the input
// is not a CURIE.
func (m *Manager) GetPrefix(curie string) (string, bool) {
	key := "prefix:" + curie
	if cached, ok := m.results.Get(key); ok {
		return cached.value, cached.ok
	}

	r := result{}
	if m.IsCURIE(curie) {
		r = result{value: curie[:strings.Index(curie, ":")], ok: true}
	}
	r = m.memoize(key, r)
	return r.value, r.ok
}

// GetReference returns the local identifier portion of a CURIE. The second
// return is false when the input is not a CURIE.
func (m *Manager) GetReference(curie string) (string, bool) {
	key := "reference:" + curie
	if cached, ok := m.results.Get(key); ok {
		return cached.value, cached.ok
	}

	r := result{}
	if m.IsCURIE(curie) {
		r = result{value: curie[strings.Index(curie, ":")+1:], ok: true}
	}
	r = m.memoize(key, r)
	return r.value, r.ok
}

// HasURLFragment reports whether the identifier carries a URL fragment.
func (m *Manager) HasURLFragment(s string) bool {
	return strings.Contains(s, "#")
}
