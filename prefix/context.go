package prefix

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	kgerrors "github.com/c360/kgstat/errors"
	"github.com/c360/kgstat/pkg/retry"
)

// maxContextBytes caps the size of a fetched context document.
const maxContextBytes = 8 << 20

// DefaultContext returns the compiled-in JSON-LD context used when no
// context file or URL is configured. It carries the common Biolink-adjacent
// prefixes; the "@vocab" entry seeds the biolink prefix in SetPrefixMap.
func DefaultContext() map[string]any {
	return map[string]any{
		"@vocab":    "https://w3id.org/biolink/vocab/",
		"CHEBI":     "http://purl.obolibrary.org/obo/CHEBI_",
		"CL":        "http://purl.obolibrary.org/obo/CL_",
		"DOID":      "http://purl.obolibrary.org/obo/DOID_",
		"ENSEMBL":   "http://identifiers.org/ensembl/",
		"GO":        "http://purl.obolibrary.org/obo/GO_",
		"HGNC":      "http://identifiers.org/hgnc/",
		"HP":        "http://purl.obolibrary.org/obo/HP_",
		"MESH":      "http://id.nlm.nih.gov/mesh/",
		"MONDO":     "http://purl.obolibrary.org/obo/MONDO_",
		"NCBIGene":  "http://identifiers.org/ncbigene/",
		"OMIM":      "http://omim.org/entry/",
		"PMID":      "http://www.ncbi.nlm.nih.gov/pubmed/",
		"RO":        "http://purl.obolibrary.org/obo/RO_",
		"SO":        "http://purl.obolibrary.org/obo/SO_",
		"UBERON":    "http://purl.obolibrary.org/obo/UBERON_",
		"UniProtKB": "http://identifiers.org/uniprot/",
		"dct":       "http://purl.org/dc/terms/",
		"infores":   "https://w3id.org/information-resource-registry/",
		"owl":       "http://www.w3.org/2002/07/owl#",
		"rdf":       "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs":      "http://www.w3.org/2000/01/rdf-schema#",
		"skos":      "http://www.w3.org/2004/02/skos/core#",
		"xsd":       "http://www.w3.org/2001/XMLSchema#",
	}
}

// ParseContext extracts the prefix mapping from a decoded JSON-LD document.
// Documents may nest the mapping under "@context"; bare mappings pass
// through unchanged.
func ParseContext(doc map[string]any) map[string]any {
	if inner, ok := doc["@context"].(map[string]any); ok {
		return inner
	}
	return doc
}

// LoadContextFile reads a JSON-LD context document from disk and returns
// its prefix mapping.
func LoadContextFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kgerrors.WrapInvalid(kgerrors.ErrContextNotFound, "prefix", "LoadContextFile", "open "+path)
		}
		return nil, kgerrors.Wrap(err, "prefix", "LoadContextFile", "read "+path)
	}
	return decodeContext(data, path)
}

// FetchContext retrieves a JSON-LD context document over HTTP. Network and
// server failures are retried with exponential backoff; client errors and
// malformed documents fail immediately.
func FetchContext(ctx context.Context, url string) (map[string]any, error) {
	return retry.DoWithResult(ctx, retry.DefaultConfig(), func() (map[string]any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, retry.NonRetryable(kgerrors.WrapInvalid(err, "prefix", "FetchContext", "build request for "+url))
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, kgerrors.WrapTransient(err, "prefix", "FetchContext", "fetch "+url)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, retry.NonRetryable(kgerrors.WrapInvalid(kgerrors.ErrContextNotFound, "prefix", "FetchContext", "fetch "+url))
		case resp.StatusCode >= http.StatusInternalServerError:
			return nil, kgerrors.WrapTransient(fmt.Errorf("server returned %s", resp.Status), "prefix", "FetchContext", "fetch "+url)
		case resp.StatusCode != http.StatusOK:
			return nil, retry.NonRetryable(kgerrors.WrapInvalid(fmt.Errorf("unexpected status %s", resp.Status), "prefix", "FetchContext", "fetch "+url))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxContextBytes))
		if err != nil {
			return nil, kgerrors.WrapTransient(err, "prefix", "FetchContext", "read response from "+url)
		}

		doc, err := decodeContext(body, url)
		if err != nil {
			return nil, retry.NonRetryable(err)
		}
		return doc, nil
	})
}

func decodeContext(data []byte, source string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, kgerrors.WrapInvalid(fmt.Errorf("%w: %v", kgerrors.ErrInvalidContext, err), "prefix", "decodeContext", "parse "+source)
	}
	return ParseContext(doc), nil
}
