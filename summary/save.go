package summary

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	kgerrors "github.com/c360/kgstat/errors"
)

// WriteYAML renders the report as block-style YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return kgerrors.Wrap(err, componentName, "WriteYAML", "encode report")
	}
	return enc.Close()
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(r); err != nil {
		return kgerrors.Wrap(err, componentName, "WriteJSON", "encode report")
	}
	return nil
}

// Save writes the report in the named format. The empty string and "yaml"
// select YAML; "json" selects JSON.
func (r *Report) Save(w io.Writer, format string) error {
	switch format {
	case "", "yaml":
		return r.WriteYAML(w)
	case "json":
		return r.WriteJSON(w)
	default:
		return kgerrors.WrapInvalid(fmt.Errorf("%w: unsupported report format %q", kgerrors.ErrInvalidConfig, format), componentName, "Save", "select format")
	}
}
