package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"hornetflow/internal/services"
)

//go:embed metadata_schema.json
var metadataSchemaJSON []byte

// Release records the provenance of a repository: where it came from, how
// to fetch it, a human-readable label, and the commit marker to check out.
// It is loaded once per run and read-only afterwards.
type Release struct {
	Origin string `json:"origin"`
	URL    string `json:"url"`
	Label  string `json:"label"`
	Marker string `json:"marker"`
}

type document struct {
	Release *Release `json:"release"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(metadataSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse embedded metadata schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("metadata_schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("register embedded metadata schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("metadata_schema.json")
	})
	return schema, schemaErr
}

// LoadRelease reads a metadata document from disk, validates it against the
// embedded schema, and returns its release section. Top-level keys other
// than "release" are permitted and ignored.
func LoadRelease(path string) (*Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "metadata", "load", fmt.Sprintf("metadata file %s does not exist", path), err)
		}
		return nil, services.Wrap(services.ErrProcessing, "metadata", "load", path, err)
	}
	return parseRelease(data, path)
}

func parseRelease(data []byte, origin string) (*Release, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "metadata", "schema", "", err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "metadata", "parse", fmt.Sprintf("invalid JSON in %s", origin), err)
	}
	if err := sch.Validate(instance); err != nil {
		return nil, services.Wrap(services.ErrValidation, "metadata", "validate", fmt.Sprintf("invalid metadata file %s", origin), err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "metadata", "parse", fmt.Sprintf("invalid JSON in %s", origin), err)
	}
	return doc.Release, nil
}
