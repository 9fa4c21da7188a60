package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"hornetflow/internal/logging"
	"hornetflow/internal/services"
)

// SchemaValidator downloads the JSON Schema named by a manifest's $schema
// field and validates the manifest against it.
type SchemaValidator struct {
	client *http.Client
	logger *slog.Logger
}

// NewSchemaValidator builds a validator with the given download timeout.
func NewSchemaValidator(timeout time.Duration, logger *slog.Logger) *SchemaValidator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SchemaValidator{
		client: &http.Client{Timeout: timeout},
		logger: logging.WithComponent(logger, "schema"),
	}
}

// ValidateFile checks the manifest at path against its declared schema.
// A manifest without a $schema field is a not-found error; schema violations
// are validation errors; download problems are processing errors.
func (v *SchemaValidator) ValidateFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "schema", "read", fmt.Sprintf("manifest %s does not exist", path), err)
		}
		return services.Wrap(services.ErrProcessing, "schema", "read", path, err)
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return services.Wrap(services.ErrValidation, "schema", "parse", fmt.Sprintf("invalid JSON in %s", path), err)
	}

	schemaURL := extractSchemaURL(instance)
	if schemaURL == "" {
		return services.Wrap(services.ErrNotFound, "schema", "extract", fmt.Sprintf("no $schema field found in %s", path), nil)
	}

	schemaDoc, err := v.fetchSchema(ctx, schemaURL)
	if err != nil {
		return err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return services.Wrap(services.ErrValidation, "schema", "compile", schemaURL, err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return services.Wrap(services.ErrValidation, "schema", "compile", schemaURL, err)
	}

	if err := schema.Validate(instance); err != nil {
		return services.Wrap(services.ErrValidation, "schema", "validate", fmt.Sprintf("manifest %s violates %s", path, schemaURL), err)
	}

	v.logger.Debug("manifest passed schema validation",
		logging.String(logging.FieldManifest, path),
		logging.String("schema_url", schemaURL))
	return nil
}

func (v *SchemaValidator) fetchSchema(ctx context.Context, url string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "schema", "fetch", url, err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "schema", "fetch", url, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrProcessing, "schema", "fetch", fmt.Sprintf("%s returned status %d", url, resp.StatusCode), nil)
	}

	doc, err := jsonschema.UnmarshalJSON(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "schema", "fetch", fmt.Sprintf("schema at %s is not valid JSON", url), err)
	}
	return doc, nil
}

func extractSchemaURL(instance any) string {
	obj, ok := instance.(map[string]any)
	if !ok {
		return ""
	}
	url, _ := obj["$schema"].(string)
	return url
}
