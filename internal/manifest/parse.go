package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"hornetflow/internal/services"
)

// Load reads and parses a manifest document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "manifest", "load", fmt.Sprintf("manifest %s does not exist", path), err)
		}
		return nil, services.Wrap(services.ErrProcessing, "manifest", "load", fmt.Sprintf("read %s", path), err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrValidation, "manifest", "parse", fmt.Sprintf("invalid JSON in %s", path), err)
	}
	return &doc, nil
}
