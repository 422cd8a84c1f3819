package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mahdieldaw/strata/internal/model"
	"github.com/mahdieldaw/strata/internal/validate"
)

// LoadDocument reads and validates an analysis input. Path "-" reads stdin.
func LoadDocument(path string) (*model.Document, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
	}

	return DecodeDocument(data)
}

// DecodeDocument unmarshals a document and enforces the input contract
func DecodeDocument(data []byte) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if err := validate.NewValidator().ValidateDocument(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
