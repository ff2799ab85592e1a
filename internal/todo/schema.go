package todo

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todocard-go/internal/utils"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

const (
	schemaBaseURL     = "https://todocard.local/schema/"
	detailSchemaName  = "detail.schema.json"
	summarySchemaName = "summary.schema.json"
)

type compiledSchemas struct {
	detail  *jsonschema.Schema
	summary *jsonschema.Schema
}

var (
	schemasOnce sync.Once
	schemas     compiledSchemas
	schemasErr  error
)

func loadSchemas() (compiledSchemas, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		for _, name := range []string{detailSchemaName, summarySchemaName} {
			data, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				schemasErr = fmt.Errorf("read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(schemaBaseURL+name, bytes.NewReader(data)); err != nil {
				schemasErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}
		if schemas.detail, schemasErr = compiler.Compile(schemaBaseURL + detailSchemaName); schemasErr != nil {
			schemasErr = fmt.Errorf("compile detail schema: %w", schemasErr)
			return
		}
		if schemas.summary, schemasErr = compiler.Compile(schemaBaseURL + summarySchemaName); schemasErr != nil {
			schemasErr = fmt.Errorf("compile summary schema: %w", schemasErr)
		}
	})
	return schemas, schemasErr
}

// DecodeDetail validates a detail payload and decodes it.
func DecodeDetail(data []byte) (Detail, error) {
	s, err := loadSchemas()
	if err != nil {
		return Detail{}, err
	}
	if err := validatePayload(s.detail, data); err != nil {
		return Detail{}, err
	}
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return Detail{}, &ValidationError{Err: fmt.Errorf("decode detail: %w", err)}
	}
	return d, nil
}

// DecodeSummaries validates a list payload and decodes it.
func DecodeSummaries(data []byte) ([]Summary, error) {
	s, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	if err := validatePayload(s.summary, data); err != nil {
		return nil, err
	}
	var items []Summary
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decode summaries: %w", err)}
	}
	if items == nil {
		items = []Summary{}
	}
	return items, nil
}

func validatePayload(schema *jsonschema.Schema, data []byte) error {
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := schema.Validate(obj); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError reduces a jsonschema error tree to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Err: err}
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &ValidationError{
		Path: utils.JSONPointerToPath(leaf.InstanceLocation),
		Err:  errors.New(leaf.Message),
	}
}
