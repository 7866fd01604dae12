package weather

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed dataset.schema.json
var datasetSchema []byte

// Format identifies the encoding of a raw dataset.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	// ErrInvalidDataset is returned when a dataset is malformed or does not
	// have the country/city/month/{high,low} shape.
	ErrInvalidDataset = errors.New("invalid dataset")

	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

// Decode parses raw into a Dataset, keeping the key order of the source.
// The document is checked against the dataset schema before it is walked.
func Decode(raw []byte, format Format) (Dataset, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(raw)
	case FormatYAML:
		return decodeYAML(raw)
	default:
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func validateShape(doc gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(datasetSchema), doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDataset, strings.Join(msgs, "; "))
}

func decodeJSON(raw []byte) (Dataset, error) {
	if !json.Valid(raw) {
		return Dataset{}, fmt.Errorf("%w: not a single well-formed JSON document", ErrInvalidDataset)
	}
	if err := validateShape(gojsonschema.NewBytesLoader(raw)); err != nil {
		return Dataset{}, err
	}

	var d Dataset
	if err := json.Unmarshal(raw, &d); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return d, nil
}

func decodeYAML(raw []byte) (Dataset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if doc.Kind == 0 {
		return Dataset{}, fmt.Errorf("%w: empty document", ErrInvalidDataset)
	}
	if err := rejectMergeKeys(&doc); err != nil {
		return Dataset{}, err
	}

	var generic any
	if err := doc.Decode(&generic); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if err := validateShape(gojsonschema.NewGoLoader(generic)); err != nil {
		return Dataset{}, err
	}

	var d Dataset
	if err := doc.Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return d, nil
}

// rejectMergeKeys fails on "<<" keys, which would otherwise be read as a
// literal name.
func rejectMergeKeys(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		for i := 0; i < len(n.Content); i += 2 {
			if k := n.Content[i]; k.ShortTag() == "!!merge" {
				return fmt.Errorf("%w: merge keys are not supported (line %d)", ErrInvalidDataset, k.Line)
			}
		}
	}
	// aliases point back into content that is walked anyway
	for _, c := range n.Content {
		if err := rejectMergeKeys(c); err != nil {
			return err
		}
	}
	return nil
}
