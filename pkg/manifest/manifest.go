// pkg/manifest/manifest.go
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	"sms-dispatcher/internal/common/errors"
	"sms-dispatcher/internal/dispatcher"
)

// Manifest is a batch of send requests loaded from a JSON file. An invalid
// manifest is rejected as a whole before any message is dispatched.
type Manifest struct {
	Version  string  `json:"version"`
	Backend  string  `json:"backend,omitempty"`
	Messages []Entry `json:"messages"`

	// BatchID is assigned at load time, one per manifest.
	BatchID string `json:"-"`
}

type Entry struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
	Kind      string `json:"kind,omitempty"`
}

var manifestSchema = map[string]interface{}{
	"type":                 "object",
	"required":             []interface{}{"version", "messages"},
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"version": map[string]interface{}{"type": "string"},
		"backend": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"sns", "pinpoint"},
		},
		"messages": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":                 "object",
				"required":             []interface{}{"recipient", "body"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"recipient": map[string]interface{}{
						"type":      "string",
						"pattern":   `^\+[0-9]+$`,
						"minLength": 8,
					},
					"body": map[string]interface{}{
						"type":      "string",
						"minLength": 1,
					},
					"kind": map[string]interface{}{
						"type": "string",
						"enum": []interface{}{"TRANSACTIONAL", "PROMOTIONAL"},
					},
				},
			},
		},
	},
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw manifest JSON against the schema and decodes it.
func Parse(data []byte) (*Manifest, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewManifestInvalidError(fmt.Sprintf("not valid JSON: %v", err))
	}

	schemaLoader := gojsonschema.NewGoLoader(manifestSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if !result.Valid() {
		descs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			descs = append(descs, e.String())
		}
		return nil, errors.NewManifestInvalidError(strings.Join(descs, "; "))
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.NewManifestInvalidError(err.Error())
	}
	m.BatchID = uuid.New().String()
	return &m, nil
}

// Requests converts manifest entries into dispatch requests. The schema has
// already constrained kinds, so ParseKind only normalizes here.
func (m *Manifest) Requests() []dispatcher.SendRequest {
	reqs := make([]dispatcher.SendRequest, 0, len(m.Messages))
	for _, entry := range m.Messages {
		kind, _ := dispatcher.ParseKind(entry.Kind)
		reqs = append(reqs, dispatcher.SendRequest{
			Recipient: entry.Recipient,
			Body:      entry.Body,
			Kind:      kind,
		})
	}
	return reqs
}
