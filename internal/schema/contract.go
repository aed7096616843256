// Package schema declares the response shape requested from the model.
//
// The contract is reflected from models.EtymologyData and tightened to the
// strict subset accepted by structured-output APIs: every object closes its
// property set and lists all properties as required. Optional fields stay in
// the contract and are sent back empty.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/raphaelgruber/etymon/internal/models"
)

const (
	// Name identifies the contract to providers that require one.
	Name = "EtymologyData"

	// Description is sent alongside the contract.
	Description = "Etymology timeline and relationship graph for a single word"
)

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
	schemaKey               = "$schema"
	idKey                   = "$id"
)

var (
	once     sync.Once
	contract map[string]any
	raw      []byte
)

// Etymology returns the strict JSON Schema for models.EtymologyData.
// The returned map is shared; callers must not modify it.
func Etymology() map[string]any {
	load()
	return contract
}

// JSON returns the contract as indented JSON.
func JSON() []byte {
	load()
	return raw
}

func load() {
	once.Do(func() {
		m, err := Generate[models.EtymologyData]()
		if err != nil {
			panic(fmt.Sprintf("schema: reflect etymology contract: %v", err))
		}
		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			panic(fmt.Sprintf("schema: marshal etymology contract: %v", err))
		}
		contract = m
		raw = b
	})
}

// Generate reflects T into a strict JSON Schema map.
func Generate[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	s := reflector.Reflect(v)

	m, err := toMap(s)
	if err != nil {
		return nil, err
	}
	delete(m, schemaKey)
	delete(m, idKey)
	makeStrict(m)
	return m, nil
}

func toMap(s *jsonschema.Schema) (map[string]any, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return m, nil
}

// makeStrict closes every object and marks all of its properties required.
func makeStrict(s map[string]any) {
	if t, ok := s[typeKey].(string); ok && t == "object" {
		s[additionalPropertiesKey] = false

		if props, ok := s[propertiesKey].(map[string]any); ok {
			required := make([]string, 0, len(props))
			for name := range props {
				required = append(required, name)
			}
			sort.Strings(required)
			if len(required) > 0 {
				s[requiredKey] = required
			}
		}
	}

	if props, ok := s[propertiesKey].(map[string]any); ok {
		for _, p := range props {
			if pm, ok := p.(map[string]any); ok {
				makeStrict(pm)
			}
		}
	}

	if items, ok := s[itemsKey].(map[string]any); ok {
		makeStrict(items)
	}
}
