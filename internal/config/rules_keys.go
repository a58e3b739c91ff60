package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var (
	ruleSetType = reflect.TypeOf(domain.RuleSet{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// checkRequiredKeys reports the first rule key the document leaves out.
// Every yaml field of RuleSet is required unless it is a pointer or tagged
// omitempty; a key present with a null value counts as missing. Decoding
// alone cannot tell an absent amount from an explicit zero.
func checkRequiredKeys(data []byte, year int) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &domain.ConfigurationError{Year: year, Key: "document", Reason: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &domain.ConfigurationError{Year: year, Key: "document", Reason: "empty"}
	}
	if key := missingKey(doc.Content[0], ruleSetType, ""); key != "" {
		return &domain.ConfigurationError{Year: year, Key: key, Reason: "missing"}
	}
	return nil
}

func missingKey(node *yaml.Node, t reflect.Type, path string) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	switch {
	case t == decimalType:
		return ""

	case t.Kind() == reflect.Struct:
		if node.Kind != yaml.MappingNode {
			return ""
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, opts, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "" || name == "-" {
				continue
			}
			key := joinKey(path, name)
			child := mappingValue(node, name)
			if child == nil || isNull(child) {
				if f.Type.Kind() == reflect.Pointer || strings.Contains(opts, "omitempty") {
					continue
				}
				return key
			}
			if k := missingKey(child, f.Type, key); k != "" {
				return k
			}
		}

	case t.Kind() == reflect.Slice:
		if node.Kind != yaml.SequenceNode {
			return ""
		}
		for i, item := range node.Content {
			if k := missingKey(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); k != "" {
				return k
			}
		}

	case t.Kind() == reflect.Map:
		if node.Kind != yaml.MappingNode {
			return ""
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := joinKey(path, node.Content[i].Value)
			value := node.Content[i+1]
			if isNull(value) {
				return key
			}
			if k := missingKey(value, t.Elem(), key); k != "" {
				return k
			}
		}
	}
	return ""
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func joinKey(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
