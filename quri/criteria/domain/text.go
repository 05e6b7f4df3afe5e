package criteria

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ToJSONText encodes the plain object form as JSON.
func (n *Node) ToJSONText(opts ...PlainOption) (string, error) {
	b, err := marshalJSON(n.ToPlainObject(opts...))
	if err != nil {
		return "", errors.Wrap(err, "unable to encode criteria as json")
	}
	return string(b), nil
}

// FromJSONText decodes JSON text of the plain object form. Blank text and
// "null" give an empty node. Numbers keep their literal form. Anything after
// the top-level value is an error.
func FromJSONText(text string) (*Node, error) {
	if strings.TrimSpace(text) == "" {
		return NewNode(), nil
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.Wrap(err, "unable to decode criteria json")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unable to decode criteria json: unexpected data after top-level value")
	}
	return FromPlainObject(obj), nil
}

// ToYAMLText encodes the plain object form as YAML.
func (n *Node) ToYAMLText(opts ...PlainOption) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNumbers(n.ToPlainObject(opts...))); err != nil {
		return "", errors.Wrap(err, "unable to encode criteria as yaml")
	}
	if err := enc.Close(); err != nil {
		return "", errors.Wrap(err, "unable to encode criteria as yaml")
	}
	return buf.String(), nil
}

// FromYAMLText decodes YAML text of the plain object form. Blank text gives
// an empty node.
func FromYAMLText(text string) (*Node, error) {
	if strings.TrimSpace(text) == "" {
		return NewNode(), nil
	}
	var obj any
	if err := yaml.Unmarshal([]byte(text), &obj); err != nil {
		return nil, errors.Wrap(err, "unable to decode criteria yaml")
	}
	return FromPlainObject(obj), nil
}

// ParseAny decodes JSON text given as a string or []byte, and anything else
// with FromPlainObject.
func ParseAny(raw any) (*Node, error) {
	switch v := raw.(type) {
	case string:
		return FromJSONText(v)
	case []byte:
		return FromJSONText(string(v))
	default:
		return FromPlainObject(v), nil
	}
}

// yamlNumbers replaces json.Number, which YAML would quote as a string, with
// int64 or float64.
func yamlNumbers(raw any) any {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for k, item := range v {
			v[k] = yamlNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = yamlNumbers(item)
		}
		return v
	default:
		return v
	}
}
