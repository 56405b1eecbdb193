// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"

	"github.com/creachadair/jdoc/doc"
	"gopkg.in/yaml.v3"
)

// A renderFunc renders a value as text.
type renderFunc func(doc.Value) ([]byte, error)

var renderers = map[string]renderFunc{
	"json":  func(v doc.Value) ([]byte, error) { return v.AppendJSON(nil), nil },
	"debug": func(v doc.Value) ([]byte, error) { return []byte(v.String()), nil },
	"yaml":  renderYAML,
}

func renderYAML(v doc.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// yamlNode converts v to a YAML node tree, preserving the order of object
// members.
func yamlNode(v doc.Value) *yaml.Node {
	switch v.Kind() {
	case doc.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case doc.Boolean:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Text().String()}
	case doc.Number:
		tag := "!!float"
		if bytes.IndexAny(v.Text().AppendTo(nil), ".eE") < 0 {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.Text().String()}
	case doc.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str().String()}
	case doc.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, val := range v.Map().All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key.String()},
				yamlNode(val),
			)
		}
		return n
	case doc.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for val := range v.Map().Values() {
			n.Content = append(n.Content, yamlNode(val))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
