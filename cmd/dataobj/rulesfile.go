package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/reoring/dataobj/rules"
)

// rulesFile is the document read by the validate command:
//
//	rules:
//	  name: required|string|max:20
//	  tags: [array, "size:2"]
//	messages:
//	  name.required: Please tell us your name.
//	labels:
//	  email: E-Mail Address
//
// Rules keep their document order.
type rulesFile struct {
	Rules    rules.Ruleset
	Messages map[string]string
	Labels   map[string]string
}

func loadRulesFile(path string) (*rulesFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	rf, err := parseRulesFile(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rf, nil
}

func parseRulesFile(b []byte) (*rulesFile, error) {
	var doc struct {
		Rules    yaml.Node         `yaml:"rules"`
		Messages map[string]string `yaml:"messages"`
		Labels   map[string]string `yaml:"labels"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc.Rules.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rules: expected a mapping of keys to rules")
	}
	rf := &rulesFile{Messages: doc.Messages, Labels: doc.Labels}
	content := doc.Rules.Content
	for i := 0; i+1 < len(content); i += 2 {
		key, val := content[i].Value, content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			rf.Rules.Add(key, val.Value)
		case yaml.SequenceNode:
			var specs []string
			if err := val.Decode(&specs); err != nil {
				return nil, fmt.Errorf("rules.%s: %w", key, err)
			}
			rf.Rules.Add(key, specs...)
		default:
			return nil, fmt.Errorf("rules.%s: expected a string or a list (line %d)", key, val.Line)
		}
	}
	return rf, nil
}
