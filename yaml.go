package steleto

import (
	"io"

	"gopkg.in/yaml.v3"
)

// writeYAML emits a sequence of mappings whose keys follow header order.
func writeYAML(w io.Writer, header Header, records []Record) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, rec := range records {
		seq.Content = append(seq.Content, recordNode(rec, header))
	}
	if len(records) == 0 {
		seq.Style = yaml.FlowStyle
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func recordNode(rec Record, header Header) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		v, ok := rec[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
		)
	}
	return m
}
