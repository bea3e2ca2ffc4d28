// yaml.go - YAML representation of document trees
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package document

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler.  Every node becomes a mapping
// with the keys "kind" and "pos", followed by the fields of the node.
func (doc *Document) MarshalYAML() (interface{}, error) {
	root := mapping()
	addScalar(root, "name", doc.Name)
	addNode(root, "nodes", sequenceNode(doc.Nodes))
	return root, nil
}

// Dump returns the YAML representation of the document.
func (doc *Document) Dump() ([]byte, error) {
	return yaml.Marshal(doc)
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode}
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func addScalar(m *yaml.Node, key, value string) {
	addNode(m, key, scalar(value))
}

func addNode(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, scalar(key), value)
}

func sequenceNode(nodes Nodes) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, n := range nodes {
		seq.Content = append(seq.Content, nodeYAML(n))
	}
	return seq
}

func argsNode(args []Nodes) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, arg := range args {
		seq.Content = append(seq.Content, sequenceNode(arg))
	}
	return seq
}

func nodeYAML(n Node) *yaml.Node {
	m := mapping()
	addScalar(m, "kind", Kind(n))
	addScalar(m, "pos", n.Position().String())
	switch n := n.(type) {
	case *Text:
		addNode(m, "value", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Value})
	case *Raw:
		addNode(m, "value", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Value})
	case *Group:
		addNode(m, "body", sequenceNode(n.Body))
	case *MacroDefinition:
		addScalar(m, "name", n.Name)
		addScalar(m, "arity", strconv.Itoa(n.Arity))
		addNode(m, "body", sequenceNode(n.Body))
	case *Invocation:
		addScalar(m, "name", n.Name)
		addNode(m, "args", argsNode(n.Args))
	case *Variable:
		addScalar(m, "name", n.Name)
	case *EachOpen:
		addNode(m, "items", argsNode(n.Items))
	case *Each:
		addNode(m, "items", argsNode(n.Items))
		addNode(m, "body", sequenceNode(n.Body))
	case *Call:
		addScalar(m, "target", n.Target)
		addNode(m, "args", argsNode(n.Args))
	case *Command:
		addScalar(m, "name", n.Name)
		addNode(m, "args", argsNode(n.Args))
	case *Code:
		addScalar(m, "mode", n.Mode.String())
		addNode(m, "source", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Source})
	}
	return m
}
