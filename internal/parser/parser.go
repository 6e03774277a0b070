// Package parser reads and writes YAML frontmatter while preserving the
// original key order of the document.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/apperr"
)

const delim = "---"

// Document is a Markdown file split into YAML frontmatter and body. The
// frontmatter is kept as a yaml.Node mapping so that key order survives a
// parse/modify/serialize round trip.
type Document struct {
	mapping *yaml.Node // nil when the file has no frontmatter
	Raw     string     // raw YAML text between the delimiters
	Body    string
}

// Parse splits raw Markdown bytes into frontmatter and body. A file without
// a frontmatter block yields a Document with no fields. Malformed YAML
// between the delimiters is an error wrapping apperr.ErrBadFrontmatter;
// callers decide whether that is fatal or merely degrades to "absent".
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return &Document{Body: string(data)}, nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter; the whole file is body.
		return &Document{Body: string(data)}, nil
	}

	raw := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parser: %w: %v", apperr.ErrBadFrontmatter, err)
	}

	doc := &Document{Raw: string(raw), Body: body}
	if len(root.Content) == 0 {
		// Empty frontmatter block.
		return doc, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parser: %w: frontmatter is not a mapping", apperr.ErrBadFrontmatter)
	}
	doc.mapping = mapping
	return doc, nil
}

// HasFrontmatter reports whether the document carries a frontmatter mapping.
func (d *Document) HasFrontmatter() bool {
	return d.mapping != nil && len(d.mapping.Content) > 0
}

// Keys returns the frontmatter keys in document order.
func (d *Document) Keys() []string {
	if d.mapping == nil {
		return nil
	}
	keys := make([]string, 0, len(d.mapping.Content)/2)
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		keys = append(keys, d.mapping.Content[i].Value)
	}
	return keys
}

// Get returns the value for key and whether the key is present. Scalar
// values are returned as-is; compound values (lists, maps) are returned as
// their marshaled YAML so that callers can still compare them as strings.
func (d *Document) Get(key string) (string, bool) {
	node := d.lookup(key)
	if node == nil {
		return "", false
	}
	if node.Kind == yaml.ScalarNode {
		return node.Value, true
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return "", true
	}
	return strings.TrimRight(string(out), "\n"), true
}

// Set assigns a scalar string value to key, updating the existing entry in
// place or appending a new one at the end of the mapping.
func (d *Document) Set(key, value string) {
	if node := d.lookup(key); node != nil {
		node.Kind = yaml.ScalarNode
		node.Tag = "!!str"
		node.Value = value
		node.Content = nil
		node.Style = 0
		return
	}
	if d.mapping == nil {
		d.mapping = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	d.mapping.Content = append(d.mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}

// Marshal serializes the document back to Markdown bytes. The frontmatter
// block is emitted only when at least one field is present.
func (d *Document) Marshal() ([]byte, error) {
	if !d.HasFrontmatter() {
		return []byte(d.Body), nil
	}

	var buf bytes.Buffer
	buf.WriteString(delim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.mapping); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("parser: encode frontmatter: %w", err)
	}
	buf.WriteString(delim + "\n")
	if d.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(d.Body)
	}
	return buf.Bytes(), nil
}

func (d *Document) lookup(key string) *yaml.Node {
	if d.mapping == nil {
		return nil
	}
	for i := 0; i+1 < len(d.mapping.Content); i += 2 {
		if d.mapping.Content[i].Value == key {
			return d.mapping.Content[i+1]
		}
	}
	return nil
}
