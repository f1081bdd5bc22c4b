// Package frontmatter extracts structured data from input documents.
//
// Documents opening with a "---" line carry YAML frontmatter and documents
// opening with "+++" carry TOML frontmatter; the block ends at the next line
// holding the same delimiter. Files without frontmatter are decoded whole
// when their extension is .json, .yaml, .yml or .toml. A .yaml or .yml file
// whose "---" line is never closed is a plain YAML document with a start
// marker and is decoded whole.
package frontmatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnterminated reports a frontmatter block with no closing delimiter.
var ErrUnterminated = errors.New("frontmatter: unterminated block")

// Document is the split form of an input file.
type Document struct {
	Data map[string]any
	Body string
}

type delimiter struct {
	fence  string
	decode func([]byte, any) error
}

var delimiters = []delimiter{
	{fence: "---", decode: yaml.Unmarshal},
	{fence: "+++", decode: toml.Unmarshal},
}

// Parse splits content. name is only used to pick a whole-file decoder.
func Parse(name string, content []byte) (Document, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")
	for _, d := range delimiters {
		if !opensWith(text, d.fence) {
			continue
		}
		raw, body, err := split(text, d.fence)
		if errors.Is(err, ErrUnterminated) && d.fence == "---" && isYAMLFile(name) {
			break
		}
		if err != nil {
			return Document{}, err
		}
		data := map[string]any{}
		if err := d.decode([]byte(raw), &data); err != nil {
			return Document{}, fmt.Errorf("frontmatter: decode %s block: %w", d.fence, err)
		}
		return Document{Data: data, Body: body}, nil
	}

	data, err := decodeWhole(name, []byte(text))
	if err != nil {
		return Document{}, err
	}
	if data == nil {
		return Document{Data: map[string]any{}, Body: text}, nil
	}
	return Document{Data: data}, nil
}

func isYAMLFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func opensWith(text, fence string) bool {
	first, _, _ := strings.Cut(text, "\n")
	return strings.TrimRight(first, " \t\r") == fence
}

func split(text, fence string) (string, string, error) {
	_, rest, _ := strings.Cut(text, "\n")
	var block strings.Builder
	for {
		line, tail, found := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \t\r") == fence {
			return block.String(), tail, nil
		}
		if !found {
			return "", "", ErrUnterminated
		}
		block.WriteString(line)
		block.WriteByte('\n')
		rest = tail
	}
}

func decodeWhole(name string, content []byte) (map[string]any, error) {
	var (
		data map[string]any
		err  error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		err = json.NewDecoder(bytes.NewReader(content)).Decode(&data)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &data)
	case ".toml":
		data = map[string]any{}
		err = toml.Unmarshal(content, &data)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("frontmatter: decode %s: %w", name, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}
