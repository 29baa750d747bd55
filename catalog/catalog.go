// Package catalog lists the tools the hub offers.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tool ids referenced from code.
const (
	WordCounter       = "word-counter"
	TextConverter     = "text-converter"
	JSONFormatter     = "json-formatter"
	SQLFormatter      = "sql-formatter"
	Base64Tool        = "base64-tool"
	QRGenerator       = "qr-generator"
	PasswordGenerator = "password-generator"
	ImageConverter    = "image-converter"
	ImageCompressor   = "image-compressor"
)

// Categories.
const (
	CategoryImage   = "image"
	CategoryText    = "text"
	CategoryDev     = "dev"
	CategoryUtility = "utility"
)

// DefaultLang is used when a requested language has no translation.
const DefaultLang = "en"

// Tool is one catalog entry. Name and Description are keyed by language.
type Tool struct {
	ID          string            `yaml:"id" json:"id"`
	Category    string            `yaml:"category" json:"category"`
	Name        map[string]string `yaml:"name" json:"name"`
	Description map[string]string `yaml:"description" json:"description"`
	NextTools   []string          `yaml:"next_tools" json:"nextTools"`
	Disabled    bool              `yaml:"disabled" json:"disabled,omitempty"`
}

// LocalName returns the tool name in lang, falling back to DefaultLang.
func (t Tool) LocalName(lang string) string { return localized(t.Name, lang) }

// LocalDescription returns the description in lang, falling back to DefaultLang.
func (t Tool) LocalDescription(lang string) string { return localized(t.Description, lang) }

func localized(m map[string]string, lang string) string {
	if s, ok := m[lang]; ok {
		return s
	}
	return m[DefaultLang]
}

//go:embed catalog.yaml
var catalogYAML []byte

var (
	tools []Tool
	byID  map[string]Tool
)

func init() {
	var err error
	tools, err = parse(catalogYAML)
	if err != nil {
		panic(err)
	}
	byID = make(map[string]Tool, len(tools))
	for _, t := range tools {
		byID[t.ID] = t
	}
}

func parse(data []byte) ([]Tool, error) {
	var doc struct {
		Tools []Tool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	seen := make(map[string]bool, len(doc.Tools))
	for i, t := range doc.Tools {
		if t.ID == "" {
			return nil, fmt.Errorf("catalog: tool %d: missing id", i)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("catalog: duplicate tool id %q", t.ID)
		}
		seen[t.ID] = true
		switch t.Category {
		case CategoryImage, CategoryText, CategoryDev, CategoryUtility:
		default:
			return nil, fmt.Errorf("catalog: tool %q: unknown category %q", t.ID, t.Category)
		}
		if t.Name[DefaultLang] == "" {
			return nil, fmt.Errorf("catalog: tool %q: missing %s name", t.ID, DefaultLang)
		}
	}
	return doc.Tools, nil
}

// All returns every tool in display order.
func All() []Tool {
	return append([]Tool(nil), tools...)
}

// Get looks up a tool by id.
func Get(id string) (Tool, bool) {
	t, ok := byID[id]
	return t, ok
}

// Filter returns the tools in category (any if empty) whose name or
// description in lang contains query, ignoring case.
func Filter(category, query, lang string) []Tool {
	q := strings.ToLower(query)
	out := []Tool{}
	for _, t := range tools {
		if category != "" && t.Category != category {
			continue
		}
		name := strings.ToLower(t.LocalName(lang))
		desc := strings.ToLower(t.LocalDescription(lang))
		if strings.Contains(name, q) || strings.Contains(desc, q) {
			out = append(out, t)
		}
	}
	return out
}

// Resolve maps ids to tools, keeping their order and dropping unknown ids.
func Resolve(ids []string) []Tool {
	out := make([]Tool, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
