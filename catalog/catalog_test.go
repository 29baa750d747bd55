package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ts []Tool) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 11)
	assert.Equal(t, "ai-assistant", all[0].ID)

	// Every next tool points at a real entry.
	for _, tool := range all {
		for _, next := range tool.NextTools {
			_, ok := Get(next)
			assert.True(t, ok, "%s -> %s", tool.ID, next)
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].ID = "mutated"
	assert.Equal(t, "ai-assistant", All()[0].ID)
}

func TestGet(t *testing.T) {
	tool, ok := Get(Base64Tool)
	require.True(t, ok)
	assert.Equal(t, CategoryDev, tool.Category)
	assert.Equal(t, "Base64 Tool", tool.LocalName("en"))
	assert.Equal(t, "Base64 인코더/디코더", tool.LocalName("ko"))
	assert.Equal(t, "Base64 Tool", tool.LocalName("fr"))

	_, ok = Get("nope")
	assert.False(t, ok)
}

func TestAIToolsDisabled(t *testing.T) {
	for _, id := range []string{"ai-assistant", "ai-image-generator"} {
		tool, ok := Get(id)
		require.True(t, ok)
		assert.True(t, tool.Disabled, id)
	}
	tool, _ := Get(WordCounter)
	assert.False(t, tool.Disabled)
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		category string
		query    string
		lang     string
		want     []string
	}{
		{"category only", CategoryDev, "", "en", []string{JSONFormatter, SQLFormatter, Base64Tool}},
		{"query ignores case", "", "json", "en", []string{JSONFormatter}},
		{"query in description", CategoryUtility, "secure", "en", []string{PasswordGenerator}},
		{"korean", "", "포맷터", "ko", []string{JSONFormatter, SQLFormatter}},
		{"no match", CategoryImage, "json", "en", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tt.category, tt.query, tt.lang)))
		})
	}
}

func TestResolve(t *testing.T) {
	got := Resolve([]string{SQLFormatter, "retired-tool", WordCounter})
	assert.Equal(t, []string{SQLFormatter, WordCounter}, ids(got))
	assert.Empty(t, Resolve(nil))
}

func TestParseRejectsBadCatalog(t *testing.T) {
	tests := map[string]string{
		"missing id":   "tools:\n  - category: text\n    name: {en: X}\n",
		"duplicate":    "tools:\n  - {id: a, category: text, name: {en: A}}\n  - {id: a, category: text, name: {en: B}}\n",
		"bad category": "tools:\n  - {id: a, category: audio, name: {en: A}}\n",
		"no name":      "tools:\n  - {id: a, category: text}\n",
		"not yaml":     "tools: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}
