package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPuzzles(t *testing.T) {
	src := `[
		{
			"title": "Echo",
			"statement": "Print the input.",
			"validators": [{"input": "1", "output": "1"}],
			"testcases": [{"input": "2", "output": "2"}]
		}
	]`

	puzzles, err := LoadPuzzles(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, puzzles, 1)
	assert.Equal(t, "Echo", puzzles[0].Title)
	assert.Len(t, puzzles[0].Validators, 1)
	assert.Len(t, puzzles[0].Testcases, 1)
}

func TestLoadPuzzles_EmptySet(t *testing.T) {
	_, err := LoadPuzzles(strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrNoPuzzles)
}

func TestLoadPuzzles_MissingValidators(t *testing.T) {
	src := `[{"title": "Broken", "statement": "x", "validators": [], "testcases": []}]`

	_, err := LoadPuzzles(strings.NewReader(src))
	assert.Error(t, err)
}

func TestLoadPuzzles_MalformedJSON(t *testing.T) {
	_, err := LoadPuzzles(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestPuzzle_PublicOmitsValidators(t *testing.T) {
	p := Puzzle{
		Title:      "Echo",
		Statement:  "Print the input.",
		Validators: []Validator{{Input: "secret", Output: "secret"}},
		Testcases:  []Validator{{Input: "2", Output: "2"}},
	}

	data, err := json.Marshal(p.Public())
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.Contains(t, string(data), "testcases")
}

func TestLanguageRegistry_LookupByNameAndAlias(t *testing.T) {
	reg := NewLanguageRegistry([]Language{
		{Name: "python", Version: "3.12.0", Aliases: []string{"py", "python3"}},
		{Name: "go", Version: "1.22.0", Aliases: []string{"golang"}},
	})

	lang, err := reg.Lookup("python")
	require.NoError(t, err)
	assert.Equal(t, "3.12.0", lang.Version)

	lang, err = reg.Lookup("golang")
	require.NoError(t, err)
	assert.Equal(t, "go", lang.Name)

	lang, err = reg.Lookup("PY")
	require.NoError(t, err)
	assert.Equal(t, "python", lang.Name)

	_, err = reg.Lookup("cobol")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestLanguageRegistry_AllPreservesOrder(t *testing.T) {
	langs := []Language{
		{Name: "python", Version: "3.12.0"},
		{Name: "go", Version: "1.22.0"},
	}
	reg := NewLanguageRegistry(langs)

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "python", all[0].Name)
	assert.Equal(t, "go", all[1].Name)
	assert.Equal(t, 2, reg.Len())
}
