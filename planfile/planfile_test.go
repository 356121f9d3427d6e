package planfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personPlan = `
mappings:
  - name: person
    source: Person
    destination: PersonDTO
    writeNullIfSourceIsNull: true
    reassign:
      - {from: Name, to: FullName}
    replace:
      - {from: Born, to: Birthday, converter: date}
    omit: [Internal]
    omitInSource: [Password]
    collectRemainder: AdditionalData
  - name: person-view
    source: PersonDTO
    destination: PersonView
    omitOthers: true
    reassign:
      - {from: FullName, to: Name}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(personPlan))
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, f.Version)
	require.Len(t, f.Mappings, 2)

	m := f.Mappings[0]
	assert.Equal(t, "person", m.Name)
	require.NotNil(t, m.WriteNullIfSourceIsNull)
	assert.True(t, *m.WriteNullIfSourceIsNull)
	assert.Equal(t, []FieldPair{{From: "Name", To: "FullName"}}, m.Reassign)
	assert.Equal(t, []Replacement{{From: "Born", To: "Birthday", Converter: "date"}}, m.Replace)
	assert.Equal(t, []string{"Internal"}, m.Omit)
	assert.Equal(t, []string{"Password"}, m.OmitInSource)
	assert.Equal(t, "AdditionalData", m.CollectRemainder)

	assert.Nil(t, f.Mappings[1].WriteNullIfSourceIsNull)
	assert.True(t, f.Mappings[1].OmitOthers)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty document", yaml: ""},
		{name: "malformed", yaml: "mappings: [\n"},
		{name: "unknown key", yaml: "mappings:\n  - name: a\n    source: A\n    destination: B\n    colour: red\n"},
		{name: "no mappings", yaml: "version: \"1\"\n"},
		{name: "bad version", yaml: "version: \"2\"\nmappings:\n  - {name: a, source: A, destination: B}\n"},
		{name: "missing source", yaml: "mappings:\n  - {name: a, destination: B}\n"},
		{name: "replace without converter", yaml: "mappings:\n  - name: a\n    source: A\n    destination: B\n    replace: [{from: X, to: Y}]\n"},
		{name: "blank omit entry", yaml: "mappings:\n  - name: a\n    source: A\n    destination: B\n    omit: [\"\"]\n"},
		{name: "duplicate names", yaml: "mappings:\n  - {name: a, source: A, destination: B}\n  - {name: a, source: C, destination: D}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
			assert.Nil(t, f)
		})
	}
}

func TestValidateReportsFieldPath(t *testing.T) {
	_, err := Parse([]byte("mappings:\n  - {name: a, source: A}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mappings[0].Destination")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(personPlan), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Mappings, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	f, err := Parse([]byte(personPlan))
	require.NoError(t, err)

	m, ok := f.Lookup("person-view")
	require.True(t, ok)
	assert.Equal(t, "PersonView", m.Destination)

	_, ok = f.Lookup("nope")
	assert.False(t, ok)
}
