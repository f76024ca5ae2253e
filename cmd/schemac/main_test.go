package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/schemac/schema"
)

const fighter = "../../testdata/fighter.yaml"

func TestRunRendersLayout(t *testing.T) {
	var buf bytes.Buffer
	err := run(&buf, options{schemaFile: fighter, plan: true, describe: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Fighter",
		"Words: 5",
		"Storage layout",
		"stats",
		"uint256",
		"Reference stores",
		"gear: 4 x uint64 per word",
		"Capability plan",
		"is Mintable, FragmentSingle, Patch",
		"Codec operations",
		"int-twos-complement",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := run(&buf, options{schemaFile: fighter, jsonOut: true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var doc struct {
		Name    string           `json:"name"`
		Entries []map[string]any `json:"entries"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if doc.Name != "Fighter" || len(doc.Entries) != 9 {
		t.Errorf("manifest = %+v", doc)
	}
}

func TestRunValues(t *testing.T) {
	values := `{
		"alive": true, "level": 3, "stats": [1, 2, 3, 4, 5, 6],
		"power": 123456789012345678901234567890, "title": "Rookie",
		"holder": "0x01", "balance": -5, "mentor": 2
	}`
	path := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(path, []byte(values), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := run(&buf, options{schemaFile: fighter, valuesFile: path}); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Encoded words", "[4]", "power = 123456789012345678901234567890", "title = Rookie", "balance = -5"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("name: x\nfields:\n  - {id: 0, key: mapping, type: bool}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "values.json")
	if err := os.WriteFile(missing, []byte(`{"alive": true}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts options
		want string
	}{
		{"invalid schema", options{schemaFile: bad}, "reserved"},
		{"missing file", options{schemaFile: filepath.Join(dir, "nope.yaml")}, "compile"},
		{"missing value", options{schemaFile: fighter, valuesFile: missing}, "field_missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(&bytes.Buffer{}, tt.opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestConvertValue(t *testing.T) {
	flag := schema.FieldDeclaration{Key: "f", Type: schema.TypeBool, Cardinality: 1}
	if v := convertValue("true", flag); v != true {
		t.Errorf("bool = %v", v)
	}

	arr := schema.FieldDeclaration{Key: "xs", Type: schema.TypeUint8, Cardinality: 3}
	v, ok := convertValue("1, 2,3", arr).([]any)
	if !ok || len(v) != 3 || v[1] != "2" {
		t.Errorf("array = %v", v)
	}
}

func TestInteractiveModel(t *testing.T) {
	m := newInteractiveModel(fighter)
	m.Update(m.loadSchema())
	if m.art == nil || len(m.fields) != 9 {
		t.Fatalf("model not loaded: err=%v", m.err)
	}
	if !strings.Contains(m.View(), "word 0 bit 0") {
		t.Errorf("view missing slot position:\n%s", m.View())
	}

	// select "level" and pack a value
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateInputValue {
		t.Fatalf("state = %v, want input", m.state)
	}
	m.input.SetValue("255")
	m.Update(m.encodeField())
	if m.state != stateShowResult || m.err != nil {
		t.Fatalf("state = %v err = %v", m.state, m.err)
	}
	if !strings.Contains(m.result, "word 0: 0x1fe") || !strings.Contains(m.result, "decodes as: 255") {
		t.Errorf("result = %q", m.result)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if m.state != stateShowPlan || !strings.Contains(m.View(), "Capability plan") {
		t.Errorf("plan view not shown: state=%v", m.state)
	}
}
