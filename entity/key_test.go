package entity_test

import (
	"errors"
	"testing"

	"github.com/jacentio/espalier/entity"
)

func compileRegion(t *testing.T) *entity.Definition {
	t.Helper()
	def, err := entity.Compile(entity.NewRegistry(), "region", nil, []entity.Attribute{
		{Name: "continent", KeyComponent: true},
		{Name: "country", KeyComponent: true},
		{Name: "population"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return def
}

// --- Key Derivation Tests ---

func TestDeriveKey_Deterministic(t *testing.T) {
	def := compileRegion(t)
	props := entity.Properties{"continent": "eu", "country": "de"}

	first, err := def.DeriveKey(nil, props)
	if err != nil {
		t.Fatal(err)
	}
	second, err := def.DeriveKey(nil, props)
	if err != nil {
		t.Fatal(err)
	}

	if !first.Equal(second) {
		t.Errorf("expected identical keys, got %v and %v", first, second)
	}
	if first.Name != "eu-de" {
		t.Errorf("expected name 'eu-de', got %q", first.Name)
	}
	if first.Kind != "region" {
		t.Errorf("expected kind 'region', got %q", first.Kind)
	}
}

func TestDeriveKey_DistinctValues(t *testing.T) {
	def := compileRegion(t)

	de, err := def.DeriveKey(nil, entity.Properties{"continent": "eu", "country": "de"})
	if err != nil {
		t.Fatal(err)
	}
	fr, err := def.DeriveKey(nil, entity.Properties{"continent": "eu", "country": "fr"})
	if err != nil {
		t.Fatal(err)
	}

	if de.Equal(fr) {
		t.Errorf("expected distinct keys, both were %v", de)
	}
}

func TestDeriveKey_Incomplete(t *testing.T) {
	def := compileRegion(t)

	tests := []struct {
		name  string
		props entity.Properties
	}{
		{"missing attribute", entity.Properties{"continent": "eu"}},
		{"nil attribute", entity.Properties{"continent": "eu", "country": nil}},
		{"empty instance", entity.Properties{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := def.DeriveKey(nil, tt.props)
			if !errors.Is(err, entity.ErrIncompleteKey) {
				t.Errorf("expected ErrIncompleteKey, got %v", err)
			}
		})
	}
}

func TestDeriveKey_NoComponents(t *testing.T) {
	def, err := entity.Compile(entity.NewRegistry(), "note", nil, []entity.Attribute{
		{Name: "body"},
	})
	if err != nil {
		t.Fatal(err)
	}

	key, err := def.DeriveKey(nil, entity.Properties{"body": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if key != nil {
		t.Errorf("expected absent key for schema without components, got %v", key)
	}
}

func TestDeriveKey_ParentScoped(t *testing.T) {
	def := compileRegion(t)
	parent := entity.NewKey("planet", "earth", nil)

	key, err := def.DeriveKey(parent, entity.Properties{"continent": "eu", "country": "de"})
	if err != nil {
		t.Fatal(err)
	}
	if key.Path() != "planet:earth/region:eu-de" {
		t.Errorf("unexpected path %q", key.Path())
	}
	if !key.Parent.Equal(parent) {
		t.Errorf("expected parent %v, got %v", parent, key.Parent)
	}
}

func TestDeriveKey_NumericComponents(t *testing.T) {
	def, err := entity.Compile(entity.NewRegistry(), "issue", nil, []entity.Attribute{
		{Name: "volume", KeyComponent: true},
		{Name: "number", KeyComponent: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	key, err := def.DeriveKey(nil, entity.Properties{"volume": 337, "number": 4})
	if err != nil {
		t.Fatal(err)
	}
	if key.Name != "337-4" {
		t.Errorf("expected stringified numeric components '337-4', got %q", key.Name)
	}
}

func TestDeriveKey_CustomSeparator(t *testing.T) {
	def, err := entity.CompileWithConfig(entity.Config{KeySeparator: "_"}, entity.NewRegistry(), "region", nil, []entity.Attribute{
		{Name: "continent", KeyComponent: true},
		{Name: "country", KeyComponent: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	key, err := def.DeriveKey(nil, entity.Properties{"continent": "eu", "country": "de"})
	if err != nil {
		t.Fatal(err)
	}
	if key.Name != "eu_de" {
		t.Errorf("expected 'eu_de', got %q", key.Name)
	}
}

// --- Key Path Tests ---

func TestKey_PathRoundTrip(t *testing.T) {
	grand := entity.NewKey("journal", "bmj", nil)
	parent := entity.NewKey("volume", "337", grand)
	key := entity.NewKey("citation", "19004808", parent)

	path := key.Path()
	if path != "journal:bmj/volume:337/citation:19004808" {
		t.Fatalf("unexpected path %q", path)
	}

	parsed, err := entity.ParseKeyPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if !parsed.Equal(key) {
		t.Errorf("parsed key %v does not equal original %v", parsed, key)
	}
}

func TestParseKeyPath_Malformed(t *testing.T) {
	if _, err := entity.ParseKeyPath("no-colon-here"); err == nil {
		t.Error("expected error for malformed path")
	}
}

func TestKey_Equal(t *testing.T) {
	a := entity.NewKey("citation", "1", entity.NewKey("journal", "bmj", nil))
	b := entity.NewKey("citation", "1", entity.NewKey("journal", "bmj", nil))
	c := entity.NewKey("citation", "1", nil)

	if !a.Equal(b) {
		t.Error("structurally identical keys must be equal")
	}
	if a.Equal(c) {
		t.Error("keys with different ancestry must not be equal")
	}
	var nilKey *entity.Key
	if !nilKey.Equal(nil) {
		t.Error("two nil keys must be equal")
	}
	if a.Equal(nil) {
		t.Error("key must not equal nil")
	}
}
