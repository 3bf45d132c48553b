package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/espalier/entity"
	"github.com/jacentio/espalier/query"
)

var _ entity.Backend = (*Store)(nil)

// --- buildFilterExpression Tests ---

func TestBuildFilterExpression_Empty(t *testing.T) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	expr, err := buildFilterExpression(nil, names, values)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "" {
		t.Errorf("expected empty expression, got %q", expr)
	}
}

func TestBuildFilterExpression_Single(t *testing.T) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	expr, err := buildFilterExpression(
		query.New().Filter("year", query.GreaterEq, 2010).Filters(),
		names, values,
	)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "#f0 >= :f0" {
		t.Errorf("unexpected expression %q", expr)
	}
	if names["#f0"] != "year" {
		t.Errorf("expected placeholder name 'year', got %q", names["#f0"])
	}
	n, ok := values[":f0"].(*types.AttributeValueMemberN)
	if !ok || n.Value != "2010" {
		t.Errorf("expected numeric value 2010, got %#v", values[":f0"])
	}
}

func TestBuildFilterExpression_Multiple(t *testing.T) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	expr, err := buildFilterExpression(
		query.New().
			Filter("year", query.NotEqual, 2010).
			Filter("journal", query.Equal, "BMJ").
			Filters(),
		names, values,
	)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "#f0 <> :f0 AND #f1 = :f1" {
		t.Errorf("unexpected expression %q", expr)
	}
}

func TestBuildFilterExpression_In(t *testing.T) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	expr, err := buildFilterExpression(
		query.New().Filter("journal", query.In, []any{"BMJ", "Lancet"}).Filters(),
		names, values,
	)
	if err != nil {
		t.Fatal(err)
	}
	if expr != "#f0 IN (:f0_0, :f0_1)" {
		t.Errorf("unexpected expression %q", expr)
	}
	s, ok := values[":f0_1"].(*types.AttributeValueMemberS)
	if !ok || s.Value != "Lancet" {
		t.Errorf("expected second candidate 'Lancet', got %#v", values[":f0_1"])
	}
}

func TestBuildFilterExpression_BadIn(t *testing.T) {
	names := map[string]string{}
	values := map[string]types.AttributeValue{}

	_, err := buildFilterExpression(
		query.New().Filter("journal", query.In, "BMJ").Filters(),
		names, values,
	)
	if err == nil {
		t.Error("expected error for non-slice in-filter value")
	}
}

// --- sortResults Tests ---

func TestSortResults(t *testing.T) {
	key := func(name string) *entity.Key { return entity.NewKey("citation", name, nil) }
	results := []entity.Result{
		{Key: key("1"), Props: entity.Properties{"year": float64(2012)}},
		{Key: key("2"), Props: entity.Properties{"year": float64(2008)}},
		{Key: key("3"), Props: entity.Properties{"year": float64(2010)}},
	}

	sortResults(results, query.New().Order("year", query.Ascending).Sorts())
	if results[0].Props["year"] != float64(2008) || results[2].Props["year"] != float64(2012) {
		t.Errorf("expected ascending years, got %v %v %v",
			results[0].Props["year"], results[1].Props["year"], results[2].Props["year"])
	}

	sortResults(results, query.New().Order("year", query.Descending).Sorts())
	if results[0].Props["year"] != float64(2012) {
		t.Errorf("expected descending years, got first %v", results[0].Props["year"])
	}
}

func TestSortResults_NoTerms_KeyOrder(t *testing.T) {
	key := func(name string) *entity.Key { return entity.NewKey("citation", name, nil) }
	results := []entity.Result{
		{Key: key("2"), Props: entity.Properties{}},
		{Key: key("1"), Props: entity.Properties{}},
	}

	sortResults(results, nil)
	if results[0].Key.Name != "1" {
		t.Errorf("expected key-path order, got %q first", results[0].Key.Name)
	}
}

// --- Config Tests ---

func TestConfig_Validate(t *testing.T) {
	c := Config{}
	c.validate()
	if c.Table != "espalier_entities" || c.KindIndex != "kind-index" {
		t.Errorf("unexpected defaults %+v", c)
	}

	c = Config{Table: "custom", KindIndex: "custom-index"}
	c.validate()
	if c.Table != "custom" || c.KindIndex != "custom-index" {
		t.Errorf("custom values overwritten: %+v", c)
	}
}

// --- compareValues Tests ---

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		expected int
	}{
		{"numbers ascending", float64(1), float64(2), -1},
		{"numbers equal", float64(2), float64(2), 0},
		{"strings", "a", "b", -1},
		{"nil first", nil, "x", -1},
		{"both nil", nil, nil, 0},
		{"incomparable", "x", float64(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareValues(tt.a, tt.b); got != tt.expected {
				t.Errorf("compareValues(%v, %v): expected %d, got %d", tt.a, tt.b, tt.expected, got)
			}
		})
	}
}
