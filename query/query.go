// Package query provides an immutable filter and sort specification
// consumed by espalier backends. It builds descriptions only; value
// comparison is the backend's concern.
package query

// Operator is a property comparison operator.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	LessThan
	LessEq
	GreaterThan
	GreaterEq
	In
)

// String returns the operator in filter-expression notation.
func (op Operator) String() string {
	switch op {
	case Equal:
		return "="
	case NotEqual:
		return "!="
	case LessThan:
		return "<"
	case LessEq:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterEq:
		return ">="
	case In:
		return "in"
	default:
		return "unknown"
	}
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Filter is a single property predicate. For the In operator, Value
// must be a []any of candidate values.
type Filter struct {
	Property string
	Op       Operator
	Value    any
}

// Sort orders results by a property.
type Sort struct {
	Property string
	Dir      Direction
}

// Spec is an immutable filter/sort specification. The zero value
// matches everything in declaration order. Builder methods return a
// new Spec; the receiver is never modified.
type Spec struct {
	filters []Filter
	sorts   []Sort
}

// New returns an empty specification.
func New() Spec {
	return Spec{}
}

// Filter returns a copy of s with an additional property predicate.
func (s Spec) Filter(property string, op Operator, value any) Spec {
	filters := make([]Filter, len(s.filters), len(s.filters)+1)
	copy(filters, s.filters)
	return Spec{
		filters: append(filters, Filter{Property: property, Op: op, Value: value}),
		sorts:   s.sorts,
	}
}

// Order returns a copy of s with an additional sort term.
func (s Spec) Order(property string, dir Direction) Spec {
	sorts := make([]Sort, len(s.sorts), len(s.sorts)+1)
	copy(sorts, s.sorts)
	return Spec{
		filters: s.filters,
		sorts:   append(sorts, Sort{Property: property, Dir: dir}),
	}
}

// Filters returns the predicates in the order they were added.
func (s Spec) Filters() []Filter {
	out := make([]Filter, len(s.filters))
	copy(out, s.filters)
	return out
}

// Sorts returns the sort terms in the order they were added.
func (s Spec) Sorts() []Sort {
	out := make([]Sort, len(s.sorts))
	copy(out, s.sorts)
	return out
}

// Empty reports whether the spec has no filters and no sorts.
func (s Spec) Empty() bool {
	return len(s.filters) == 0 && len(s.sorts) == 0
}
