// Package query builds the backend-neutral search queries used by the catalog.
package query

import (
	"fmt"
	"strings"
)

// Kind is the search strategy of a Query.
type Kind string

// Query kinds.
const (
	KindMatchAll   Kind = "match_all"
	KindMultiMatch Kind = "multi_match"
	// KindWildcard matches a glob pattern against a single field.
	KindWildcard Kind = "wildcard"
)

// IsValid checks if the kind is one of the supported values.
func (k Kind) IsValid() bool {
	return k == KindMatchAll || k == KindMultiMatch || k == KindWildcard
}

// FuzzinessAuto lets the backend pick the edit distance from the term length.
const FuzzinessAuto = "AUTO"

// DefaultHandle selects the default collection, same as an empty handle.
const DefaultHandle = "default"

// Product document fields a query can target.
const (
	FieldProductName = "product_name"
	FieldDescription = "description"
	FieldCategory    = "category"
)

// Field is a document field with its relevance boost.
type Field struct {
	name  string
	boost float64
}

// NewField creates a boosted field. A non-positive boost means 1.
func NewField(name string, boost float64) Field {
	if boost <= 0 {
		boost = 1
	}
	return Field{name: name, boost: boost}
}

// Name returns the document field name.
func (f Field) Name() string { return f.name }

// Boost returns the relevance multiplier.
func (f Field) Boost() float64 { return f.boost }

// String renders the field in "name^boost" form; boost 1 is left implicit.
func (f Field) String() string {
	if f.boost == 1 {
		return f.name
	}
	return fmt.Sprintf("%s^%g", f.name, f.boost)
}

// HandleFields returns the weighted fields a collection handle is matched against.
func HandleFields() []Field {
	return []Field{
		NewField(FieldProductName, 3),
		NewField(FieldDescription, 1),
		NewField(FieldCategory, 4),
	}
}

// Query is an immutable search query. Build one with MatchAll, MultiMatch or Wildcard.
type Query struct {
	kind      Kind
	text      string
	fields    []Field
	fuzziness string
	field     string
	pattern   string
}

// MatchAll matches every document in the index.
func MatchAll() Query {
	return Query{kind: KindMatchAll}
}

// MultiMatch runs a fuzzy full-text match of text against the handle fields.
func MultiMatch(text string) Query {
	return Query{
		kind:      KindMultiMatch,
		text:      text,
		fields:    HandleFields(),
		fuzziness: FuzzinessAuto,
	}
}

// Wildcard matches pattern against field. '*' stands for any run of characters.
func Wildcard(field, pattern string) Query {
	return Query{kind: KindWildcard, field: field, pattern: pattern}
}

// ForHandle selects the collection query for a handle.
func ForHandle(handle string) Query {
	if handle == "" || handle == DefaultHandle {
		return MatchAll()
	}
	return MultiMatch(handle)
}

// ForCategory builds a substring match on the category field.
// Matching is case-sensitive, as the backend stores categories.
func ForCategory(category string) Query {
	return Wildcard(FieldCategory, "*"+category+"*")
}

// Kind returns the query kind.
func (q Query) Kind() Kind { return q.kind }

// Text returns the multi-match text.
func (q Query) Text() string { return q.text }

// Fields returns a copy of the multi-match fields, in boost order as built.
func (q Query) Fields() []Field {
	out := make([]Field, len(q.fields))
	copy(out, q.fields)
	return out
}

// Fuzziness returns the multi-match fuzziness setting.
func (q Query) Fuzziness() string { return q.fuzziness }

// Field returns the wildcard target field.
func (q Query) Field() string { return q.field }

// Pattern returns the wildcard pattern.
func (q Query) Pattern() string { return q.pattern }

// String is a short human-readable form, used in logs.
func (q Query) String() string {
	switch q.kind {
	case KindMatchAll:
		return "match_all"
	case KindMultiMatch:
		names := make([]string, len(q.fields))
		for i, f := range q.fields {
			names[i] = f.String()
		}
		return fmt.Sprintf("multi_match(%q on %s, fuzziness=%s)", q.text, strings.Join(names, ","), q.fuzziness)
	case KindWildcard:
		return fmt.Sprintf("wildcard(%s=%q)", q.field, q.pattern)
	default:
		return "unknown"
	}
}
