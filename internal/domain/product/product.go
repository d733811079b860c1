// Package product holds the client-facing product shape and the projection
// from raw search-engine documents into it.
package product

import "encoding/json"

// Level is the depth of a structured category entry.
type Level string

// Category levels.
const (
	LevelMain             Level = "main"
	LevelSubcategoryGroup Level = "subcategory_group"
	LevelSubcategory      Level = "subcategory"
)

// IsValid checks if the level is one of the supported values.
func (l Level) IsValid() bool {
	return l == LevelMain || l == LevelSubcategoryGroup || l == LevelSubcategory
}

// Product is the normalized catalog item returned to clients.
//
// Optional members are pointers so that "absent upstream" (omitted from JSON)
// stays distinct from "present but empty".
type Product struct {
	ID                   string                `json:"id"`
	ProductName          string                `json:"productName"`
	Category             []string              `json:"category"`
	Description          string                `json:"description"`
	SellingPrice         string                `json:"sellingPrice"`
	ImageURL             string                `json:"imageUrl"`
	StructuredCategories *[]StructuredCategory `json:"structuredCategories,omitempty"`
	ProductSpecification *Specification        `json:"productSpecification,omitempty"`
}

// StructuredCategory is one node of the category tree a product belongs to.
type StructuredCategory struct {
	MainCategory     string `json:"mainCategory"`
	SubcategoryGroup string `json:"subcategoryGroup,omitempty"`
	Subcategory      string `json:"subcategory,omitempty"`
	Level            Level  `json:"level"`
}

// Specification holds the physical and shipping details of a product.
// Keys the projector does not know are kept in Extra and rendered as-is.
type Specification struct {
	Dimensions                 *Dimensions `json:"dimensions,omitempty"`
	ItemWeight                 *Weight     `json:"itemWeight,omitempty"`
	ShippingWeight             *Weight     `json:"shippingWeight,omitempty"`
	DomesticShipping           *string     `json:"domesticShipping,omitempty"`
	InternationalShipping      *string     `json:"internationalShipping,omitempty"`
	ManufacturerRecommendedAge *string     `json:"manufacturerRecommendedAge,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// MarshalJSON merges Extra with the known members; known members win on collision.
func (s Specification) MarshalJSON() ([]byte, error) {
	type plain Specification
	known, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err //nolint:wrapcheck // plain encoding of our own struct
	}
	return mergeExtra(known, s.Extra)
}

// Dimensions of the item. Keys it does not know are kept in Extra.
type Dimensions struct {
	Length *Quantity `json:"length,omitempty"`
	Width  *Quantity `json:"width,omitempty"`
	Height *Quantity `json:"height,omitempty"`
	Unit   *string   `json:"unit,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known members and keeps every other key in Extra.
func (d *Dimensions) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(b)
	if err != nil {
		return err
	}
	*d = Dimensions{}
	d.Extra = decodeMembers(fields, map[string]func(json.RawMessage) bool{
		"length": func(v json.RawMessage) bool { return decodeInto(v, &d.Length) },
		"width":  func(v json.RawMessage) bool { return decodeInto(v, &d.Width) },
		"height": func(v json.RawMessage) bool { return decodeInto(v, &d.Height) },
		"unit":   func(v json.RawMessage) bool { return decodeInto(v, &d.Unit) },
	})
	return nil
}

// MarshalJSON merges Extra with the known members.
func (d Dimensions) MarshalJSON() ([]byte, error) {
	type plain Dimensions
	known, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err //nolint:wrapcheck // plain encoding of our own struct
	}
	return mergeExtra(known, d.Extra)
}

// Weight is a value with its unit. Keys it does not know are kept in Extra.
type Weight struct {
	Value *Quantity `json:"value,omitempty"`
	Unit  *string   `json:"unit,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known members and keeps every other key in Extra.
func (w *Weight) UnmarshalJSON(b []byte) error {
	fields, err := decodeObject(b)
	if err != nil {
		return err
	}
	*w = Weight{}
	w.Extra = decodeMembers(fields, map[string]func(json.RawMessage) bool{
		"value": func(v json.RawMessage) bool { return decodeInto(v, &w.Value) },
		"unit":  func(v json.RawMessage) bool { return decodeInto(v, &w.Unit) },
	})
	return nil
}

// MarshalJSON merges Extra with the known members.
func (w Weight) MarshalJSON() ([]byte, error) {
	type plain Weight
	known, err := json.Marshal(plain(w))
	if err != nil {
		return nil, err //nolint:wrapcheck // plain encoding of our own struct
	}
	return mergeExtra(known, w.Extra)
}

// mergeExtra adds extra to the encoded object known; known members win on collision.
func mergeExtra(known []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return known, nil
	}
	merged := make(map[string]json.RawMessage, len(extra)+6)
	for k, v := range extra {
		merged[k] = v
	}
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err //nolint:wrapcheck // re-reading our own encoding
	}
	return json.Marshal(merged) //nolint:wrapcheck // map of raw messages
}

// Quantity is a measurement exactly as stored upstream: a JSON number
// or a string such as "0.4inches".
type Quantity json.RawMessage

// MarshalJSON returns the stored value verbatim.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if len(q) == 0 {
		return []byte("null"), nil
	}
	return q, nil
}

// UnmarshalJSON keeps a copy of the raw value.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	*q = append((*q)[:0], b...)
	return nil
}
