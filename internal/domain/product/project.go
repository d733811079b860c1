package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/storefront/internal/domain"
)

// Document is one search hit: the engine-assigned id next to the stored body.
type Document struct {
	ID   string
	Body json.RawMessage
}

// MarshalJSON renders the body with the engine id merged in as "_id".
func (d Document) MarshalJSON() ([]byte, error) {
	fields, err := decodeObject(d.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: document %q: %w", domain.ErrInvalidDocument, d.ID, err)
	}
	if fields == nil {
		fields = make(map[string]json.RawMessage, 1)
	}
	id, err := json.Marshal(d.ID)
	if err != nil {
		return nil, fmt.Errorf("encode id: %w", err)
	}
	fields["_id"] = id
	return json.Marshal(fields)
}

// Source document keys, as written by the catalog loader.
const (
	keyProductName          = "product_name"
	keyCategory             = "category"
	keyDescription          = "description"
	keySellingPrice         = "selling_price"
	keyImageURL             = "image_url"
	keyStructuredCategories = "structured_categories"
	keyProductSpecification = "product_specification"
)

// sourceCategory is the stored form of a StructuredCategory.
type sourceCategory struct {
	MainCategory     string `json:"main_category"`
	SubcategoryGroup string `json:"subcategory_group"`
	Subcategory      string `json:"subcategory"`
	Level            Level  `json:"level"`
}

// Project maps a raw document into a Product.
//
// The id always comes from the engine, never from the body. Unknown keys are
// dropped; structured categories and the specification are copied only when
// present and non-null. Required fields are not checked here (see Validate);
// a value of the wrong type leaves the field empty. The only failure is a body
// that is not a JSON object.
func Project(doc Document) (Product, error) {
	body, err := decodeObject(doc.Body)
	if err != nil {
		return Product{}, fmt.Errorf("%w: document %q: %w", domain.ErrInvalidDocument, doc.ID, err)
	}
	if body == nil {
		return Product{}, fmt.Errorf("%w: document %q has no body", domain.ErrInvalidDocument, doc.ID)
	}

	p := Product{
		ID:           doc.ID,
		ProductName:  stringField(body, keyProductName),
		Category:     categoryField(body),
		Description:  stringField(body, keyDescription),
		SellingPrice: stringField(body, keySellingPrice),
		ImageURL:     stringField(body, keyImageURL),
	}

	if raw, ok := present(body, keyStructuredCategories); ok {
		if cats, ok := structuredCategories(raw); ok {
			p.StructuredCategories = &cats
		}
	}

	if raw, ok := present(body, keyProductSpecification); ok {
		if spec, ok := projectSpecification(raw); ok {
			p.ProductSpecification = spec
		}
	}

	return p, nil
}

// ProjectAll projects every document, stopping at the first shaping failure.
func ProjectAll(docs []Document) ([]Product, error) {
	products := make([]Product, 0, len(docs))
	for _, d := range docs {
		p, err := Project(d)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Validate reports every missing required field of p in a single error.
func Validate(p *Product) error {
	var missing []string
	if p.ID == "" {
		missing = append(missing, "id")
	}
	if p.ProductName == "" {
		missing = append(missing, keyProductName)
	}
	if p.Category == nil {
		missing = append(missing, keyCategory)
	}
	if p.Description == "" {
		missing = append(missing, keyDescription)
	}
	if p.SellingPrice == "" {
		missing = append(missing, keySellingPrice)
	}
	if p.ImageURL == "" {
		missing = append(missing, keyImageURL)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: document %q: missing %s",
			domain.ErrInvalidDocument, p.ID, strings.Join(missing, ", "))
	}

	if p.StructuredCategories != nil {
		for i, c := range *p.StructuredCategories {
			if c.MainCategory == "" {
				return fmt.Errorf("%w: document %q: structured category %d has no main category",
					domain.ErrInvalidDocument, p.ID, i)
			}
			if !c.Level.IsValid() {
				return fmt.Errorf("%w: document %q: structured category %d has invalid level %q",
					domain.ErrInvalidDocument, p.ID, i, c.Level)
			}
		}
	}
	return nil
}

func projectSpecification(raw json.RawMessage) (*Specification, bool) {
	fields, err := decodeObject(raw)
	if err != nil || fields == nil {
		return nil, false
	}

	spec := &Specification{}
	spec.Extra = decodeMembers(fields, map[string]func(json.RawMessage) bool{
		"dimensions":      func(v json.RawMessage) bool { return decodeInto(v, &spec.Dimensions) },
		"item_weight":     func(v json.RawMessage) bool { return decodeInto(v, &spec.ItemWeight) },
		"shipping_weight": func(v json.RawMessage) bool { return decodeInto(v, &spec.ShippingWeight) },
		"domestic_shipping": func(v json.RawMessage) bool {
			return decodeInto(v, &spec.DomesticShipping)
		},
		"international_shipping": func(v json.RawMessage) bool {
			return decodeInto(v, &spec.InternationalShipping)
		},
		"manufacturer_recommended_age": func(v json.RawMessage) bool {
			return decodeInto(v, &spec.ManufacturerRecommendedAge)
		},
	})
	return spec, true
}

// decodeMembers hands each named member to its decoder and returns every key
// that was not consumed. A name takes its exact key when present, otherwise the
// first key equal under case folding in sorted order. A member that fails to
// decode is returned with the rest.
func decodeMembers(
	fields map[string]json.RawMessage,
	members map[string]func(json.RawMessage) bool,
) map[string]json.RawMessage {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	consumed := make(map[string]bool, len(members))
	for name, decode := range members {
		key, ok := memberKey(fields, keys, name)
		if ok && decode(fields[key]) {
			consumed[key] = true
		}
	}

	var rest map[string]json.RawMessage
	for _, k := range keys {
		if consumed[k] {
			continue
		}
		if rest == nil {
			rest = make(map[string]json.RawMessage)
		}
		rest[k] = fields[k]
	}
	return rest
}

func memberKey(fields map[string]json.RawMessage, sortedKeys []string, name string) (string, bool) {
	if _, ok := fields[name]; ok {
		return name, true
	}
	for _, k := range sortedKeys {
		if strings.EqualFold(k, name) {
			return k, true
		}
	}
	return "", false
}

// decodeInto decodes value into dst; false means the caller should keep the raw value.
func decodeInto[T any](value json.RawMessage, dst **T) bool {
	if isNull(value) {
		return false
	}
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return false
	}
	*dst = &v
	return true
}

// structuredCategories decodes a list of categories; a single object is read as
// a one-element list. Any other shape is not a category tree and is skipped.
func structuredCategories(raw json.RawMessage) ([]StructuredCategory, bool) {
	var src []sourceCategory
	if err := json.Unmarshal(raw, &src); err != nil {
		var single sourceCategory
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) || json.Unmarshal(raw, &single) != nil {
			return nil, false
		}
		src = []sourceCategory{single}
	}
	cats := make([]StructuredCategory, len(src))
	for i, c := range src {
		cats[i] = StructuredCategory(c)
	}
	return cats, true
}

func stringField(body map[string]json.RawMessage, key string) string {
	raw, ok := present(body, key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	// Prices are occasionally stored as bare numbers; keep their literal text.
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func categoryField(body map[string]json.RawMessage) []string {
	raw, ok := present(body, keyCategory)
	if !ok {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return nil
}

func present(body map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	raw, ok := body[key]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func decodeObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 || isNull(raw) {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
