package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrMissingIdentity marks a document with neither id nor name. It is a data
// fault in the upstream store, not a business rule.
var ErrMissingIdentity = errors.New("catalog document has no id or name")

// Field aliases seen in stored catalog documents, most specific first.
var (
	idKeys          = []string{"id", "ID", "sku", "SKU", "_id"}
	nameKeys        = []string{"name", "Name", "model", "Model", "display_name"}
	categoryKeys    = []string{"category", "Category", "type", "Type"}
	kwKeys          = []string{"kW_DHW_Nominal", "kW", "kw", "KW", "capacity_kw", "power_kw", "kW_Nominal"}
	coolingKeys     = []string{"kW_Cooling", "cooling_kw", "coolingKW"}
	copKeys         = []string{"COP_DHW", "cop", "COP", "cop_nominal"}
	refrigerantKeys = []string{"refrigerant", "Refrigerant", "refrigerante"}
	tankKeys        = []string{"tankVolume", "tank_volume_l", "tank_volume", "Tank_L", "tank_l"}
	priceKeys       = []string{"price", "Price", "unit_price", "Price_USD", "precio"}
	reversibleKeys  = []string{"reversible", "Reversible", "cooling", "is_reversible"}
)

// Rejection explains why a document did not become a Record.
type Rejection struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (r Rejection) Error() string {
	return fmt.Sprintf("document %d (%s): %s", r.Index, r.ID, r.Reason)
}

// Normalize maps one raw document into a Record, filling documented defaults.
func Normalize(doc map[string]any) (Record, error) {
	rec := Record{
		ID:          stringField(doc, idKeys),
		Name:        stringField(doc, nameKeys),
		Category:    stringField(doc, categoryKeys),
		KW:          numberField(doc, kwKeys),
		CoolingKW:   numberField(doc, coolingKeys),
		COP:         numberField(doc, copKeys),
		Refrigerant: strings.ToUpper(stringField(doc, refrigerantKeys)),
		TankVolumeL: numberField(doc, tankKeys),
		Price:       numberField(doc, priceKeys),
		Reversible:  boolField(doc, reversibleKeys),
	}
	if rec.ID == "" && rec.Name == "" {
		return Record{}, ErrMissingIdentity
	}
	if rec.ID == "" {
		rec.ID = rec.Name
	}
	if rec.Name == "" {
		rec.Name = rec.ID
	}
	if rec.Category == "" {
		rec.Category = Unknown
	}
	if rec.Refrigerant == "" {
		rec.Refrigerant = Unknown
	}
	if rec.CoolingKW > 0 {
		rec.Reversible = true
	}
	return rec, nil
}

// Ingest normalizes documents and keeps the ones kind accepts. Rejected
// documents are reported alongside; the error is non-nil only when a document
// lacks identity.
func Ingest(kind Kind, docs []map[string]any) ([]Record, []Rejection, error) {
	var (
		records  []Record
		rejected []Rejection
		faults   *multierror.Error
	)
	for i, doc := range docs {
		rec, err := Normalize(doc)
		if err != nil {
			faults = multierror.Append(faults, fmt.Errorf("document %d: %w", i, err))
			continue
		}
		if !kind.Accepts(rec) {
			rejected = append(rejected, Rejection{Index: i, ID: rec.ID, Reason: reason(kind, rec)})
			continue
		}
		records = append(records, rec)
	}
	return records, rejected, faults.ErrorOrNil()
}

func reason(kind Kind, r Record) string {
	if kind == KindInverter {
		return "not an inverter with positive kW"
	}
	if hasAny(r.Category, accessoryCategories) {
		return "accessory category " + r.Category
	}
	return "no positive kW with COP above 1.5 and no heating category"
}

func lookup(doc map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(doc map[string]any, keys []string) string {
	v, ok := lookup(doc, keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func numberField(doc map[string]any, keys []string) float64 {
	v, ok := lookup(doc, keys)
	if !ok {
		return 0
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		parsed, err := parseNumber(t)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// parseNumber accepts spreadsheet-formatted numbers. A single comma followed
// by exactly three digits groups thousands ("1,200"); any other single comma
// with no '.' is a decimal mark ("4,5"). When both marks appear the later one
// is the decimal mark ("1,200.50", "1.200,50").
func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma < 0:
	case dot < 0 && strings.Count(s, ",") == 1 && len(s)-comma-1 != 3:
		s = strings.Replace(s, ",", ".", 1)
	case dot > comma || dot < 0:
		s = strings.ReplaceAll(s, ",", "")
	default:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}

func boolField(doc map[string]any, keys []string) bool {
	v, ok := lookup(doc, keys)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "si", "sí", "1", "y":
			return true
		}
	case float64:
		return t != 0
	}
	return false
}
