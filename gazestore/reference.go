package gazestore

import (
	"bytes"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ReferenceField is one column of a ReferenceRow. A nil Value represents SQL NULL.
type ReferenceField struct {
	Name  string
	Value *string
}

// ReferenceRow is a row of a table whose schema is only known at query time.
// Fields keep the column order reported by the store.
type ReferenceRow struct {
	fields []ReferenceField
}

// NewReferenceRow builds a ReferenceRow from fields in column order.
func NewReferenceRow(fields ...ReferenceField) ReferenceRow {
	return ReferenceRow{fields: fields}
}

// Fields returns the fields in column order.
func (r ReferenceRow) Fields() []ReferenceField {
	return r.fields
}

// Columns returns the column names in order.
func (r ReferenceRow) Columns() []string {
	cols := make([]string, len(r.fields))
	for i, f := range r.fields {
		cols[i] = f.Name
	}

	return cols
}

// Get returns the value of the named column, exact match only.
// The second return is false when the column does not exist.
func (r ReferenceRow) Get(column string) (*string, bool) {
	for _, f := range r.fields {
		if f.Name == column {
			return f.Value, true
		}
	}

	return nil, false
}

// Lookup returns the value of a column using relaxed matching: exact name first,
// then a case-insensitive comparison treating spaces and underscores as equal
// ("Test Name" matches "test_name").
func (r ReferenceRow) Lookup(column string) *string {
	if v, ok := r.Get(column); ok {
		return v
	}

	want := normalizeColumn(column)
	for _, f := range r.fields {
		if normalizeColumn(f.Name) == want {
			return f.Value
		}
	}

	return nil
}

// LookupString is Lookup with NULL and missing columns mapped to "" and the value trimmed.
func (r ReferenceRow) LookupString(column string) string {
	v := r.Lookup(column)
	if v == nil {
		return ""
	}

	return strings.TrimSpace(*v)
}

// MarshalJSON encodes the row as a JSON object keeping the column order.
func (r ReferenceRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// RelationMaps relate tests and participants over all non-excluded slices.
type RelationMaps struct {
	ParticipantsByTest map[string][]string `json:"participants_by_test"`
	TestsByParticipant map[string][]string `json:"tests_by_participant"`
}

// StaticData is the bootstrap payload.
type StaticData struct {
	TestCatalog        []ReferenceRow      `json:"test_catalog"`
	TestGroup          []ReferenceRow      `json:"test_group"`
	Recordings         []ReferenceRow      `json:"recordings"`
	Participants       []string            `json:"participants"`
	TestNames          []string            `json:"test_names"`
	ParticipantsByTest map[string][]string `json:"participants_by_test"`
	TestsByParticipant map[string][]string `json:"tests_by_participant"`
	AOIMap             []AOIRegion         `json:"aoi_map"`
}

// AOIRegion is an area of interest of a test. RegionID matches the box labels of its samples;
// RGBHex is the colour the region is painted with on the stimulus image.
type AOIRegion struct {
	TestName string  `json:"test_name"`
	Tag      string  `json:"tag"`
	RegionID string  `json:"region_id"`
	RGBHex   *string `json:"rgb_hex"`
}

// AOIRegions reads the regions from AOI reference rows, keeping table order.
// Rows without a region id are skipped. An empty testName keeps every test.
func AOIRegions(rows []ReferenceRow, testName string) []AOIRegion {
	regions := make([]AOIRegion, 0)

	for _, row := range rows {
		region := AOIRegion{
			TestName: row.LookupString("test_name"),
			Tag:      row.LookupString("tag"),
			RegionID: strings.TrimSpace(row.LookupString("region_id")),
			RGBHex:   row.Lookup("rgb_hex"),
		}

		if region.RegionID == "" || (testName != "" && region.TestName != testName) {
			continue
		}

		regions = append(regions, region)
	}

	return regions
}
