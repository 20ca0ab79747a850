package infotable

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

// DataFormat tells how objects are serialized.
type DataFormat struct {
	CSV       bool
	Separator rune
	Header    bool
}

// JSON is the format of a JSON array of objects.
var JSON = DataFormat{}

func CSV(separator rune, header bool) DataFormat {
	return DataFormat{CSV: true, Separator: separator, Header: header}
}

// Load builds a table from metadata and (optional) data.
//
// When data is empty, the table has no objects.
func Load(metadata []byte, data []byte, format DataFormat) (*Table, error) {
	attrs, err := ParseMetadata(metadata)
	if err != nil {
		return nil, err
	}
	return LoadObjects(attrs, data, format)
}

// LoadObjects builds a table of data described by attrs.
func LoadObjects(attrs []Attribute, data []byte, format DataFormat) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(attrs, nil)
	}

	var rows [][]string
	var err error
	if format.CSV {
		rows, err = ParseObjectsCSV(attrs, bytes.NewReader(data), format.Separator, format.Header)
	} else {
		rows, err = ParseObjectsJSON(attrs, data)
	}
	if err != nil {
		return nil, err
	}
	return New(attrs, rows)
}

// ParseObjectsJSON reads a JSON array of objects.
//
// Each object maps attribute names to values (string or number).
// Absent keys, null and "?" are missing values.
func ParseObjectsJSON(attrs []Attribute, data []byte) ([][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, kerr.InvalidFormat("data is not a JSON array of objects: %s", err)
	}

	index := map[string]int{}
	for j, a := range attrs {
		index[a.Name] = j
	}

	rows := make([][]string, len(objects))
	for i, o := range objects {
		row := make([]string, len(attrs))
		for j := range row {
			row[j] = MissingValue
		}
		for k, v := range o {
			j, ok := index[k]
			if !ok {
				return nil, kerr.InvalidFormat(`object %d: unknown attribute "%s"`, i+1, k)
			}
			switch vv := v.(type) {
			case nil:
			case string:
				row[j] = vv
			case json.Number:
				row[j] = vv.String()
			default:
				return nil, kerr.InvalidFormat(
					`object %d: value of "%s" should be a string or a number`, i+1, k,
				)
			}
		}
		rows[i] = row
	}
	return rows, nil
}

// ParseObjectsCSV reads objects in CSV.
//
// With header, columns are matched to attributes by name. Without header,
// columns are in the order of attributes.
func ParseObjectsCSV(attrs []Attribute, r io.Reader, separator rune, header bool) ([][]string, error) {
	cr := csv.NewReader(r)
	if separator != 0 {
		cr.Comma = separator
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, kerr.InvalidFormat("data is not a valid CSV: %s", err)
	}

	columns := make([]int, len(attrs)) // columns[j] is a column for j-th attribute, or -1
	for j := range columns {
		columns[j] = j
	}
	if header {
		if len(records) == 0 {
			return nil, kerr.InvalidFormat("CSV header is missing")
		}
		names := records[0]
		records = records[1:]
		for j, a := range attrs {
			columns[j] = -1
			for c, n := range names {
				if strings.TrimSpace(n) == a.Name {
					columns[j] = c
					break
				}
			}
		}
		if err := checkHeader(attrs, names); err != nil {
			return nil, err
		}
	}

	rows := make([][]string, 0, len(records))
	for n, rec := range records {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue // blank line
		}
		if !header && len(rec) != len(attrs) {
			return nil, kerr.InvalidFormat(
				"line %d has %d columns, but there are %d attributes", n+1, len(rec), len(attrs),
			)
		}
		row := make([]string, len(attrs))
		for j, c := range columns {
			if c < 0 || len(rec) <= c {
				row[j] = MissingValue
				continue
			}
			row[j] = strings.TrimSpace(rec[c])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(attrs []Attribute, names []string) error {
	known := map[string]struct{}{}
	for _, a := range attrs {
		known[a.Name] = struct{}{}
	}
	var unknown []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if _, ok := known[n]; !ok {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) != 0 {
		return kerr.InvalidFormat("CSV header has unknown attributes: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// WriteJSON writes objects of the table as a JSON array.
func (t *Table) WriteJSON(w io.Writer) error {
	objects := make([]map[string]any, len(t.rows))
	for i := range t.rows {
		o := make(map[string]any, len(t.attributes))
		for j, a := range t.attributes {
			if v := t.rows[i][j]; v == MissingValue {
				o[a.Name] = nil
			} else {
				o[a.Name] = v
			}
		}
		objects[i] = o
	}
	return json.NewEncoder(w).Encode(objects)
}

// WriteCSV writes objects of the table in CSV.
func (t *Table) WriteCSV(w io.Writer, separator rune, header bool) error {
	cw := csv.NewWriter(w)
	if separator != 0 {
		cw.Comma = separator
	}
	if header {
		names := make([]string, len(t.attributes))
		for j, a := range t.attributes {
			names[j] = a.Name
		}
		if err := cw.Write(names); err != nil {
			return err
		}
	}
	for _, r := range t.rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
