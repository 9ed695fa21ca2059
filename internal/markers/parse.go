package markers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("markers: invalid marker")

// Parse reads a marker written as "a,b,c" (axis 0 first).
func Parse(s string) (Marker, error) {
	var m Marker
	parts := strings.Split(s, ",")
	if len(parts) != len(m) {
		return m, fmt.Errorf("%w: %q needs %d coordinates", ErrSyntax, s, len(m))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return m, fmt.Errorf("%w: %q", ErrSyntax, s)
		}
		m[i] = v
	}
	return m, nil
}

// LoadCSV reads one marker per record. Lines starting with '#' are comments
// and a first record that does not parse is treated as a header.
func LoadCSV(r io.Reader) ([]Marker, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var marks []Marker
	for line := 0; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		m, err := Parse(strings.Join(rec, ","))
		if err != nil {
			if line == 0 {
				continue
			}
			return nil, fmt.Errorf("record %d: %w", line+1, err)
		}
		marks = append(marks, m)
	}
	return marks, nil
}

func LoadFile(path string) ([]Marker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}
