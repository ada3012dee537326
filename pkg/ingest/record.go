package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/gorekall/pkg/rekall"
)

var (
	// ErrUnknownFormat is returned for file extensions other than .yaml,
	// .yml and .parquet.
	ErrUnknownFormat = fmt.Errorf("unknown interval file format")

	// ErrInvalidRecord is returned for records whose spans are reversed or
	// whose spatial columns are only half set.
	ErrInvalidRecord = fmt.Errorf("invalid interval record")
)

// Record is one row of an interval file. The spatial columns are optional
// (nil pointers become optional Parquet columns); a record without them
// covers the whole frame.
type Record struct {
	Key     string   `yaml:"key" json:"key" parquet:"key"`
	T1      float64  `yaml:"t1" json:"t1" parquet:"t1"`
	T2      float64  `yaml:"t2" json:"t2" parquet:"t2"`
	X1      *float64 `yaml:"x1,omitempty" json:"x1,omitempty" parquet:"x1"`
	X2      *float64 `yaml:"x2,omitempty" json:"x2,omitempty" parquet:"x2"`
	Y1      *float64 `yaml:"y1,omitempty" json:"y1,omitempty" parquet:"y1"`
	Y2      *float64 `yaml:"y2,omitempty" json:"y2,omitempty" parquet:"y2"`
	Payload string   `yaml:"payload,omitempty" json:"payload,omitempty" parquet:"payload"`
}

// File is the YAML document layout.
type File struct {
	Intervals []Record `yaml:"intervals"`
}

func pair(lo, hi *float64) (rekall.Span, bool) {
	if lo == nil || hi == nil {
		return rekall.Span{}, false
	}
	return rekall.Span{Lo: *lo, Hi: *hi}, true
}

// Validate checks span ordering and that spatial columns come in pairs.
func (r Record) Validate() error {
	if r.T1 > r.T2 {
		return fmt.Errorf("%w: key %q: t1 %g after t2 %g", ErrInvalidRecord, r.Key, r.T1, r.T2)
	}
	for _, c := range []struct {
		name   string
		lo, hi *float64
	}{{"x", r.X1, r.X2}, {"y", r.Y1, r.Y2}} {
		if (c.lo == nil) != (c.hi == nil) {
			return fmt.Errorf("%w: key %q: only one of %s1/%s2 set", ErrInvalidRecord, r.Key, c.name, c.name)
		}
		if c.lo != nil && *c.lo > *c.hi {
			return fmt.Errorf("%w: key %q: %s1 %g after %s2 %g", ErrInvalidRecord, r.Key, c.name, *c.lo, c.name, *c.hi)
		}
	}
	return nil
}

// Spatial reports whether the record carries an X or Y column.
func (r Record) Spatial() bool {
	return r.X1 != nil || r.X2 != nil || r.Y1 != nil || r.Y2 != nil
}

// RecordSchema reads Records. With spatial set every interval is Bounds3D.
func RecordSchema(spatial bool) Schema[Record, string, string] {
	s := Schema[Record, string, string]{
		Key:     func(r Record) string { return r.Key },
		T:       func(r Record) rekall.Span { return rekall.Span{Lo: r.T1, Hi: r.T2} },
		Payload: func(r Record) string { return r.Payload },
	}
	if spatial {
		s.X = func(r Record) (rekall.Span, bool) { return pair(r.X1, r.X2) }
		s.Y = func(r Record) (rekall.Span, bool) { return pair(r.Y1, r.Y2) }
	}
	return s
}

// Mapping validates records and groups them by key. The whole file is
// spatial as soon as one record is.
func Mapping(records []Record) (*rekall.IntervalSetMapping[string, string], error) {
	spatial := false
	var errs []error
	for _, r := range records {
		if err := r.Validate(); err != nil {
			errs = append(errs, err)
		}
		spatial = spatial || r.Spatial()
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return FromRecords(records, RecordSchema(spatial)), nil
}

// RecordOf converts one interval. Spatial columns are set for Bounds3D only.
func RecordOf(key string, iv rekall.Interval[string]) Record {
	r := Record{Key: key, T1: iv.Get(rekall.T1), T2: iv.Get(rekall.T2), Payload: iv.Payload}
	if b, ok := iv.Bounds.(rekall.Bounds3D); ok {
		r.X1, r.X2, r.Y1, r.Y2 = &b.X1, &b.X2, &b.Y1, &b.Y2
	}
	return r
}

// ToRecords flattens a mapping back into rows, ordered by key and then by
// interval order.
func ToRecords(m *rekall.IntervalSetMapping[string, string]) []Record {
	out := make([]Record, 0, m.TotalSize())
	for _, k := range rekall.SortedKeys(m) {
		for _, iv := range m.Get(k).Intervals() {
			out = append(out, RecordOf(k, iv))
		}
	}
	return out
}

// ReadYAML decodes a File document.
func ReadYAML(r io.Reader) ([]Record, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return f.Intervals, nil
}

// WriteYAML encodes records as a File document.
func WriteYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Intervals: records}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// ReadParquet reads every row of a Parquet file.
func ReadParquet(path string) ([]Record, error) {
	rows, err := parquet.ReadFile[Record](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	return rows, nil
}

// WriteParquet writes records to a Parquet file, replacing it.
func WriteParquet(path string, records []Record) error {
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}

type format int

const (
	formatYAML format = iota
	formatParquet
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".parquet":
		return formatParquet, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ReadFile reads a YAML or Parquet interval file, chosen by extension.
func ReadFile(path string) ([]Record, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	if f == formatParquet {
		return ReadParquet(path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	records, err := ReadYAML(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// WriteFile writes a YAML or Parquet interval file, chosen by extension.
func WriteFile(path string, records []Record) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	if f == formatParquet {
		return WriteParquet(path, records)
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteYAML(fh, records); err != nil {
		fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return fh.Close()
}

// LoadFile reads and validates an interval file into a mapping.
func LoadFile(path string) (*rekall.IntervalSetMapping[string, string], error) {
	records, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Mapping(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
