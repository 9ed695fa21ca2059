// Package manifest keeps a record of every exported animation under a data
// directory: one directory per run holding metadata.json and marks.csv.
package manifest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/san-kum/voxanim/internal/markers"
)

const DefaultDir = ".voxanim"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Record struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Output    string    `json:"output"`
	Files     []string  `json:"files"`
	Timestamp time.Time `json:"timestamp"`
	Shape     [3]int    `json:"shape"`
	Axis      int       `json:"axis"`
	Slices    []int     `json:"slices"`
	FPS       float64   `json:"fps"`
	Loop      bool      `json:"loop"`
	Frames    int       `json:"frames"`
	Bytes     uint64    `json:"bytes"`
	Marks     int       `json:"marks"`
}

func (r Record) Size() string { return humanize.Bytes(r.Bytes) }

func (r Record) Age() string { return humanize.Time(r.Timestamp) }

func (s *Store) mkRunDir(source string, ts time.Time) (string, error) {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name = strings.TrimSuffix(name, ".npy")
	if name == "" || name == "." {
		name = "run"
	}
	base := fmt.Sprintf("%s_%s", name, ts.Format("20060102T150405"))
	id := base
	for i := 2; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, id), 0755)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

// Save writes rec and its marker binding and returns the run id.
func (s *Store) Save(rec Record, binding markers.Binding) (id string, err error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	id, err = s.mkRunDir(rec.Source, rec.Timestamp)
	if err != nil {
		return "", err
	}
	rec.ID = id
	runDir := filepath.Join(s.baseDir, id)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := metaFile.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "marks.csv"))
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := csvFile.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"slice", "row", "col"}); err != nil {
		return "", err
	}
	slices := make([]int, 0, len(binding))
	for slice := range binding {
		slices = append(slices, slice)
	}
	sort.Ints(slices)
	for _, slice := range slices {
		for _, p := range binding[slice] {
			row := []string{
				strconv.Itoa(slice),
				strconv.FormatFloat(p.Row, 'g', -1, 64),
				strconv.FormatFloat(p.Col, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return id, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	runs := make([]Record, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *rec)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) LoadMarks(id string) (markers.Binding, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "marks.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	binding := make(markers.Binding)
	for i, record := range records {
		if i == 0 {
			continue
		}
		slice, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("marks.csv line %d: %w", i+1, err)
		}
		row, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("marks.csv line %d: %w", i+1, err)
		}
		col, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("marks.csv line %d: %w", i+1, err)
		}
		binding[slice] = append(binding[slice], markers.Point{Row: row, Col: col})
	}
	return binding, nil
}
