// Package table reads digitized point tables from a directory and writes
// the derived numeric series back out as CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/heliophys/cme-kinematics/internal/domain"
)

// Column names fixed by the digitization tool's output format.
const (
	colFile = "file"
	colLon  = "lon [arcsec]"
	colLat  = "lat [arcsec]"
	colDsun = "dsun [m]"
)

// DirReader discovers and loads all point tables in a directory.
type DirReader struct {
	Dir string
}

// NewDirReader creates a reader over the given directory.
func NewDirReader(dir string) *DirReader {
	return &DirReader{Dir: dir}
}

// ReadTables loads every .csv table in the directory, sorted by file name
// so downstream processing order is deterministic.
func (r *DirReader) ReadTables() ([]domain.PointTable, error) {
	paths, err := Discover(r.Dir)
	if err != nil {
		return nil, err
	}
	tables := make([]domain.PointTable, 0, len(paths))
	for _, p := range paths {
		t, err := ReadPointTable(p)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Discover lists the .csv point tables under dir in sorted name order.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover point tables: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// EventIDFromPath derives the event identifier from a table's file name:
// the trailing underscore-delimited token of the base name, extension
// stripped. "output/selected_points_id02.csv" -> "id02". The identifier
// always comes from the table's own name, never from directory names.
func EventIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	parts := strings.Split(base, "_")
	return parts[len(parts)-1]
}

// ReadPointTable parses one CSV point table into a PointTable. The header
// row is mapped by name so extra columns (a pandas index, for instance)
// are tolerated; a missing required column or an unparseable dsun cell is
// a table-level error, since it means the interchange file is corrupted
// rather than a single observation being unusable.
func ReadPointTable(path string) (domain.PointTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.PointTable{}, fmt.Errorf("open point table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return domain.PointTable{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) < 1 {
		return domain.PointTable{}, fmt.Errorf("read %s: empty file", path)
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{colFile, colLon, colLat, colDsun} {
		if _, ok := colIdx[col]; !ok {
			return domain.PointTable{}, fmt.Errorf("read %s: missing column %q", path, col)
		}
	}

	t := domain.PointTable{
		EventID: EventIDFromPath(path),
		Path:    path,
		Records: make([]domain.ObservationRecord, 0, len(rows)-1),
	}
	for i, row := range rows[1:] {
		dsunRaw := strings.TrimSpace(row[colIdx[colDsun]])
		dsun, err := strconv.ParseFloat(dsunRaw, 64)
		if err != nil {
			return domain.PointTable{}, fmt.Errorf("read %s row %d: dsun %q: %w", path, i+2, dsunRaw, err)
		}
		t.Records = append(t.Records, domain.ObservationRecord{
			File:   strings.TrimSpace(row[colIdx[colFile]]),
			LonRaw: row[colIdx[colLon]],
			LatRaw: row[colIdx[colLat]],
			DsunM:  dsun,
		})
	}
	return t, nil
}
