// Command validate performs integrity checks on a directory of digitized
// point tables before a batch run: table discovery, column schema, row
// usability, and per-event series buildability. It reports each phase's
// pass/fail status and lists the detailed errors.
//
// Usage:
//
//	go run ./cmd/validate -points-dir output
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/heliophys/cme-kinematics/internal/adapter/table"
	"github.com/heliophys/cme-kinematics/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	pointsDir := flag.String("points-dir", "", "directory containing digitized point tables")
	flag.Parse()

	if *pointsDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*pointsDir); code != 0 {
		os.Exit(code)
	}
}

func run(pointsDir string) int {
	fmt.Println("=== Point Table Integrity Validation ===")
	fmt.Println()

	paths, err := table.Discover(pointsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: discover tables: %v\n", err)
		return 1
	}

	discovery, tables := validateDiscovery(pointsDir, paths)
	phases := []*phase{
		discovery,
		validateRowUsability(tables),
		validateSeriesBuildability(tables),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	rows := 0
	for _, t := range tables {
		rows += len(t.Records)
	}
	fmt.Println()
	fmt.Printf("Tables: %d, rows: %d\n", len(tables), rows)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Discovery & Schema ──
// Every discovered table must parse, carry the required columns, and have
// a unique event identifier.

func validateDiscovery(pointsDir string, paths []string) (*phase, []domain.PointTable) {
	p := &phase{name: "Phase 1: Discovery & Schema"}

	if len(paths) == 0 {
		p.errorf("no .csv point tables found in %s", pointsDir)
		return p, nil
	}

	seen := map[string]string{}
	var tables []domain.PointTable
	for _, path := range paths {
		t, err := table.ReadPointTable(path)
		if err != nil {
			p.errorf("%v", err)
			continue
		}
		if prev, dup := seen[t.EventID]; dup {
			p.errorf("%s: event id %q already used by %s", path, t.EventID, prev)
			continue
		}
		seen[t.EventID] = path
		tables = append(tables, t)
	}
	return p, tables
}

// ── Phase 2: Row Usability ──
// Each row must be skippable (empty bracket lists) or fully parseable:
// a timestamped file name and three finite values per coordinate list.

func validateRowUsability(tables []domain.PointTable) *phase {
	p := &phase{name: "Phase 2: Row Usability"}

	for _, t := range tables {
		usable := 0
		for i, rec := range t.Records {
			if domain.IsEmptyAngleList(rec.LonRaw) || domain.IsEmptyAngleList(rec.LatRaw) {
				continue
			}
			ok := true
			if _, err := domain.ParseFileTimestamp(rec.File); err != nil {
				p.errorf("%s row %d: %v", t.EventID, i+1, err)
				ok = false
			}
			if _, err := domain.ParseAngleTriple(rec.LonRaw); err != nil {
				p.errorf("%s row %d: lon: %v", t.EventID, i+1, err)
				ok = false
			}
			if _, err := domain.ParseAngleTriple(rec.LatRaw); err != nil {
				p.errorf("%s row %d: lat: %v", t.EventID, i+1, err)
				ok = false
			}
			if rec.DsunM <= 0 {
				p.errorf("%s row %d: non-positive dsun %g", t.EventID, i+1, rec.DsunM)
				ok = false
			}
			if ok {
				usable++
			}
		}
		if usable < 2 {
			p.errorf("%s: only %d usable rows, need at least 2 for kinematics", t.EventID, usable)
		}
	}
	return p
}

// ── Phase 3: Series Buildability ──
// Each event must yield a full derivation: ordered series, speeds,
// expansion rates, and a summary with widths inside [0, 180] degrees.

func validateSeriesBuildability(tables []domain.PointTable) *phase {
	p := &phase{name: "Phase 3: Series Buildability"}

	for _, t := range tables {
		series, _, err := domain.BuildEventSeries(t)
		if err != nil {
			p.errorf("%s: build series: %v", t.EventID, err)
			continue
		}
		for i, s := range series.Samples {
			if s.AngularWidthDeg < 0 || s.AngularWidthDeg > 180 {
				p.errorf("%s sample %d: angular width %g deg outside [0, 180]", t.EventID, i, s.AngularWidthDeg)
			}
			if s.HeightRs <= 0 {
				p.errorf("%s sample %d: non-positive height %g Rs", t.EventID, i, s.HeightRs)
			}
		}
		if _, err := domain.SpeedSeries(series); err != nil {
			p.errorf("%s: speed series: %v", t.EventID, err)
		}
		if _, err := domain.ExpansionRateSeries(series); err != nil {
			p.errorf("%s: expansion rate series: %v", t.EventID, err)
		}
	}
	return p
}
