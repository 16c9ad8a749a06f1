// Command genpoints generates synthetic digitized point tables with known
// constant-speed kinematics, for exercising the analyze pipeline without
// real digitization output. Each event expands linearly in both height
// and angular width, so the derived speeds, expansion rates, and fits
// have closed-form expected values.
//
// Usage:
//
//	go run ./cmd/genpoints -out-dir output -events 3 -samples 6
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/heliophys/cme-kinematics/internal/domain"
)

const radPerArcsec = math.Pi / (180 * 3600)

var baseTime = time.Date(2022, time.March, 17, 3, 0, 0, 0, time.UTC)

// eventParams describes one synthetic event's linear kinematics.
type eventParams struct {
	id        string
	dsunM     float64
	h0Rs      float64 // apex height at first sample
	speedKms  float64 // constant radial speed
	aw0Deg    float64 // angular width at first sample
	rateDegRs float64 // d(aw)/dh in deg per solar radius
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "output", "directory to write point tables into")
	events := flag.Int("events", 3, "number of synthetic events")
	samples := flag.Int("samples", 6, "usable samples per event")
	cadence := flag.Duration("cadence", 10*time.Minute, "time between samples")
	seed := flag.Int64("seed", 1, "random seed for per-event parameter variation")
	flag.Parse()

	if *events < 1 || *samples < 3 {
		flag.Usage()
		return fmt.Errorf("need -events >= 1 and -samples >= 3")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *events; i++ {
		p := eventParams{
			id:        fmt.Sprintf("id%02d", i+1),
			dsunM:     1.40e11 + rng.Float64()*2e10,
			h0Rs:      1.05 + rng.Float64()*0.1,
			speedKms:  250 + rng.Float64()*400,
			aw0Deg:    20 + rng.Float64()*15,
			rateDegRs: 15 + rng.Float64()*25,
		}
		path := filepath.Join(*outDir, "selected_points_"+p.id+".csv")
		if err := writeTable(path, p, *samples, *cadence); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("%s: h0=%.3f Rs, v=%.0f km/s, aw0=%.1f deg, d(aw)/dh=%.1f deg/Rs",
			p.id, p.h0Rs, p.speedKms, p.aw0Deg, p.rateDegRs)
	}

	log.Printf("wrote %d tables to %s", *events, *outDir)
	return nil
}

// writeTable writes one point table. Row k holds the event at
// t = baseTime + k*cadence with apex height h0 + v*k*cadence and width
// aw0 + rate*(h-h0). A final row with empty bracket lists mimics a frame
// where nothing was digitized.
func writeTable(path string, p eventParams, samples int, cadence time.Duration) error {
	rows := [][]string{{"", "file", "lon [arcsec]", "lat [arcsec]", "dsun [m]"}}

	dhRs := p.speedKms * cadence.Seconds() * 1000 / domain.SolarRadiusM
	for k := 0; k < samples; k++ {
		t := baseTime.Add(time.Duration(k) * cadence)
		hRs := p.h0Rs + float64(k)*dhRs
		awDeg := p.aw0Deg + p.rateDegRs*(hRs-p.h0Rs)
		lon, lat := pointLists(hRs, awDeg, p.dsunM)
		rows = append(rows, []string{
			strconv.Itoa(k), fitsName(t), lon, lat,
			strconv.FormatFloat(p.dsunM, 'g', -1, 64),
		})
	}
	rows = append(rows, []string{
		strconv.Itoa(samples),
		fitsName(baseTime.Add(time.Duration(samples) * cadence)),
		"[]", "[]",
		strconv.FormatFloat(p.dsunM, 'g', -1, 64),
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// pointLists inverts the geometry: given apex height (Rs), angular width
// (deg), and observer distance, it produces the three digitized points as
// bracketed lon/lat lists in arcsec. The apex sits on the +lon axis; the
// two bubble edges sit at polar angles +/- aw/2 at the apex radius.
func pointLists(hRs, awDeg, dsunM float64) (lon, lat string) {
	rArcsec := hRs * domain.SolarRadiusM / (dsunM * radPerArcsec)
	half := awDeg / 2 * math.Pi / 180

	lons := [3]float64{
		rArcsec * math.Cos(half),
		rArcsec,
		rArcsec * math.Cos(half),
	}
	lats := [3]float64{
		rArcsec * math.Sin(half),
		0,
		-rArcsec * math.Sin(half),
	}
	return bracketList(lons), bracketList(lats)
}

func bracketList(v [3]float64) string {
	return fmt.Sprintf("[%s, %s, %s]",
		strconv.FormatFloat(v[0], 'g', -1, 64),
		strconv.FormatFloat(v[1], 'g', -1, 64),
		strconv.FormatFloat(v[2], 'g', -1, 64))
}

// fitsName builds an FSI 304 file name whose timestamp token round-trips
// through the table parser.
func fitsName(t time.Time) string {
	return "solo_L2_eui-fsi304-image_" + t.UTC().Format("20060102T150405") + "123_V01.fits"
}
