// mkfixture generates a synthetic claims fixture for tests and demos,
// as CSV (comma or pipe) or Parquet.
// Usage: go run ./cmd/mkfixture --out testdata/claims.csv --rows 200 --delim pipe
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	goparquet "github.com/parquet-go/parquet-go"

	"github.com/gyeh/claimtrack/internal/model"
)

var (
	patients = []string{"Jane Doe", "John Smith", "Maria Garcia", "Wei Chen", "Aisha Khan", "Liam O'Brien"}
	insurers = []string{"Acme Health", "Umbrella Mutual", "Blue Harbor", "Sentinel Care"}
	statuses = []string{"Denied", "Paid", "Under Review"}
	reasons  = []string{"", "Not covered", "Late filing", "Missing documentation"}
	cptSets  = []string{"99213", "99214,99215", "99203", "99213,99354"}
)

func main() {
	out := flag.String("out", "testdata/claims.csv", "output path (.csv or .parquet)")
	rows := flag.Int("rows", 200, "number of claim rows")
	delim := flag.String("delim", "comma", "csv delimiter: comma or pipe")
	seed := flag.Int64("seed", 1, "rng seed")
	sparse := flag.Float64("sparse", 0.2, "fraction of optional fields left blank")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if strings.HasSuffix(*out, ".parquet") {
		if err := writeParquet(*out, *rows, rng, *sparse); err != nil {
			fmt.Fprintf(os.Stderr, "write parquet: %v\n", err)
			os.Exit(1)
		}
	} else {
		sep := ","
		if *delim == "pipe" {
			sep = "|"
		}
		if err := writeCSV(*out, *rows, rng, *sparse, sep); err != nil {
			fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Wrote %d rows to %s\n", *rows, *out)
}

type fixtureRow struct {
	claimID       string
	patientName   string
	billedAmount  string
	paidAmount    string
	status        string
	insurerName   string
	dischargeDate string
	cptCodes      string
	denialReason  string
}

func makeRow(i int, rng *rand.Rand, sparse float64) fixtureRow {
	blank := func(s string) string {
		if rng.Float64() < sparse {
			return ""
		}
		return s
	}
	billed := float64(rng.Intn(500000)) / 100
	paid := billed * rng.Float64()
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rng.Intn(365))

	return fixtureRow{
		claimID:       fmt.Sprintf("%d", 30001+i),
		patientName:   blank(patients[rng.Intn(len(patients))]),
		billedAmount:  fmt.Sprintf("%.2f", billed),
		paidAmount:    blank(fmt.Sprintf("%.2f", paid)),
		status:        blank(statuses[rng.Intn(len(statuses))]),
		insurerName:   blank(insurers[rng.Intn(len(insurers))]),
		dischargeDate: blank(date.Format("2006-01-02")),
		cptCodes:      blank(cptSets[rng.Intn(len(cptSets))]),
		denialReason:  reasons[rng.Intn(len(reasons))],
	}
}

func writeCSV(path string, rows int, rng *rand.Rand, sparse float64, sep string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cols := []string{"claim_id", "patient_name", "billed_amount", "paid_amount",
		"status", "insurer_name", "discharge_date", "cpt_codes", "denial_reason"}
	if _, err := fmt.Fprintln(f, strings.Join(cols, sep)); err != nil {
		return err
	}
	for i := 0; i < rows; i++ {
		r := makeRow(i, rng, sparse)
		fields := []string{r.claimID, r.patientName, r.billedAmount, r.paidAmount,
			r.status, r.insurerName, r.dischargeDate, r.cptCodes, r.denialReason}
		if _, err := fmt.Fprintln(f, strings.Join(fields, sep)); err != nil {
			return err
		}
	}
	return nil
}

func writeParquet(path string, rows int, rng *rand.Rand, sparse float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opt := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	records := make([]model.ClaimParquetRow, 0, rows)
	for i := 0; i < rows; i++ {
		r := makeRow(i, rng, sparse)
		var billed, paid *float64
		if r.billedAmount != "" {
			v := parseF(r.billedAmount)
			billed = &v
		}
		if r.paidAmount != "" {
			v := parseF(r.paidAmount)
			paid = &v
		}
		records = append(records, model.ClaimParquetRow{
			ClaimID:       r.claimID,
			PatientName:   opt(r.patientName),
			BilledAmount:  billed,
			PaidAmount:    paid,
			Status:        opt(r.status),
			InsurerName:   opt(r.insurerName),
			DischargeDate: opt(r.dischargeDate),
			CPTCodes:      opt(r.cptCodes),
			DenialReason:  opt(r.denialReason),
		})
	}

	w := goparquet.NewGenericWriter[model.ClaimParquetRow](f)
	if _, err := w.Write(records); err != nil {
		return err
	}
	return w.Close()
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
