// Command print_prorate prints the pro-rated income tax bands for every
// period of a tax year, for checking against HMRC's published tables.
//
//	go run ./tools/print_prorate -date 2025-06-30 -country scotland -frequency monthly
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ukpaye/payroll-engine/internal/calculation"
	"github.com/ukpaye/payroll-engine/internal/config"
	"github.com/ukpaye/payroll-engine/internal/domain"
	"github.com/ukpaye/payroll-engine/internal/refdata"
	"github.com/ukpaye/payroll-engine/pkg/dateutil"
)

func main() {
	dateFlag := flag.String("date", time.Now().Format("2006-01-02"), "date in the tax year to print")
	countryFlag := flag.String("country", "england", "country whose bands to print")
	freqFlag := flag.String("frequency", "monthly", "pay frequency")
	flag.Parse()

	date, err := time.Parse("2006-01-02", *dateFlag)
	if err != nil {
		log.Fatal(err)
	}
	country, err := domain.ParseCountry(*countryFlag)
	if err != nil {
		log.Fatal(err)
	}
	freq, err := domain.ParsePayFrequency(*freqFlag)
	if err != nil {
		log.Fatal(err)
	}

	rd, err := config.DefaultReferenceData()
	if err != nil {
		log.Fatal(err)
	}
	data, err := refdata.Resolve(domain.CollectionTaxBands, rd.TaxBands, date, country)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s %s bands, %s\n\n", country, freq, dateutil.TaxYearLabel(dateutil.TaxYearEnding(date)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(w, "Period\t")
	for _, b := range data.Bands.Bands {
		if !b.IsOpen() {
			fmt.Fprintf(w, "%s to\t%s tax\t", b.Name, b.Name)
		}
	}
	fmt.Fprintln(w)

	for period := 1; period <= freq.PeriodsPerYear(); period++ {
		set, err := calculation.Prorate(data.Bands, freq, period)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(w, "%d\t", period)
		for _, b := range set.Bands {
			if !b.Open {
				fmt.Fprintf(w, "%s\t%s\t", b.PeriodThreshold.StringFixed(4), b.PeriodTax.StringFixed(4))
			}
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		log.Fatal(err)
	}
}
