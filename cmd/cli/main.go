package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"statadvisor/adapters/excel"
	"statadvisor/app"
	"statadvisor/domain/core"
	"statadvisor/domain/table"
	"statadvisor/internal"
	"statadvisor/internal/coerce"
	"statadvisor/internal/config"
)

// Runs one hypothesis test against a data file from the command line.
//
//	statadvisor-cli -file data.csv -test independent-t-test -first group -second score
func main() {
	_ = godotenv.Load()

	var (
		filePath  = flag.String("file", "", "path to a .csv or .xlsx data file")
		testID    = flag.String("test", "", "catalog identifier of the test to run")
		first     = flag.String("first", "", "first column (group labels or predictor)")
		second    = flag.String("second", "", "second column (measurements or outcome)")
		listTests = flag.Bool("list", false, "list the available tests and exit")
		asJSON    = flag.Bool("json", false, "emit the raw result as JSON")
	)
	flag.Parse()

	logger := internal.NewDefaultLogger()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	svc := app.NewAdvisorService(cfg, logger)

	if *listTests {
		for _, def := range svc.AllTests() {
			fmt.Printf("%-26s %s\n", def.ID, def.Name)
		}
		return
	}

	if *filePath == "" || *testID == "" || *first == "" || *second == "" {
		flag.Usage()
		os.Exit(2)
	}

	reader := excel.NewReader(
		coerce.New(cfg.Data.DecimalSeparator),
		table.Limits{MaxRows: cfg.Data.MaxRows, MaxColumns: cfg.Data.MaxColumns},
	)
	ds, err := reader.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("loading %s: %v", *filePath, err)
	}

	result, err := svc.RunTest(context.Background(), *testID, ds, core.ColumnKey(*first), core.ColumnKey(*second))
	if err != nil {
		log.Fatalf("%s: %v", *testID, err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encoding result: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("%s\n\n", result.TestName)
	formatted := result.FormattedStatistics()
	names := make([]string, 0, len(formatted))
	for name := range formatted {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %s\n", name, formatted[name])
	}
	if result.EffectSize != nil {
		fmt.Printf("  %-16s %.4f (%s)\n", result.EffectSize.Name, result.EffectSize.Value, result.EffectSize.Interpretation)
	}
	if result.Confidence != nil {
		fmt.Printf("  %.0f%% CI          [%.4f, %.4f]\n", result.Confidence.Level*100, result.Confidence.Lower, result.Confidence.Upper)
	}
	fmt.Printf("\n%s\n", result.Interpretation)
	for _, rec := range result.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
