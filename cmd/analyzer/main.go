// Command analyzer runs the carbon pipeline over a single campaign export
// from the command line and prints the summary, optionally writing row and
// report exports next to it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"carbon-intel/campaign-portal/campaign-portal-backend/internal/analysis"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/export"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/factors"
	"carbon-intel/campaign-portal/campaign-portal-backend/internal/ingest"
)

func main() {
	var (
		inPath      = flag.String("in", "", "campaign export to analyze (.csv, .tsv, .xlsx)")
		factorsPath = flag.String("factors", "", "optional factor tables JSON (defaults built in)")
		mode        = flag.String("mode", "weighted", "aggregation mode: weighted or row-mean")
		outCSV      = flag.String("out-csv", "", "write classified rows as CSV")
		outXLSX     = flag.String("out-xlsx", "", "write full workbook")
		outPDF      = flag.String("out-pdf", "", "write summary report PDF")
	)
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	tables := factors.Defaults()
	if *factorsPath != "" {
		var err error
		tables, err = factors.Load(*factorsPath)
		if err != nil {
			logger.Fatal("Failed to load factor tables", zap.Error(err))
		}
	}

	file, err := os.Open(*inPath)
	if err != nil {
		logger.Fatal("Failed to open input", zap.Error(err))
	}
	defer file.Close()

	dataset, err := ingest.ReadFile(*inPath, file)
	if err != nil {
		logger.Fatal("Failed to parse input", zap.Error(err))
	}

	opts := analysis.Options{Aggregation: analysis.AggregationMode(*mode), KeepRawValues: false}
	service := analysis.NewService(tables, opts, nil, logger)

	result, err := service.Analyze(context.Background(), *inPath, dataset)
	if err != nil {
		logger.Fatal("Analysis failed", zap.Error(err))
	}

	printSummary(result)

	if *outCSV != "" {
		writeExport(logger, *outCSV, func(f *os.File) error {
			return export.WriteCSV(f, result, export.DefaultCSVOptions())
		})
	}
	if *outXLSX != "" {
		writeExport(logger, *outXLSX, func(f *os.File) error {
			return export.WriteExcel(f, result, export.DefaultExcelOptions())
		})
	}
	if *outPDF != "" {
		writeExport(logger, *outPDF, func(f *os.File) error {
			return export.WritePDF(f, result, export.DefaultPDFOptions())
		})
	}
}

func printSummary(result *analysis.Result) {
	s := result.Summary
	fmt.Printf("\nCampaign Carbon Summary\n")
	fmt.Printf("  Impressions:      %d\n", s.TotalImpressions)
	fmt.Printf("  Emissions:        %.2f kg CO2\n", s.TotalEmissionsKg)
	fmt.Printf("  Global gCO2PM:    %.2f (%s)\n", s.GlobalGCO2PM, s.Benchmark)
	fmt.Printf("  Data volume:      %.2f GB\n", s.DataVolumeGB)
	fmt.Printf("  Carbon cost:      %.2f EUR\n", s.CarbonCostEUR)
	fmt.Printf("  Rows:             %d analyzed, %d excluded, %d total rows removed\n",
		s.RowsAnalyzed, s.RowsExcluded, s.TotalRowsSeen)
	if s.ReportedImpressions > 0 {
		fmt.Printf("  TOTAL row:        %d reported (delta vs detail %+d)\n",
			s.ReportedImpressions, s.DetailDelta)
	}

	fmt.Printf("\nBy format:\n")
	for _, fb := range s.Formats {
		fmt.Printf("  %-20s %12d imps  %10.3f kg  %8.2f gCO2PM  %5.1f%%\n",
			fb.Format, fb.Impressions, fb.EmissionsKg, fb.GCO2PM, fb.EmissionShare*100)
	}

	fmt.Printf("\nScenarios:\n")
	for _, sc := range result.Scenarios {
		fmt.Printf("  %-28s -%3.0f%%  -> %8.2f gCO2PM  (saves %.3f kg)\n",
			sc.Name, sc.ReductionPct, sc.ProjectedGCO2PM, sc.SavedKg)
	}
	fmt.Println()
}

func writeExport(logger *zap.Logger, path string, write func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		logger.Fatal("Failed to create export file", zap.String("path", path), zap.Error(err))
	}
	defer f.Close()
	if err := write(f); err != nil {
		logger.Fatal("Failed to write export", zap.String("path", path), zap.Error(err))
	}
	logger.Info("Export written", zap.String("path", path))
}
