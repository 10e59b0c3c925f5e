package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bitbucket.org/mmdatafocus/usage_reports/config"
	"bitbucket.org/mmdatafocus/usage_reports/workflow"
)

func main() {
	inputDir := flag.String("input-dir", config.GetUploadDir(), "Directory holding the price workbook and usage workbooks")
	priceFile := flag.String("price-file", config.GetPriceFilePath(), "Path to the price workbook")
	summaryOut := flag.String("summary-out", config.GetSummaryOutputPath(), "Path of the summary report artifact")
	detailedOut := flag.String("detailed-out", config.GetDetailedOutputPath(), "Path of the detailed report artifact")
	round := flag.Bool("round", config.RoundTotalPrice(), "Round TOTAL PRICE to the nearest integer")
	flag.Parse()

	result, err := workflow.Run(context.Background(), workflow.RunOptions{
		InputDir:     *inputDir,
		PriceFile:    *priceFile,
		SummaryPath:  *summaryOut,
		DetailedPath: *detailedOut,
		RoundTotals:  *round,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("processed %d usage file(s), %d row(s); skipped %d file(s), %d rollup sheet(s)\n",
		result.FilesProcessed, result.Rows, result.FilesSkipped, result.SheetsSkipped)
	fmt.Println("summary report:", result.SummaryPath)
	fmt.Println("detailed report:", result.DetailedPath)
}
