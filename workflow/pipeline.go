package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"bitbucket.org/mmdatafocus/usage_reports/config"
	"bitbucket.org/mmdatafocus/usage_reports/models"
	"bitbucket.org/mmdatafocus/usage_reports/models/reports"
	"bitbucket.org/mmdatafocus/usage_reports/utils"
)

// RunOptions configures one pipeline execution. The rounding policy is
// threaded through explicitly so both policies can be exercised in the same
// process.
type RunOptions struct {
	InputDir     string `validate:"required"`
	PriceFile    string `validate:"required"`
	SummaryPath  string `validate:"required"`
	DetailedPath string `validate:"required"`
	RoundTotals  bool
}

// RunResult summarizes one pipeline execution.
type RunResult struct {
	FilesProcessed int
	FilesSkipped   int
	SheetsSkipped  int
	Rows           int
	SummaryPath    string
	DetailedPath   string
}

var validate = validator.New()

// Run executes the reconciliation pipeline synchronously: load the price
// catalog, parse every usage workbook in the input directory, aggregate,
// and write both report artifacts. Both workbooks are fully built in memory
// before either is saved, so a failed run never leaves a partial artifact
// behind.
func Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	logger := config.GetLogger()
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

	if err := validate.Struct(opts); err != nil {
		return nil, &models.ConfigurationError{Reason: "missing required run options: " + err.Error()}
	}

	entries, err := os.ReadDir(opts.InputDir)
	if err != nil {
		return nil, &models.ConfigurationError{Reason: fmt.Sprintf("cannot read input directory %s: %v", opts.InputDir, err)}
	}

	catalog, err := models.LoadPriceCatalog(opts.PriceFile)
	if err != nil {
		config.LogError(logger, "workflow", "Run", "load price catalog", opts.PriceFile, err)
		return nil, err
	}
	logger.WithFields(logrus.Fields{
		"module":         "workflow",
		"correlation_id": correlationId,
		"price_file":     opts.PriceFile,
		"catalog_size":   len(catalog),
	}).Info("price catalog loaded")

	priceBase := filepath.Base(opts.PriceFile)
	result := &RunResult{SummaryPath: opts.SummaryPath, DetailedPath: opts.DetailedPath}
	var groups []models.DetailGroup
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == priceBase {
			continue
		}
		meta, err := models.ParseUsageFileName(entry.Name())
		if errors.Is(err, utils.ErrNotUsageFile) {
			// Staging directories may hold other exports; not an error.
			result.FilesSkipped++
			continue
		} else if err != nil {
			return nil, err
		}
		fileGroups, skippedSheets, err := models.ParseUsageWorkbook(filepath.Join(opts.InputDir, entry.Name()), meta, catalog, opts.RoundTotals)
		if err != nil {
			config.LogError(logger, "workflow", "Run", "parse usage workbook", entry.Name(), err)
			return nil, err
		}
		result.FilesProcessed++
		result.SheetsSkipped += skippedSheets
		groups = append(groups, fileGroups...)
	}
	if result.FilesProcessed == 0 {
		return nil, &models.ConfigurationError{Reason: fmt.Sprintf("no usage files found in %s", opts.InputDir)}
	}
	// A pair that spans several usage files (one file per month) still gets
	// a single detailed-report sheet.
	groups = models.MergeDetailGroups(groups)

	var consolidated []*models.UsageRecord
	for _, group := range groups {
		consolidated = append(consolidated, group.Records...)
	}
	if len(consolidated) == 0 {
		return nil, &models.ConfigurationError{Reason: fmt.Sprintf("usage files in %s contain no usage rows", opts.InputDir)}
	}
	result.Rows = len(consolidated)
	models.SortByTotalPriceDesc(consolidated)

	orgSummary := models.BuildOrganizationSummary(consolidated)
	appSummary := models.BuildApplicationSummary(consolidated)
	componentUsage := models.BuildComponentUsageSummary(consolidated)

	summaryFile, err := reports.BuildSummaryWorkbook(consolidated, orgSummary, appSummary, componentUsage)
	if err != nil {
		config.LogError(logger, "workflow", "Run", "build summary workbook", nil, err)
		return nil, err
	}
	detailedFile, err := reports.BuildDetailedWorkbook(groups)
	if err != nil {
		config.LogError(logger, "workflow", "Run", "build detailed workbook", nil, err)
		return nil, err
	}

	for _, dir := range []string{filepath.Dir(opts.SummaryPath), filepath.Dir(opts.DetailedPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &models.ConfigurationError{Reason: fmt.Sprintf("cannot create output directory %s: %v", dir, err)}
		}
	}
	if err := summaryFile.SaveAs(opts.SummaryPath); err != nil {
		return nil, fmt.Errorf("cannot write summary report %s: %w", opts.SummaryPath, err)
	}
	if err := detailedFile.SaveAs(opts.DetailedPath); err != nil {
		return nil, fmt.Errorf("cannot write detailed report %s: %w", opts.DetailedPath, err)
	}

	logger.WithFields(logrus.Fields{
		"module":          "workflow",
		"correlation_id":  correlationId,
		"files_processed": result.FilesProcessed,
		"files_skipped":   result.FilesSkipped,
		"sheets_skipped":  result.SheetsSkipped,
		"rows":            result.Rows,
		"summary_path":    result.SummaryPath,
		"detailed_path":   result.DetailedPath,
	}).Info("reports written")
	return result, nil
}
