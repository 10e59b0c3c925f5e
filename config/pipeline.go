package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultUploadDir   = "uploads"
	defaultOutputDir   = "outputs"
	defaultPriceFile   = "Price.xlsx"
	summaryOutputName  = "Summary_Output.xlsx"
	detailedOutputName = "Detailed_Output.xlsx"
)

// RoundTotalPrice controls whether TOTAL PRICE is rounded to the nearest
// integer. Enabled unless explicitly turned off.
//
// Set via env:
// - ROUND_TOTAL_PRICE=false
func RoundTotalPrice() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ROUND_TOTAL_PRICE")))
	if v == "" {
		return true
	}
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// GetUploadDir returns the staging directory usage and price files are
// uploaded into.
//
// Set via env:
// - UPLOAD_DIR=/var/data/uploads
func GetUploadDir() string {
	if dir := strings.TrimSpace(os.Getenv("UPLOAD_DIR")); dir != "" {
		return dir
	}
	return defaultUploadDir
}

// GetOutputDir returns the directory both report artifacts are written to.
//
// Set via env:
// - OUTPUT_DIR=/var/data/outputs
func GetOutputDir() string {
	if dir := strings.TrimSpace(os.Getenv("OUTPUT_DIR")); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// GetPriceFilePath returns the expected location of the price workbook
// inside the upload directory.
func GetPriceFilePath() string {
	return filepath.Join(GetUploadDir(), defaultPriceFile)
}

// GetSummaryOutputPath returns the path of the summary report artifact.
func GetSummaryOutputPath() string {
	return filepath.Join(GetOutputDir(), summaryOutputName)
}

// GetDetailedOutputPath returns the path of the detailed report artifact.
func GetDetailedOutputPath() string {
	return filepath.Join(GetOutputDir(), detailedOutputName)
}
