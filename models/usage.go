package models

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/usage_reports/utils"
)

// UsageRecord is one reconciled row of usage data. Identity fields are
// normalized text; context fields come from the file name and sheet name.
type UsageRecord struct {
	ServiceName      string
	Type             string
	Size             string
	ApplicationName  string
	Month            string
	HoursUsed        decimal.Decimal
	OrganizationName string
	Year             int
	WorkspaceGroup   string
	UniqueID         string
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
}

// UsageFileMeta carries the metadata encoded in a usage file name
// (<ORG>_<MM>_<YYYY>_Usage.<ext>). Organization and year come from the file
// name only, never from file contents.
type UsageFileMeta struct {
	FileName         string
	OrganizationName string
	Month            int
	Year             int
}

var usageFilePattern = regexp.MustCompile(`^(.+?)_(\d{2})_(\d{4})_Usage\.(?i:xlsx|xlsm)$`)

// ParseUsageFileName extracts organization and year from a usage file name.
// Names that don't match the convention return utils.ErrNotUsageFile so
// discovery can skip them without treating them as failures.
func ParseUsageFileName(name string) (UsageFileMeta, error) {
	m := usageFilePattern.FindStringSubmatch(name)
	if m == nil {
		return UsageFileMeta{}, utils.ErrNotUsageFile
	}
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return UsageFileMeta{
		FileName:         name,
		OrganizationName: m[1],
		Month:            month,
		Year:             year,
	}, nil
}

var totalSheetPattern = regexp.MustCompile(`^TOTAL .* \d{4}$`)

// IsTotalSheet reports whether a sheet is a pre-existing rollup sheet
// ("TOTAL <anything> <year>") in the source data that must not be
// re-ingested.
func IsTotalSheet(name string) bool {
	return totalSheetPattern.MatchString(strings.ToUpper(name))
}
