package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/usage_reports/models"
)

// Workbook sheet names are capped at 31 characters.
const maxSheetNameLen = 31

// BuildDetailedWorkbook renders one sheet per (organization, workspace
// group) pair, rows exactly as reconciled. Sheet names are truncated to the
// workbook limit; truncation collisions get a numeric suffix instead of
// silently overwriting the earlier pair's sheet.
func BuildDetailedWorkbook(groups []models.DetailGroup) (*excelize.File, error) {
	f := excelize.NewFile()
	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool)
	for i, group := range groups {
		name := sheetNameFor(group.OrganizationName+"_"+group.WorkspaceGroup, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, err
			}
		}
		if err := writeDataSheet(f, name, usageHeaders, usageRows(group.Records), styles.header); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// sheetNameFor truncates a sheet name to the workbook limit and, when the
// truncated name is already taken, appends ~1, ~2, ... (the first occupant
// keeps the plain truncated name).
func sheetNameFor(base string, used map[string]bool) string {
	name := truncateRunes(base, maxSheetNameLen)
	if !used[name] {
		used[name] = true
		return name
	}
	for i := 1; ; i++ {
		suffix := fmt.Sprintf("~%d", i)
		candidate := truncateRunes(name, maxSheetNameLen-len(suffix)) + suffix
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
