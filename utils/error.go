package utils

import "errors"

// ErrNotUsageFile marks a file in the input directory whose name does not
// match the usage filename convention. Discovery skips these silently.
var ErrNotUsageFile = errors.New("file name does not match the usage file pattern")
