// Package validation checks financial datasets and investment projects for
// structural and domain integrity before they reach the numeric engines.
//
// Validators report the first violation found as a Result; they never panic
// and never substitute defaults for bad input.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-analysis/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatXLSX:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatXLSX, format)
}
