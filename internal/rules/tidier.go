package rules

import (
	"fmt"

	"github.com/temirov/fop/internal/warnings"
)

// Tidier canonicalizes single rules. The zero value discards warnings and keeps uBO option names.
type Tidier struct {
	// ConvertUBOOptions rewrites uBlock Origin option aliases to Adblock Plus names.
	ConvertUBOOptions bool
	// Warnings receives advisory messages about unknown options and invalid domains.
	Warnings warnings.Sink
}

// NewTidier creates a tidier reporting to warningSink.
func NewTidier(convertUBOOptions bool, warningSink warnings.Sink) *Tidier {
	return &Tidier{ConvertUBOOptions: convertUBOOptions, Warnings: warningSink}
}

func (tidier *Tidier) warn(format string, arguments ...any) {
	if tidier.Warnings == nil {
		return
	}
	tidier.Warnings.Emit(fmt.Sprintf(format, arguments...))
}
