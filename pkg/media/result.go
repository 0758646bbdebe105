package media

import (
	"fmt"
	"log"
)

// Result is the output of a translation pass.
type Result struct {
	Content  string
	Replaced int      // macros or placeholders translated
	Warnings []string // fail-soft conditions met during the pass
}

// AddWarning logs a warning and stores it in the result.
func (r *Result) AddWarning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	log.Printf("WARN: "+format, args...)
}
