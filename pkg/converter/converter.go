// Package converter is the library entry point for translating the enum
// declarations of one language's source tree into another language.
package converter

import (
	"context"
)

// Convert validates opts, runs a single conversion and returns its report.
// Fatal problems (invalid options, a failed Git query, cancellation) are
// returned as the error; everything file-specific is in the Report.
func Convert(ctx context.Context, opts Options) (Report, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		return Report{}, err
	}
	return engine.Run(ctx)
}
