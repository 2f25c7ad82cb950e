package exec

import (
	"context"
	"log/slog"
	"strings"

	"gamecodin/internal/domain"
)

// DegradedOutput is what a player sees when every execution attempt failed.
// A failed engine never surfaces as an error to the caller; the validator
// just counts as not passed.
const DegradedOutput = "Internal error"

// Runner executes one job on the execution engine
type Runner interface {
	Execute(ctx context.Context, language, version, code, stdin string) (string, error)
}

// Grader runs player code against validators. It absorbs transient engine
// failures by retrying and degrades to a failed result instead of returning
// an error, so callers never have to handle a grading fault.
type Grader struct {
	runner     Runner
	retryLimit int
	logger     *slog.Logger
}

// NewGrader creates a grader. retryLimit is the total number of execution
// attempts per validator before degrading.
func NewGrader(runner Runner, retryLimit int, logger *slog.Logger) *Grader {
	if retryLimit < 1 {
		retryLimit = 1
	}
	return &Grader{
		runner:     runner,
		retryLimit: retryLimit,
		logger:     logger,
	}
}

// Check runs code against one validator and reports whether the output
// matched, along with the captured output. On persistent engine failure it
// returns (false, DegradedOutput).
func (g *Grader) Check(ctx context.Context, code string, language domain.Language, validator domain.Validator) (bool, string) {
	for attempt := 0; attempt < g.retryLimit; attempt++ {
		output, err := g.runner.Execute(ctx, language.Name, language.Version, code, validator.Input)
		if err != nil {
			g.logger.Warn("execution attempt failed",
				"language", language.Name,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}
		return OutputsMatch(output, validator.Output), output
	}

	return false, DegradedOutput
}

// OutputsMatch compares program output to the expected output. One trailing
// newline is stripped from each side; everything else is exact.
func OutputsMatch(got, want string) bool {
	return strings.TrimSuffix(got, "\n") == strings.TrimSuffix(want, "\n")
}
