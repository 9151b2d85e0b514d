package ports

import (
	"context"

	"github.com/alejandrodnm/tradersim/internal/domain"
)

// Reporter presents run progress to the user.
type Reporter interface {
	// ReportCurves shows the synthesized equity curves before records are written.
	ReportCurves(ctx context.Context, curves []domain.CurveSummary) error

	// ReportRun shows what the run wrote.
	ReportRun(ctx context.Context, run domain.RunSummary) error
}
