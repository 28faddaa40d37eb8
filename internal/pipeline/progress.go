package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Stage names emitted as progress events, in pipeline order.
const (
	StageSearch  = "search"
	StageDedupe  = "dedupe"
	StageEnrich  = "enrich"
	StageScore   = "score"
	StagePersist = "persist"
)

// ProgressFunc receives stage-boundary events. Emission is strictly
// best-effort: errors are logged at debug level and never fail the
// run.
type ProgressFunc func(model.ProgressEvent) error

func (p *Pipeline) emit(stage string, processed, total int) {
	if p.progress == nil {
		return
	}
	event := model.ProgressEvent{
		Stage:     stage,
		Processed: processed,
		Total:     total,
		Timestamp: time.Now().UTC(),
	}
	if err := p.progress(event); err != nil {
		zap.L().Debug("progress emission failed",
			zap.String("stage", stage),
			zap.Error(err),
		)
	}
}
