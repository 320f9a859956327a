package drawing

import (
	"log/slog"

	"github.com/Chaitanyahoon/DeceptionDoodle/internal/entity"
	"github.com/Chaitanyahoon/DeceptionDoodle/internal/protocol"
)

// Replayer applies relayed drawing events to a local surface. A fill
// sentinel re-runs the flood-fill algorithm at the carried origin instead
// of receiving pixel data; undo pops the surface's own snapshot history.
type Replayer struct {
	logger  *slog.Logger
	surface Surface
}

func NewReplayer(logger *slog.Logger, surface Surface) *Replayer {
	return &Replayer{
		logger:  logger.With("component", "replayer"),
		surface: surface,
	}
}

func (that *Replayer) Apply(msg protocol.Message) {
	log := that.logger.With("method", "Apply")

	switch msg.Type {
	case protocol.KindStrokeStart:
		that.surface.PushSnapshot()
	case protocol.KindDrawStroke:
		var stroke entity.Stroke
		if err := msg.Decode(&stroke); err != nil {
			log.Debug("dropping malformed stroke", "error", err)
			return
		}

		that.apply(stroke)
	case protocol.KindStrokeBatch:
		var batch entity.StrokeBatch
		if err := msg.Decode(&batch); err != nil {
			log.Debug("dropping malformed batch", "error", err)
			return
		}

		for _, stroke := range batch.Strokes {
			that.apply(stroke)
		}
	case protocol.KindUndoStroke:
		that.surface.Undo()
	}
}

func (that *Replayer) apply(stroke entity.Stroke) {
	if stroke.IsFill() {
		that.surface.FloodFill(stroke.ToX, stroke.ToY, stroke.Color)
		return
	}

	that.surface.DrawStroke(stroke)
}
