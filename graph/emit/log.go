// Package emit provides event emission and observability for graph execution.
package emit

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.MessageFieldName = "msg"
	zerolog.TimestampFieldName = "ts"
}

// LogEmitter implements Emitter with github.com/rs/zerolog: structured
// key=value text by default, or one JSON object per line in JSON mode.
//
//	emitter := emit.NewLogEmitter(os.Stdout, false) // human-readable
//	emitter := emit.NewLogEmitter(f, true)          // JSONL
type LogEmitter struct {
	logger zerolog.Logger
}

// NewLogEmitter creates a LogEmitter writing to writer. jsonMode
// selects raw JSONL output over zerolog's console-formatted text.
func NewLogEmitter(writer io.Writer, jsonMode bool) *LogEmitter {
	if writer == nil {
		writer = os.Stdout
	}
	out := writer
	if !jsonMode {
		out = zerolog.ConsoleWriter{Out: writer, NoColor: true, TimeFormat: ""}
	}
	return &LogEmitter{logger: zerolog.New(out)}
}

// Emit writes a single event as one log line.
func (l *LogEmitter) Emit(event Event) {
	l.logEvent(event)
}

func (l *LogEmitter) logEvent(event Event) {
	ev := l.logger.Info().
		Str("runID", event.RunID).
		Int("step", event.Step).
		Str("nodeID", event.NodeID)
	if len(event.Meta) > 0 {
		ev = ev.Interface("meta", event.Meta)
	}
	ev.Msg(event.Msg)
}

// EmitBatch writes events in order, one line each.
func (l *LogEmitter) EmitBatch(_ context.Context, events []Event) error {
	for _, event := range events {
		l.logEvent(event)
	}
	return nil
}

// Flush is a no-op: zerolog writes synchronously to the underlying
// writer with no internal buffering of its own.
func (l *LogEmitter) Flush(_ context.Context) error {
	return nil
}
