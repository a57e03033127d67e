package app

import "github.com/rs/zerolog"

// Stage is a step of the publish state machines.
type Stage int

const (
	StageUploading Stage = iota
	StageConfirming
	StageAwaitingProcessing
	StageRelocating
	StageTidying
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageUploading:
		return "uploading"
	case StageConfirming:
		return "confirming"
	case StageAwaitingProcessing:
		return "awaiting processing"
	case StageRelocating:
		return "relocating"
	case StageTidying:
		return "tidying"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event reports a state change or a polling attempt.
type Event struct {
	Op          string
	Stage       Stage
	Attempt     int
	MaxAttempts int
	PostID      string
	Err         error
}

// Observer receives publish progress.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

// LogObserver writes progress to a logger.
func LogObserver(logger zerolog.Logger) Observer {
	return ObserverFunc(func(e Event) {
		ev := logger.Info()
		if e.Stage == StageFailed {
			ev = logger.Error().Err(e.Err)
		}
		if e.Attempt > 0 {
			ev = ev.Int("attempt", e.Attempt).Int("max", e.MaxAttempts)
		}
		if e.PostID != "" {
			ev = ev.Str("id", e.PostID)
		}
		ev.Str("op", e.Op).Msg(e.Stage.String())
	})
}
