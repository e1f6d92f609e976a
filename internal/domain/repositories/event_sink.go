package repositories

// EventSink receives the log and progress events of a run. It is the only
// channel from the run to whatever presents it.
type EventSink interface {
	OnLog(message string)
	OnProgress(fraction float64)
	OnRunStateChanged(canStart bool)
}
