package entities

// Phase is a step of an orchestrated run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConfiguringRemote
	PhaseSyncing
	PhaseUploading
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConfiguringRemote:
		return "configuring-remote"
	case PhaseSyncing:
		return "syncing"
	case PhaseUploading:
		return "uploading"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunState is the ephemeral state of a single run. It is owned by the run
// that created it and discarded when the run ends.
type RunState struct {
	Phase    Phase
	Progress float64
	Log      []string
	Success  bool
	Sync     *SyncReport
	Upload   *UploadResult
	Err      error // cause of a failed run or of an unsuccessful upload
}

// NewRunState creates the state of a run that has not started yet.
func NewRunState() *RunState {
	return &RunState{Phase: PhaseIdle}
}

// Terminal reports whether the run reached Done or Failed.
func (s *RunState) Terminal() bool {
	return s.Phase == PhaseDone || s.Phase == PhaseFailed
}
