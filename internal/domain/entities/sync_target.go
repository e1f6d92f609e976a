package entities

// SyncTarget is one leaf folder to reconcile: either a game folder or a
// game/user subfolder. Label is the game name, shared by every target of
// the same game.
type SyncTarget struct {
	RemotePath string
	LocalPath  string
	Label      string
}

// SyncReport summarizes one tree walk.
type SyncReport struct {
	GameFolders    []string
	Targets        int
	FetchedFiles   []string // remote paths fetched successfully
	UpdatedLabels  []string
	SkippedFolders []string
	FailedFiles    []string
}
