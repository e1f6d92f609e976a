package commands

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// Backup is the interface of the run orchestrator.
type Backup interface {
	Execute(ctx context.Context, settings *entities.Settings, opts BackupOptions) (*entities.RunState, error)
	Start(ctx context.Context, settings *entities.Settings, opts BackupOptions) (<-chan *entities.RunState, error)
	Running() bool
}

// BackupOptions holds runtime options for a single run.
type BackupOptions struct {
	Secret          string // cloud password; when set the remote is (re)created first
	SettingsPath    string // where settings are persisted; defaults to ~/.savemirror.yaml
	PersistSettings bool
	ReportProgress  bool
}

// NewBackupOptions returns options with settings persistence and progress
// reporting enabled.
func NewBackupOptions() BackupOptions {
	return BackupOptions{PersistSettings: true, ReportProgress: true}
}

// BackupCommand sequences one run: optional remote configuration, tree sync
// and upload. Only one run may be active per BackupCommand.
type BackupCommand struct {
	listing  repositories.ListingRepository
	mirror   repositories.MirrorRepository
	settings repositories.SettingsRepository
	sync     Sync
	upload   Upload
	sink     repositories.EventSink
	clock    clockwork.Clock

	running atomic.Bool
}

// NewBackupCommand creates a new BackupCommand.
func NewBackupCommand(
	listing repositories.ListingRepository,
	mirror repositories.MirrorRepository,
	settings repositories.SettingsRepository,
	sync Sync,
	upload Upload,
	sink repositories.EventSink,
	clock clockwork.Clock,
) *BackupCommand {
	return &BackupCommand{
		listing:  listing,
		mirror:   mirror,
		settings: settings,
		sync:     sync,
		upload:   upload,
		sink:     sink,
		clock:    clock,
	}
}

// Running reports whether a run is in progress.
func (it *BackupCommand) Running() bool {
	return it.running.Load()
}

// Execute performs a run on the calling goroutine. The returned error is set
// only when the run ended in PhaseFailed or could not start; an upload
// failure ends in PhaseDone with Success false.
func (it *BackupCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts BackupOptions,
) (*entities.RunState, error) {
	if !it.running.CompareAndSwap(false, true) {
		return nil, entities.ErrRunInProgress
	}

	return it.run(ctx, settings, opts)
}

// Start performs a run on a dedicated goroutine and delivers the final state
// on the returned channel.
func (it *BackupCommand) Start(
	ctx context.Context,
	settings *entities.Settings,
	opts BackupOptions,
) (<-chan *entities.RunState, error) {
	if !it.running.CompareAndSwap(false, true) {
		return nil, entities.ErrRunInProgress
	}

	done := make(chan *entities.RunState, 1)
	go func() {
		defer close(done)

		state, _ := it.run(ctx, settings, opts)
		done <- state
	}()

	return done, nil
}

// run expects the guard to be held by the caller and releases it before
// announcing that a new run can start.
func (it *BackupCommand) run(
	ctx context.Context,
	settings *entities.Settings,
	opts BackupOptions,
) (*entities.RunState, error) {
	state := entities.NewRunState()
	events := newRunEvents(it.sink, state, opts.ReportProgress)
	started := it.clock.Now()

	events.runStateChanged(false)
	events.progress(0)
	events.log("[*] Starting backup...")
	defer func() {
		events.resetProgress()
		it.running.Store(false)
		events.runStateChanged(true)
		logger.Debugf("Run finished in %s (phase: %s, success: %t)",
			it.clock.Since(started), state.Phase, state.Success)
	}()

	if err := settings.Validate(); err != nil {
		events.log(fmt.Sprintf("[!] %v", err))
		return it.fail(state, err)
	}

	it.upload.UseTool(settings.RcloneBinary, settings.RcloneFlags)

	if opts.PersistSettings {
		it.persist(settings, opts.SettingsPath, events)
	}

	if strings.TrimSpace(opts.Secret) != "" {
		state.Phase = entities.PhaseConfiguringRemote
		events.log("[*] Creating rclone config...")
		if err := it.upload.ConfigureRemote(ctx, settings.RemoteLabel, settings.CredentialEmail, opts.Secret); err != nil {
			events.log(fmt.Sprintf("[✗] Failed to create rclone config: %v", err))
			events.log("[✗] Could not create rclone config. Check credentials.")
			return it.fail(state, err)
		}
		events.log(fmt.Sprintf("[✓] Rclone config '%s' created.", settings.RemoteLabel))
	} else {
		events.log("[*] Using existing rclone config.")
	}

	state.Phase = entities.PhaseSyncing
	mirrorRoot := settings.MirrorRoot()
	if err := it.mirror.EnsureDir(mirrorRoot); err != nil {
		events.log(fmt.Sprintf("[!] Cannot create local mirror %s: %v", mirrorRoot, err))
		return it.fail(state, fmt.Errorf("%w: %v", entities.ErrConfig, err))
	}

	report, err := it.syncTree(ctx, settings, mirrorRoot, events)
	state.Sync = report
	if err != nil {
		events.log(fmt.Sprintf("[!] Error: %v", err))
		return it.fail(state, err)
	}
	events.log("[✓] Files downloaded. Uploading to cloud...")

	state.Phase = entities.PhaseUploading
	events.progress(settings.UploadStartProgress)
	result := it.upload.Execute(ctx, mirrorRoot, settings.RemoteLabel)
	events.progress(1)
	state.Upload = &result

	if result.Success {
		events.log(fmt.Sprintf("[✓] Upload complete: %s", result.Destination))
	} else {
		events.log(fmt.Sprintf("[✗] Rclone failed to upload:\n%s", result.Diagnostics))
		state.Err = fmt.Errorf("%w: %s", entities.ErrUpload, result.Diagnostics)
	}

	state.Phase = entities.PhaseDone
	state.Success = result.Success
	return state, nil
}

// syncTree holds the remote connection for the duration of the walk and
// always closes it before returning.
func (it *BackupCommand) syncTree(
	ctx context.Context,
	settings *entities.Settings,
	mirrorRoot string,
	events *runEvents,
) (*entities.SyncReport, error) {
	events.log(fmt.Sprintf("[*] Connecting to Switch %s", settings.Address()))
	conn, err := it.listing.Connect(ctx, settings.Host, settings.Port, settings.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Debugf("Failed to close connection to %s: %v", settings.Address(), closeErr)
		}
	}()

	return it.sync.Execute(ctx, conn, SyncOptions{
		RemoteRoot:     settings.RemoteRoot,
		MirrorRoot:     mirrorRoot,
		DownloadBudget: settings.DownloadBudget,
	}, events)
}

func (it *BackupCommand) persist(settings *entities.Settings, path string, events *runEvents) {
	if path == "" {
		path = entities.DefaultSettingsPath()
	}
	if err := it.settings.Save(path, settings); err != nil {
		events.log(fmt.Sprintf("[!] Failed to save config: %v", err))
	}
}

func (it *BackupCommand) fail(state *entities.RunState, err error) (*entities.RunState, error) {
	state.Phase = entities.PhaseFailed
	state.Success = false
	state.Err = err
	return state, err
}

// runEvents forwards events to the sink while recording them on the run state.
// It implements repositories.EventSink so the sync engine can report through it.
type runEvents struct {
	sink           repositories.EventSink
	state          *entities.RunState
	reportProgress bool
}

var _ repositories.EventSink = (*runEvents)(nil)

func newRunEvents(sink repositories.EventSink, state *entities.RunState, reportProgress bool) *runEvents {
	return &runEvents{sink: sink, state: state, reportProgress: reportProgress}
}

func (e *runEvents) log(message string) { e.OnLog(message) }

func (e *runEvents) progress(fraction float64) { e.OnProgress(fraction) }

func (e *runEvents) runStateChanged(canStart bool) { e.OnRunStateChanged(canStart) }

// resetProgress tells the sink the run is over without erasing the last
// recorded fraction from the state.
func (e *runEvents) resetProgress() {
	if e.reportProgress {
		e.sink.OnProgress(0)
	}
}

func (e *runEvents) OnLog(message string) {
	e.state.Log = append(e.state.Log, message)
	e.sink.OnLog(message)
}

func (e *runEvents) OnProgress(fraction float64) {
	e.state.Progress = fraction
	if e.reportProgress {
		e.sink.OnProgress(fraction)
	}
}

func (e *runEvents) OnRunStateChanged(canStart bool) {
	e.sink.OnRunStateChanged(canStart)
}
