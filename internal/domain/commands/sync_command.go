package commands

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/samber/lo"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// Sync is the interface of the tree sync engine.
type Sync interface {
	Execute(
		ctx context.Context,
		conn repositories.Connection,
		opts SyncOptions,
		sink repositories.EventSink,
	) (*entities.SyncReport, error)
}

// SyncOptions locates the two sides of the walk.
type SyncOptions struct {
	RemoteRoot     string
	MirrorRoot     string
	DownloadBudget float64 // share of the run's progress spent walking folders
}

// SyncCommand walks the two-level remote tree (game folders, then optional
// user subfolders) and fetches every file the mirror reports as stale.
type SyncCommand struct {
	mirror repositories.MirrorRepository
}

// NewSyncCommand creates a new SyncCommand writing into the given mirror.
func NewSyncCommand(mirror repositories.MirrorRepository) *SyncCommand {
	return &SyncCommand{mirror: mirror}
}

// Execute reconciles the whole tree. Only a failure to list the remote root
// is returned; folder, target and file failures are logged and skipped.
func (it *SyncCommand) Execute(
	ctx context.Context,
	conn repositories.Connection,
	opts SyncOptions,
	sink repositories.EventSink,
) (*entities.SyncReport, error) {
	report := &entities.SyncReport{}

	rootEntries, err := conn.ListDirectory(ctx, opts.RemoteRoot)
	if err != nil {
		return report, fmt.Errorf("listing %q: %w", opts.RemoteRoot, err)
	}

	gameFolders := directories(rootEntries)
	total := len(gameFolders)
	for i, game := range gameFolders {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		report.GameFolders = append(report.GameFolders, game.Name)
		sink.OnLog(fmt.Sprintf("[+] Processing game folder: %s", game.Name))
		sink.OnProgress(float64(i+1) / float64(total) * opts.DownloadBudget)

		remoteGameDir := path.Join(opts.RemoteRoot, game.Name)
		targets, listErr := it.resolveTargets(ctx, conn, remoteGameDir, opts.MirrorRoot, game.Name)
		if listErr != nil {
			sink.OnLog(fmt.Sprintf("[!] Skipping %s: %v", remoteGameDir, listErr))
			report.SkippedFolders = append(report.SkippedFolders, game.Name)
			continue
		}

		changed := false
		for _, target := range targets {
			report.Targets++
			if it.syncTarget(ctx, conn, target, report, sink) {
				changed = true
			}
		}

		if changed {
			report.UpdatedLabels = append(report.UpdatedLabels, game.Name)
			sink.OnLog(fmt.Sprintf("[++] Updated game folder: %s", game.Name))
		}
	}

	return report, nil
}

// resolveTargets lists a game folder and splits it into one target per user
// subfolder, or a single target for the folder itself when it has none.
func (it *SyncCommand) resolveTargets(
	ctx context.Context,
	conn repositories.Connection,
	remoteGameDir, mirrorRoot, game string,
) ([]entities.SyncTarget, error) {
	entries, err := conn.ListDirectory(ctx, remoteGameDir)
	if err != nil {
		return nil, err
	}

	localGameDir := filepath.Join(mirrorRoot, game)
	userFolders := directories(entries)
	if len(userFolders) == 0 {
		return []entities.SyncTarget{{
			RemotePath: remoteGameDir,
			LocalPath:  localGameDir,
			Label:      game,
		}}, nil
	}

	return lo.Map(userFolders, func(user entities.RemoteEntry, _ int) entities.SyncTarget {
		return entities.SyncTarget{
			RemotePath: path.Join(remoteGameDir, user.Name),
			LocalPath:  filepath.Join(localGameDir, user.Name),
			Label:      game,
		}
	}), nil
}

// syncTarget fetches the stale files of one target and reports whether any
// of them was written.
func (it *SyncCommand) syncTarget(
	ctx context.Context,
	conn repositories.Connection,
	target entities.SyncTarget,
	report *entities.SyncReport,
	sink repositories.EventSink,
) bool {
	entries, err := conn.ListDirectory(ctx, target.RemotePath)
	if err != nil {
		sink.OnLog(fmt.Sprintf("[!] Error downloading from %s: %v", target.RemotePath, err))
		return false
	}

	changed := false
	for _, file := range files(entries) {
		if ctx.Err() != nil {
			return changed
		}

		localFile := filepath.Join(target.LocalPath, file.Name)
		if !it.mirror.IsStale(localFile, file.Size) {
			continue
		}

		remoteFile := path.Join(target.RemotePath, file.Name)
		if fetchErr := it.fetch(ctx, conn, target, file, localFile); fetchErr != nil {
			logger.Debugf("Failed to fetch %s: %v", remoteFile, fetchErr)
			report.FailedFiles = append(report.FailedFiles, remoteFile)
			continue
		}

		report.FetchedFiles = append(report.FetchedFiles, remoteFile)
		changed = true
	}

	return changed
}

func (it *SyncCommand) fetch(
	ctx context.Context,
	conn repositories.Connection,
	target entities.SyncTarget,
	file entities.RemoteEntry,
	localFile string,
) error {
	if err := it.mirror.EnsureDir(target.LocalPath); err != nil {
		return err
	}

	writer, err := it.mirror.Create(localFile)
	if err != nil {
		return err
	}

	_, fetchErr := conn.FetchFile(ctx, target.RemotePath, file.Name, writer)
	closeErr := writer.Close()
	if fetchErr == nil {
		fetchErr = closeErr
	}
	if fetchErr != nil {
		// a truncated copy must not pass the size check on the next run
		if rmErr := it.mirror.Remove(localFile); rmErr != nil {
			logger.Debugf("Failed to remove partial file %s: %v", localFile, rmErr)
		}
		return fetchErr
	}

	return nil
}

func directories(entries []entities.RemoteEntry) []entities.RemoteEntry {
	return lo.Filter(entries, func(e entities.RemoteEntry, _ int) bool {
		return e.IsDirectory() && e.HasSafeName()
	})
}

func files(entries []entities.RemoteEntry) []entities.RemoteEntry {
	return lo.Filter(entries, func(e entities.RemoteEntry, _ int) bool {
		return e.IsFile() && e.HasSafeName()
	})
}
