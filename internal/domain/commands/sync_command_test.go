//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/savemirror/internal/domain/commands"
	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/infrastructure/repositories/mirror"
	doubles "github.com/rios0rios0/savemirror/test/infrastructure/repositorydoubles"
)

const (
	remoteRoot = "/Installed games"
	mirrorRoot = "/backups/Installed"
)

func syncOptions() commands.SyncOptions {
	return commands.SyncOptions{
		RemoteRoot:     remoteRoot,
		MirrorRoot:     mirrorRoot,
		DownloadBudget: 0.5,
	}
}

func TestSyncCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should stop walking once the context is cancelled", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA", "a.bin", []byte("a")).
			WithFile(remoteRoot+"/GameB", "b.bin", []byte("b"))
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		// when
		report, err := cmd.Execute(ctx, conn, syncOptions(), &doubles.SpyEventSink{})

		// then
		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, report.GameFolders)
		assert.Empty(t, conn.FetchedPaths)
	})

	t.Run("should treat only directories at the root as game folders", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection().
			WithDir(remoteRoot+"/GameA").
			WithFile(remoteRoot, "readme.txt", []byte("hi"))
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"GameA"}, report.GameFolders)
		assert.Len(t, sink.LogsContaining("Processing game folder"), 1)
	})

	t.Run("should fetch a missing file into the game folder and report it once", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA", "save.bin", make([]byte, 100))
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		info, statErr := fs.Stat(mirrorRoot + "/GameA/save.bin")
		require.NoError(t, statErr)
		assert.Equal(t, int64(100), info.Size())
		assert.Equal(t, []string{"[++] Updated game folder: GameA"}, sink.LogsContaining("Updated game folder"))
		assert.Equal(t, []string{"GameA"}, report.UpdatedLabels)
		assert.Equal(t, 1, report.Targets)
	})

	t.Run("should visit every user folder and report the game once", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, mirrorRoot+"/GameA/user1/save.bin", []byte("same"), 0o644))
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA/user1", "save.bin", []byte("same")).
			WithFile(remoteRoot+"/GameA/user2", "save.bin", []byte("changed"))
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{remoteRoot + "/GameA/user2/save.bin"}, conn.FetchedPaths)
		assert.Contains(t, conn.ListedPaths, remoteRoot+"/GameA/user1")
		assert.Contains(t, conn.ListedPaths, remoteRoot+"/GameA/user2")
		assert.Len(t, sink.LogsContaining("Updated game folder: GameA"), 1)
		assert.Equal(t, 2, report.Targets)

		data, readErr := afero.ReadFile(fs, mirrorRoot+"/GameA/user2/save.bin")
		require.NoError(t, readErr)
		assert.Equal(t, "changed", string(data))
	})

	t.Run("should skip a folder that cannot be entered and continue with the rest", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA", "a.bin", []byte("a")).
			WithFile(remoteRoot+"/GameB", "b.bin", []byte("b")).
			WithFile(remoteRoot+"/GameC", "c.bin", []byte("c"))
		conn.ChangeDirErrs[remoteRoot+"/GameB"] = errors.New("550 permission denied")
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"GameB"}, report.SkippedFolders)
		assert.Equal(t, []string{"GameA", "GameC"}, report.UpdatedLabels)
		assert.Len(t, sink.LogsContaining("[!] Skipping "+remoteRoot+"/GameB"), 1)
	})

	t.Run("should keep fetching the other files of a target when one fetch fails", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA", "broken.bin", []byte("broken")).
			WithFile(remoteRoot+"/GameA", "good.bin", []byte("good"))
		conn.FetchErrs[remoteRoot+"/GameA/broken.bin"] = errors.New("426 connection closed")
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{remoteRoot + "/GameA/broken.bin"}, report.FailedFiles)
		assert.Equal(t, []string{remoteRoot + "/GameA/good.bin"}, report.FetchedFiles)
		exists, _ := afero.Exists(fs, mirrorRoot+"/GameA/broken.bin")
		assert.False(t, exists, "partial file should be discarded")
		assert.Empty(t, sink.LogsContaining("broken.bin"))
	})

	t.Run("should not report a folder whose only fetch failed", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA", "broken.bin", []byte("broken"))
		conn.FetchErrs[remoteRoot+"/GameA/broken.bin"] = errors.New("426 connection closed")
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Empty(t, report.UpdatedLabels)
		assert.Empty(t, sink.LogsContaining("Updated game folder"))
	})

	t.Run("should log a target whose listing fails and continue with its siblings", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA/user1", "save.bin", []byte("1")).
			WithFile(remoteRoot+"/GameA/user2", "save.bin", []byte("2"))
		conn.ListErrs[remoteRoot+"/GameA/user1"] = errors.New("451 local error")
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Len(t, sink.LogsContaining("[!] Error downloading from "+remoteRoot+"/GameA/user1"), 1)
		assert.Equal(t, []string{remoteRoot + "/GameA/user2/save.bin"}, report.FetchedFiles)
		assert.Equal(t, []string{"GameA"}, report.UpdatedLabels)
	})

	t.Run("should complete immediately when the root is empty", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection().WithDir(remoteRoot)
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Empty(t, report.GameFolders)
		assert.Zero(t, report.Targets)
		assert.Empty(t, sink.Progress)
		assert.Empty(t, sink.Logs)
	})

	t.Run("should return ErrPath when the root cannot be entered", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection()
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))

		// when
		_, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.ErrorIs(t, err, entities.ErrPath)
	})

	t.Run("should fetch nothing and report nothing on a second run", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		conn := doubles.NewFakeConnection().
			WithFile(remoteRoot+"/GameA", "save.bin", []byte("progress")).
			WithFile(remoteRoot+"/GameB/user1", "save.bin", []byte("more progress"))
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))
		_, err := cmd.Execute(context.Background(), conn, syncOptions(), &doubles.SpyEventSink{})
		require.NoError(t, err)
		conn.FetchedPaths = nil
		sink := &doubles.SpyEventSink{}

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		assert.Empty(t, conn.FetchedPaths)
		assert.Empty(t, report.FetchedFiles)
		assert.Empty(t, sink.LogsContaining("Updated game folder"))
	})

	t.Run("should refetch a file whose remote size changed", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		conn := doubles.NewFakeConnection().WithFile(remoteRoot+"/GameA", "save.bin", []byte("v1"))
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))
		_, err := cmd.Execute(context.Background(), conn, syncOptions(), &doubles.SpyEventSink{})
		require.NoError(t, err)
		conn.SetContent(remoteRoot+"/GameA", "save.bin", []byte("version 2"))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), &doubles.SpyEventSink{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{remoteRoot + "/GameA/save.bin"}, report.FetchedFiles)
		data, _ := afero.ReadFile(fs, mirrorRoot+"/GameA/save.bin")
		assert.Equal(t, "version 2", string(data))
	})

	t.Run("should emit monotonic progress within the download budget", func(t *testing.T) {
		t.Parallel()

		// given
		conn := doubles.NewFakeConnection().
			WithDir(remoteRoot + "/GameA").
			WithDir(remoteRoot + "/GameB").
			WithDir(remoteRoot + "/GameC").
			WithDir(remoteRoot + "/GameD")
		sink := &doubles.SpyEventSink{}
		cmd := commands.NewSyncCommand(mirror.NewRepository(afero.NewMemMapFs()))

		// when
		_, err := cmd.Execute(context.Background(), conn, syncOptions(), sink)

		// then
		require.NoError(t, err)
		require.Len(t, sink.Progress, 4)
		assert.InDeltaSlice(t, []float64{0.125, 0.25, 0.375, 0.5}, sink.Progress, 1e-9)
	})

	t.Run("should ignore entries whose names would escape the mirror", func(t *testing.T) {
		t.Parallel()

		// given
		fs := afero.NewMemMapFs()
		conn := doubles.NewFakeConnection().
			WithDir(remoteRoot+"/GameA").
			WithEntry(remoteRoot+"/GameA", entities.RemoteEntry{Name: "../evil.bin", Kind: entities.KindFile, Size: 1}, []byte("x"))
		cmd := commands.NewSyncCommand(mirror.NewRepository(fs))

		// when
		report, err := cmd.Execute(context.Background(), conn, syncOptions(), &doubles.SpyEventSink{})

		// then
		require.NoError(t, err)
		assert.Empty(t, report.FetchedFiles)
		exists, _ := afero.Exists(fs, mirrorRoot+"/evil.bin")
		assert.False(t, exists)
	})
}
