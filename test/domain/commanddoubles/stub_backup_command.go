//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/savemirror/internal/domain/commands"
	"github.com/rios0rios0/savemirror/internal/domain/entities"
)

// StubBackupCommand is a stub implementation of commands.Backup.
type StubBackupCommand struct {
	State    *entities.RunState
	StartErr error

	ExecuteCallCount int
	StartCallCount   int
	LastCtx          context.Context
	LastSettings     *entities.Settings
	LastOpts         commands.BackupOptions
}

var _ commands.Backup = (*StubBackupCommand)(nil)

func (s *StubBackupCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts commands.BackupOptions,
) (*entities.RunState, error) {
	s.ExecuteCallCount++
	s.LastCtx = ctx
	s.LastSettings = settings
	s.LastOpts = opts
	return s.State, s.State.Err
}

func (s *StubBackupCommand) Start(
	ctx context.Context,
	settings *entities.Settings,
	opts commands.BackupOptions,
) (<-chan *entities.RunState, error) {
	s.StartCallCount++
	s.LastCtx = ctx
	s.LastSettings = settings
	s.LastOpts = opts
	if s.StartErr != nil {
		return nil, s.StartErr
	}
	done := make(chan *entities.RunState, 1)
	done <- s.State
	close(done)
	return done, nil
}

func (s *StubBackupCommand) Running() bool { return false }
