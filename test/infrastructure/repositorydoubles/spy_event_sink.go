//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"strings"
	"sync"

	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// SpyEventSink records every event it receives. It is safe for use from the
// run worker goroutine.
type SpyEventSink struct {
	mu        sync.Mutex
	Logs      []string
	Progress  []float64
	CanStarts []bool
}

var _ repositories.EventSink = (*SpyEventSink)(nil)

func (s *SpyEventSink) OnLog(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Logs = append(s.Logs, message)
}

func (s *SpyEventSink) OnProgress(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Progress = append(s.Progress, fraction)
}

func (s *SpyEventSink) OnRunStateChanged(canStart bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CanStarts = append(s.CanStarts, canStart)
}

// LogsContaining returns the logged messages that contain fragment.
func (s *SpyEventSink) LogsContaining(fragment string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []string
	for _, msg := range s.Logs {
		if strings.Contains(msg, fragment) {
			matched = append(matched, msg)
		}
	}
	return matched
}
