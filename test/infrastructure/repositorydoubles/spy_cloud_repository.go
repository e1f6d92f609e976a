//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/savemirror/internal/domain/entities"
	"github.com/rios0rios0/savemirror/internal/domain/repositories"
)

// SpyCloudRepository implements repositories.CloudRepository as a configurable spy.
type SpyCloudRepository struct {
	// --- Configure ---
	Binary     string
	ExtraFlags string

	// --- CreateRemote ---
	CreateResult     entities.CommandResult
	CreateErr        error
	CreateRemoteCall []CreateRemoteCall

	// --- Copy ---
	CopyResult entities.CommandResult
	CopyErr    error
	CopyCalls  []CopyCall
}

// CreateRemoteCall records a single invocation of CreateRemote.
type CreateRemoteCall struct {
	Label        string
	ProviderKind string
	Username     string
	Secret       string
}

// CopyCall records a single invocation of Copy.
type CopyCall struct {
	Source      string
	Destination string
	SizeOnly    bool
}

var _ repositories.CloudRepository = (*SpyCloudRepository)(nil)

func (s *SpyCloudRepository) Configure(binary, extraFlags string) {
	s.Binary = binary
	s.ExtraFlags = extraFlags
}

func (s *SpyCloudRepository) CreateRemote(
	_ context.Context, label, providerKind, username, secret string,
) (entities.CommandResult, error) {
	s.CreateRemoteCall = append(s.CreateRemoteCall, CreateRemoteCall{
		Label: label, ProviderKind: providerKind, Username: username, Secret: secret,
	})
	return s.CreateResult, s.CreateErr
}

func (s *SpyCloudRepository) Copy(
	_ context.Context, sourcePath, destination string, sizeOnly bool,
) (entities.CommandResult, error) {
	s.CopyCalls = append(s.CopyCalls, CopyCall{Source: sourcePath, Destination: destination, SizeOnly: sizeOnly})
	return s.CopyResult, s.CopyErr
}
