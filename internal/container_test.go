//go:build unit

package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/rios0rios0/savemirror/internal"
)

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the backup and settings subcommands", func(t *testing.T) {
		t.Parallel()

		// given
		container := dig.New()
		require.NoError(t, internal.RegisterProviders(container))

		// when
		var uses []string
		err := container.Invoke(func(app *internal.AppInternal) {
			for _, controller := range app.GetControllers() {
				uses = append(uses, controller.GetBind().Use)
			}
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"backup", "settings"}, uses)
	})
}
