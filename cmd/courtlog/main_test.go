package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/courtlog/internal/domain"
)

func parseMatchFlags(t *testing.T, args ...string) (*matchFlags, *cobra.Command) {
	t.Helper()
	var flags matchFlags
	cmd := &cobra.Command{Use: "edit"}
	flags.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return &flags, cmd
}

func TestValidateChangedRejectsInvalidValues(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"result", []string{"--result", "draw"}},
		{"level", []string{"--level", "pro"}},
		{"surface", []string{"--surface", "carpet"}},
		{"energy", []string{"--energy", "extreme"}},
		{"confidence", []string{"--confidence", "extreme"}},
		{"blank opponent", []string{"--opponent", "   "}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			flags, cmd := parseMatchFlags(t, tc.args...)
			assert.Error(t, flags.validateChanged(cmd))
		})
	}
}

func TestValidateChangedPartialEdit(t *testing.T) {
	flags, cmd := parseMatchFlags(t, "--result", "loss", "--moment1", "Late break")
	assert.NoError(t, flags.validateChanged(cmd))

	// Untouched flags are not checked.
	flags, cmd = parseMatchFlags(t)
	assert.NoError(t, flags.validateChanged(cmd))
}

func TestToUpdateCarriesOnlyChangedFlags(t *testing.T) {
	flags, cmd := parseMatchFlags(t, "--result", "loss")

	upd := flags.toUpdate(cmd)
	require.NotNil(t, upd.Result)
	assert.Equal(t, domain.ResultLoss, *upd.Result)
	assert.Nil(t, upd.OpponentName)
	assert.Nil(t, upd.Date)
	assert.Nil(t, upd.CourtSurface)
}
