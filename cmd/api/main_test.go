package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersPurge_AbortsWithoutConfirmation(t *testing.T) {
	cmd := newUsersCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("n\n"))
	cmd.SetArgs([]string{"purge"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Aborted.")
}

func TestMigrateCmd_RequiresCommand(t *testing.T) {
	cmd := newMigrateCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
	assert.Contains(t, cmd.Use, "up|down|status")
}
