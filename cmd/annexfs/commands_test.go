// cmd/annexfs/commands_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem under t.TempDir, environment variables
// PURPOSE: Test the command line from argument parsing to exit codes

package annexfs

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/annexfs/pkg/annex"
	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup isolates configuration and logging and points ANNEXFS_ROOT at a
// fresh annex.
func setup(t *testing.T) *testutil.TestEnvironment {
	t.Helper()
	env := testutil.NewTestEnvironment(t)
	state := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.Home, ".config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(env.Home, "etc"))
	t.Setenv("XDG_STATE_HOME", state)
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{"ANNEXFS_CONFIG", "ANNEXFS_ID_POLICY", "ANNEXFS_RESERVE_ATTEMPTS"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	t.Setenv("ANNEXFS_ROOT", env.Root)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return env
}

func run(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = Execute(args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestTransferRoundTrip(t *testing.T) {
	env := setup(t)
	report := env.HomePath("docs", "report.pdf")
	env.WriteFile(report, "quarterly numbers")

	stdout, stderr, code := run("transfer-from", report)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Moved "+report+" into the annex\n")
	assert.Contains(t, stdout, "report.pdf")

	info, err := os.Lstat(report)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)
	require.Len(t, env.EntryDirs(), 1)

	stdout, stderr, code = run("transfer-to", report)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Moved "+report+" out of the annex\n")

	content, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, "quarterly numbers", string(content))
	assert.Empty(t, env.EntryDirs())
}

func TestCreateStatusListDelete(t *testing.T) {
	env := setup(t)
	notes := env.HomePath("notes")

	stdout, stderr, code := run("create", notes)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Created "+notes)

	stdout, stderr, code = run("status", notes, "--format", "json")
	require.Equal(t, ExitOK, code, stderr)
	var status annex.Status
	require.NoError(t, json.Unmarshal([]byte(stdout), &status))
	assert.Equal(t, annex.PathAnnexed, status.State)
	require.NotNil(t, status.Entry)
	assert.Equal(t, env.EntryDirs()[0], status.Entry.ID)

	stdout, stderr, code = run("list", "--format", "json")
	require.Equal(t, ExitOK, code, stderr)
	var listings []annex.Listing
	require.NoError(t, json.Unmarshal([]byte(stdout), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "notes", listings[0].Entry.Name())
	assert.False(t, listings[0].Stale)

	stdout, stderr, code = run("delete", notes)
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "Deleted "+notes)
	assert.Empty(t, env.EntryDirs())
	_, err := os.Lstat(notes)
	assert.True(t, os.IsNotExist(err))

	stdout, _, code = run("list", "--format", "text")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "The annex is empty.\n", stdout)
}

func TestRootFlagOverridesEnvironment(t *testing.T) {
	env := setup(t)
	other := filepath.Join(filepath.Dir(env.Root), "other")
	require.NoError(t, os.Mkdir(other, 0755))

	_, stderr, code := run("create", env.HomePath("scratch"), "--root", other)
	require.Equal(t, ExitOK, code, stderr)

	assert.Empty(t, env.EntryDirs())
	entries, err := os.ReadDir(other)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestErrorReporting(t *testing.T) {
	env := setup(t)

	t.Run("operation failure", func(t *testing.T) {
		_, stderr, code := run("transfer-from", env.HomePath("missing"))
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, stderr, MsgNonFatal+"\n")
		assert.Contains(t, stderr, "NOT_FOUND - ")
	})

	t.Run("invalid root is fatal", func(t *testing.T) {
		t.Setenv("ANNEXFS_ROOT", filepath.Join(env.Home, "no-annex"))
		_, stderr, code := run("list")
		assert.Equal(t, ExitFatal, code)
		assert.Contains(t, stderr, MsgFatal+"\n")
		assert.Contains(t, stderr, "CONFIG_INVALID - ")
	})

	t.Run("structured error", func(t *testing.T) {
		_, stderr, code := run("delete", env.HomePath("missing"), "--format", "json")
		assert.Equal(t, ExitFailure, code)
		assert.NotContains(t, stderr, MsgNonFatal)

		var decoded map[string]map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(stderr), &decoded))
		assert.Equal(t, "NOT_FOUND", decoded["error"]["code"])
	})

	t.Run("usage error", func(t *testing.T) {
		_, stderr, code := run("create")
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, stderr, "Error: accepts 1 arg(s)")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, stderr, code := run("list", "--format", "xml")
		assert.Equal(t, ExitFailure, code)
		assert.Contains(t, stderr, "unknown format: xml")
	})
}

func TestInterruptedTransfer(t *testing.T) {
	env := setup(t)
	src := env.HomePath("big.iso")
	env.WriteFile(src, "image bytes")

	guard := testutil.InterruptAt("commit")
	engineOptions = func(o *annex.Options) { o.Guard = guard }
	t.Cleanup(func() { engineOptions = func(*annex.Options) {} })

	_, stderr, code := run("transfer-from", src)
	assert.Equal(t, ExitInterrupted, code)
	assert.Contains(t, stderr, MsgInterrupted+"\n")
	assert.Contains(t, stderr, "INTERRUPTED - ")

	// The commit step completes before the interrupt is honoured.
	info, err := os.Lstat(src)
	require.NoError(t, err)
	assert.True(t, info.Mode()&os.ModeSymlink != 0)
	content, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "image bytes", string(content))
}

func TestConfigCommand(t *testing.T) {
	env := setup(t)

	stdout, stderr, code := run("config")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, MsgConfigNoFile)
	assert.Contains(t, stdout, env.Root)
	assert.Contains(t, stdout, "reserve_attempts = 64")

	configFile := filepath.Join(env.Home, ".config", "annexfs", "config.yaml")
	env.WriteFile(configFile, "id_policy: path-hash\n")
	stdout, _, code = run("config")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "# loaded from "+configFile)
	assert.Contains(t, stdout, "path-hash")

	stdout, _, code = run("config", "--defaults")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "id_policy: random")
}

func TestVersionCommand(t *testing.T) {
	setup(t)
	stdout, _, code := run("version")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "annexfs version ")
}

func TestCompletionCommand(t *testing.T) {
	setup(t)
	stdout, _, code := run("completion", "bash")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "annexfs")

	_, _, code = run("completion", "tcsh")
	assert.Equal(t, ExitFailure, code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"operation", errors.New(errors.ErrNotFound, "x"), ExitFailure},
		{"config", errors.New(errors.ErrConfigInvalid, "x"), ExitFatal},
		{"interrupt", errors.Join(
			errors.New(errors.ErrStorage, "x"),
			errors.New(errors.ErrInterrupted, "y"),
		), ExitInterrupted},
		{"plain", assert.AnError, ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
