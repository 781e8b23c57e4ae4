package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	cmd := newRootCmd()
	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"start", "migrate", "create-superuser"})
}

func TestCommandsNeedPostgres(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_URL", "")

	tests := map[string][]string{
		"migrate":          {"migrate"},
		"create-superuser": {"create-superuser", "--username", "root", "--email", "root@example.com", "--password", "secret"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)
			cmd.SetArgs(append([]string{"--config", "missing.yaml"}, args...))

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "postgres url not configured")
		})
	}
}
