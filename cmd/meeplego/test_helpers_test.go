package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/robleto/MeepleGo-sub002/internal/honor"
	"github.com/robleto/MeepleGo-sub002/internal/store/sqlstore"
	"github.com/robleto/MeepleGo-sub002/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	sqlitePath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "meeplego.toml"),
		sqlitePath: filepath.Join(base, "data", "meeplego.db"),
	}
	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
rules_dir = %q

[store]
backend = "sqlite"
sqlite_path = %q

[pipeline]
workers = 2
retry_initial_backoff_ms = 0
retry_max_backoff_ms = 0

[logging]
level = "error"
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "rules"),
		env.sqlitePath,
	)
	testsupport.WriteFile(t, env.configPath, []byte(content))
	return env
}

func (e *cliTestEnv) seed(t *testing.T, games ...honor.Game) {
	t.Helper()
	st, err := sqlstore.OpenSQLite(context.Background(), e.sqlitePath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()
	testsupport.SeedGames(t, st, games...)
}

func (e *cliTestEnv) writeInput(t *testing.T, entries ...honor.RawEntry) string {
	t.Helper()
	path := filepath.Join(e.baseDir, "input", "honors.json")
	testsupport.WriteJSON(t, path, entries)
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}
