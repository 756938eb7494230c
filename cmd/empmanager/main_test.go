package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func isolateEnvironment(t *testing.T) string {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "EMPMANAGER_") {
			t.Setenv(key, "")
			_ = os.Unsetenv(key)
		}
	}
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("EMPMANAGER_DEMO_ACCOUNTS", "false")
	t.Setenv("EMPMANAGER_LOG_LEVEL", "error")
	return dir
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if got := out.String(); got != "empmanager version dev\n" {
		t.Fatalf("unexpected version output %q", got)
	}
}

func TestExportCommandWritesWorkbook(t *testing.T) {
	dir := isolateEnvironment(t)
	path := filepath.Join(dir, "staff.xlsx")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &errOut)
	cmd.SetArgs([]string{"export", "employees", "--out", path, "--role", "hr"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("export returned error: %v (stderr: %s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "wrote "+path) {
		t.Fatalf("unexpected output %q", out.String())
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Employees")
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) != 4 || rows[2][1] != "Jane Smith" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestExportCommandDeniedForEmployeeRole(t *testing.T) {
	dir := isolateEnvironment(t)
	path := filepath.Join(dir, "staff.xlsx")

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(""), &out, &out)
	cmd.SetArgs([]string{"export", "employees", "--out", path, "--role", "Employee"})

	err := cmd.Execute()
	if !isDenied(err) {
		t.Fatalf("expected access denied, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected no file after a denied export, stat: %v", statErr)
	}
}

func TestConsoleCommandRunsScript(t *testing.T) {
	isolateEnvironment(t)

	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader("help\nquit\n"), &out, &bytes.Buffer{})
	cmd.SetArgs([]string{"console"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("console returned error: %v", err)
	}
	if !strings.Contains(out.String(), "checkout <employee id>") || !strings.Contains(out.String(), "Goodbye.") {
		t.Fatalf("unexpected console output:\n%s", out.String())
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	isolateEnvironment(t)

	cmd := newRootCmd(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level=loud", "console"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for an unknown log level")
	}
}
