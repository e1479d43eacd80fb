package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/gowe/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func writeConfigDocs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	docs := map[string]string{
		"setup.yaml": `
id: sprint-9
name: "Sprint 9"
year: "2024"
quarter: "Q1"
start_date: "2024-03-18"
end_date: "2024-03-29"
area_path: "Team\\Checkout"
tracker:
  organization: acme
  project: storefront
`,
		"executors.yaml": `
backend:
  - dev@acme.com
`,
		"day-offs.yaml":     "{}\n",
		"dependencies.yaml": "{}\n",
	}
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// fakeTrackerServer serves one User Story with one placed Task, the
// minimal shape FetchSprintItems needs to hydrate both WIQL passes.
func fakeTrackerServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "/_apis/wit/wiql"):
			if strings.Contains(readBody(t, r), "'User Story'") {
				w.Write([]byte(`{"workItems":[{"id":1}]}`))
				return
			}
			w.Write([]byte(`{"workItems":[{"id":2}]}`))
		case strings.Contains(r.URL.Path, "/_apis/wit/workitems"):
			switch r.URL.Query().Get("ids") {
			case "1":
				w.Write([]byte(`{"value":[{"id":1,"fields":{"System.Title":"Checkout revamp","System.WorkItemType":"User Story"}}]}`))
			case "2":
				w.Write([]byte(`{"value":[{"id":2,"fields":{
					"System.Title":"[BE] wire retries",
					"System.WorkItemType":"Task",
					"System.State":"Active",
					"System.Parent":1,
					"System.AssignedTo":{"uniqueName":"dev@acme.com"},
					"Microsoft.VSTS.Scheduling.OriginalEstimate":3
				}}]}`))
			}
		}
	}))
}

func readBody(t *testing.T, r *http.Request) string {
	t.Helper()
	var buf bytes.Buffer
	buf.ReadFrom(r.Body)
	return buf.String()
}

func TestRunCommand_SchedulesAndSavesRun(t *testing.T) {
	srv := fakeTrackerServer(t)
	defer srv.Close()
	trackerBaseURLOverride = srv.URL
	defer func() { trackerBaseURLOverride = "" }()

	configDir := writeConfigDocs(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	out, err := runCLI(t, "run", "--config", configDir, "--db", dbPath)
	if err != nil {
		t.Fatalf("run: %v\noutput: %s", err, out)
	}
}

func TestRunCommand_MissingConfigDirFails(t *testing.T) {
	_, err := runCLI(t, "run", "--config", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("run: want error for missing config dir")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "sprintplan") {
		t.Errorf("version output = %q, want it to mention sprintplan", out)
	}
}

func TestReportCommand_RequiresRunFlag(t *testing.T) {
	if _, err := runCLI(t, "report"); err == nil {
		t.Fatal("report: want error when --run is missing")
	}
}

func TestReportCommand_ReprintsStoredRun(t *testing.T) {
	srv := fakeTrackerServer(t)
	defer srv.Close()
	trackerBaseURLOverride = srv.URL
	defer func() { trackerBaseURLOverride = "" }()

	configDir := writeConfigDocs(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	if _, err := runCLI(t, "run", "--config", configDir, "--db", dbPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	runID := latestRunID(t, dbPath, "sprint-9")
	out, err := runCLI(t, "report", "--run", runID, "--db", dbPath)
	if err != nil {
		t.Fatalf("report: %v\noutput: %s", err, out)
	}
}

// latestRunID opens the freshly written store directly to recover the
// generated run id, since the run command only prints a styled summary.
func latestRunID(t *testing.T, dbPath, sprintID string) string {
	t.Helper()
	st, err := store.NewSQLiteStore(dbPath, testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	run, err := st.GetLatestRun(context.Background(), sprintID)
	if err != nil {
		t.Fatalf("get latest run: %v", err)
	}
	return run.ID
}
