package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/me/gowe/internal/config"
	"github.com/me/gowe/internal/normalize"
	"github.com/me/gowe/internal/publish"
	"github.com/me/gowe/internal/report"
	"github.com/me/gowe/internal/scheduler"
	"github.com/me/gowe/internal/store"
	"github.com/me/gowe/internal/tracker"
	"github.com/me/gowe/pkg/model"
)

// trackerBaseURLOverride points the tracker client at a test double
// instead of dev.azure.com; set only from tests.
var trackerBaseURLOverride string

func newRunCmd() *cobra.Command {
	var configDir string
	var dbPath string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scheduling pass for a sprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSprint(cmd.Context(), configDir, dbPath, outputDir)
		},
	}

	cmd.Flags().StringVar(&configDir, "config", ".", "Directory containing setup.yaml, executors.yaml, day-offs.yaml, dependencies.yaml")
	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath(), "Run history database path")
	cmd.Flags().StringVar(&outputDir, "output", "", "Report output directory or s3:// URL (overrides setup.yaml output_dir)")

	return cmd
}

func runSprint(ctx context.Context, configDir, dbPath, outputDirFlag string) error {
	setupRaw, err := os.ReadFile(filepath.Join(configDir, "setup.yaml"))
	if err != nil {
		return fmt.Errorf("read setup.yaml: %w", err)
	}
	sprint, token, err := config.LoadSetup(setupRaw)
	if err != nil {
		return err
	}
	setupDoc, err := config.ParseSetup(setupRaw)
	if err != nil {
		return err
	}

	executors, err := loadDoc(configDir, "executors.yaml", config.LoadExecutors)
	if err != nil {
		return err
	}
	dayOffs, err := loadDoc(configDir, "day-offs.yaml", config.LoadDayOffs)
	if err != nil {
		return err
	}
	deps, err := loadDoc(configDir, "dependencies.yaml", config.LoadDependencies)
	if err != nil {
		return err
	}

	trackerClient := tracker.NewClient(setupDoc.TrackerOrg(), setupDoc.TrackerProject(), token)
	if trackerBaseURLOverride != "" {
		trackerClient.SetBaseURL(trackerBaseURLOverride)
	}
	raw, err := trackerClient.FetchSprintItems(ctx, sprint.AreaPath, sprintIterationPath(setupDoc, sprint))
	if err != nil {
		return err
	}

	normalized := normalize.Normalize(sprint.ID, raw)
	for _, warning := range normalized.Warnings {
		logger.Warn("normalize", "warning", warning)
	}

	core, err := scheduler.New(sprint, executors, dayOffs, logger)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}
	result := core.Run(normalized.Tasks, deps)

	rep := report.Assemble(report.Inputs{
		Sprint:       sprint,
		Executors:    executors,
		DayOffs:      dayOffs,
		Dependencies: deps,
		Tasks:        normalized.Tasks,
		Stories:      normalized.Stories,
		Result:       result,
		Core:         core,
	})

	run := &model.Run{
		ID:        uuid.New().String(),
		SprintID:  sprint.ID,
		Status:    model.RunSucceeded,
		Report:    rep,
		CreatedAt: time.Now().UTC(),
	}

	st, err := store.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate history store: %w", err)
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	outputDir := outputDirFlag
	if outputDir == "" {
		outputDir = setupDoc.OutputDir
	}
	if outputDir != "" {
		path, err := publish.New(outputDir).Publish(ctx, rep)
		if err != nil {
			logger.Error("publish report", "error", err)
		} else {
			logger.Info("report published", "path", path)
		}
	}

	printRunSummary(run)
	return nil
}

// sprintIterationPath reconstructs the tracker's iteration path the way
// the upstream board encodes it: project\year\quarter\sprint name.
func sprintIterationPath(setup config.Setup, sprint model.Sprint) string {
	return fmt.Sprintf(`%s\%s\%s\%s`, setup.TrackerProject(), sprint.Year, sprint.Quarter, sprint.Name)
}

func loadDoc[T any](configDir, filename string, load func([]byte) (T, error)) (T, error) {
	var zero T
	data, err := os.ReadFile(filepath.Join(configDir, filename))
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", filename, err)
	}
	return load(data)
}
