package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"reflectdoc/internal/config"
	"reflectdoc/internal/entrypoints"
	"reflectdoc/internal/models"
	"reflectdoc/internal/storage"
)

// ConvertRun converts a set of paths, stores the project as a new run and
// optionally writes the JSON document.
type ConvertRun struct {
	Options *config.Options
	Log     *zap.SugaredLogger

	// OutPath receives the JSON document. "-" writes to Stdout; empty skips it.
	OutPath string
	Stdout  io.Writer
	// IncludeTests keeps _test.go files found while walking directories.
	IncludeTests bool
	// NoStore skips the storage stage.
	NoStore bool
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Project     *models.Project
	EntryPoints []string
}

func NewConvertRun(opts *config.Options, log *zap.SugaredLogger) *ConvertRun {
	if opts == nil {
		opts = config.Default()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ConvertRun{
		Options: opts,
		Log:     log,
		Stdout:  os.Stdout,
	}
}

func (r *ConvertRun) Run(ctx context.Context, paths []string) (*Result, error) {
	entries, err := r.expandStage(paths)
	if err != nil {
		return nil, err
	}

	project, err := r.convertStage(ctx, entries)
	if err != nil {
		return nil, err
	}

	res := &Result{Project: project, EntryPoints: entries}
	if !r.NoStore {
		runID, err := r.storeStage(ctx, project)
		if err != nil {
			return nil, err
		}
		res.RunID = runID
	}

	if err := r.exportStage(project); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ConvertRun) expandStage(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = r.Options.EntryPoints
	}
	if len(paths) == 0 {
		return nil, errors.WithHint(errors.New("no entry points"), "pass files or directories, or set entry_points in the config")
	}

	var opts []entrypoints.Option
	if r.IncludeTests {
		opts = append(opts, entrypoints.WithTests())
	}
	entries, err := entrypoints.NewExpander(opts...).Expand(paths)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand entry points")
	}
	if len(entries) == 0 {
		return nil, errors.Newf("no Go files found in %v", paths)
	}
	r.Log.Debugw("expanded entry points", "count", len(entries))
	return entries, nil
}

func (r *ConvertRun) convertStage(ctx context.Context, entries []string) (*models.Project, error) {
	conv, err := NewDefaultConverter(r.Options, r.Log)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	project, err := conv.Convert(ctx, entries)
	if err != nil {
		return nil, err
	}
	r.Log.Infow("conversion finished",
		"project", project.Root.Name,
		"reflections", project.Len(),
		"dangling", len(project.DanglingReferences()),
		"elapsed", time.Since(start),
	)
	return project, nil
}

func (r *ConvertRun) storeStage(ctx context.Context, project *models.Project) (string, error) {
	store, err := storage.NewSQLiteStore(r.Options.Storage.DBPath)
	if err != nil {
		return "", errors.Wrap(err, "failed to initialize database")
	}
	defer store.Close()

	runID, err := store.SaveProject(ctx, project)
	if err != nil {
		return "", errors.Wrap(err, "failed to save project")
	}
	r.Log.Infow("saved run", "run", runID, "db", r.Options.Storage.DBPath)
	return runID, nil
}

func (r *ConvertRun) exportStage(project *models.Project) error {
	switch r.OutPath {
	case "":
		return nil
	case "-":
		return models.WriteJSON(r.Stdout, project)
	}

	if dir := filepath.Dir(r.OutPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
	}
	f, err := os.Create(r.OutPath)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer f.Close()

	if err := models.WriteJSON(f, project); err != nil {
		return errors.Wrap(err, "failed to write document")
	}
	return f.Close()
}
