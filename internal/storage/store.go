package storage

import (
	"context"
	"time"

	"reflectdoc/internal/models"
)

// Run is one saved conversion.
type Run struct {
	ID          string
	Project     string
	CreatedAt   time.Time
	Reflections int
	Dangling    int
}

// StoredReflection is the flat row form of a reflection. ParentID is -1 for
// the project root.
type StoredReflection struct {
	ID       int
	ParentID int
	Name     string
	Kind     models.ReflectionKind
	FullName string
	Comment  string
	Type     string
	File     string
	Line     int
	Flags    models.Flags
}

// ProjectStore persists converted projects.
type ProjectStore interface {
	// SaveProject stores p as a new run and returns the run ID.
	SaveProject(ctx context.Context, p *models.Project) (string, error)

	// ListRuns returns saved runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// LoadReflections returns the reflections of a run in ID order.
	LoadReflections(ctx context.Context, runID string) ([]StoredReflection, error)

	LoadDanglingReferences(ctx context.Context, runID string) ([]string, error)

	// LoadDocument returns the JSON export saved with the run.
	LoadDocument(ctx context.Context, runID string) ([]byte, error)

	Close() error
}
