package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"category-manager/core/database"
	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"

	"gorm.io/gorm"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

var (
	_ reconcile.RunRecorder      = (*Journal)(nil)
	_ reconcile.MutationRecorder = (*Journal)(nil)
)

// Journal records runs and mutations in a SQL database.
type Journal struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps an open database. Call Migrate before first use on a fresh schema.
func New(db *gorm.DB) *Journal {
	return &Journal{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the journal tables and verifies their columns.
func (j *Journal) Migrate(ctx context.Context) error {
	if err := j.db.WithContext(ctx).AutoMigrate(&RunRecord{}, &MutationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return j.Verify()
}

// Verify checks that both journal tables carry the columns the models need.
func (j *Journal) Verify() error {
	checks := []struct {
		table   string
		columns []string
	}{
		{RunRecord{}.TableName(), []string{"run_id", "dry_run", "status", "rules", "changed", "failed", "report", "started_at", "finished_at"}},
		{MutationRecord{}.TableName(), []string{"run_id", "kind", "category_id", "parent_id", "name", "category_ids", "dry_run", "error"}},
	}
	for _, c := range checks {
		missing, err := database.MissingColumns(j.db, c.table, c.columns...)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns %v", c.table, missing)
		}
	}
	return nil
}

// RunStarted inserts a running record.
func (j *Journal) RunStarted(ctx context.Context, runID string, rules taxonomy.RuleSet, opts reconcile.Options) error {
	encoded, err := json.Marshal(rules.Strings())
	if err != nil {
		return err
	}
	rec := RunRecord{
		RunID:     runID,
		DryRun:    opts.DryRun,
		Status:    StatusRunning,
		Rules:     string(encoded),
		StartedAt: j.now(),
	}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

// RunFinished stores the summary and the full report. A run whose start was
// never recorded is inserted.
func (j *Journal) RunFinished(ctx context.Context, report *reconcile.Report) error {
	encoded, err := json.Marshal(report)
	if err != nil {
		return err
	}
	status := StatusFinished
	switch {
	case report.Cancelled:
		status = StatusCancelled
	case report.Summary.Failed > 0:
		status = StatusFailed
	}
	finished := report.FinishedAt
	if finished.IsZero() {
		finished = j.now()
	}

	updates := map[string]any{
		"status":      status,
		"changed":     report.Summary.Changed,
		"failed":      report.Summary.Failed,
		"skipped":     report.Summary.Skipped,
		"failures":    report.Summary.Failures,
		"report":      string(encoded),
		"finished_at": finished,
	}
	result := j.db.WithContext(ctx).Model(&RunRecord{}).Where("run_id = ?", report.RunID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to record run finish: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	rules, _ := json.Marshal(report.Rules.Strings())
	rec := RunRecord{
		RunID:      report.RunID,
		DryRun:     report.DryRun,
		Status:     status,
		Rules:      string(rules),
		Changed:    report.Summary.Changed,
		Failed:     report.Summary.Failed,
		Skipped:    report.Summary.Skipped,
		Failures:   report.Summary.Failures,
		Report:     string(encoded),
		StartedAt:  report.StartedAt,
		FinishedAt: &finished,
	}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	return nil
}

// RecordMutation appends one remote write.
func (j *Journal) RecordMutation(ctx context.Context, m reconcile.Mutation) error {
	rec := mutationRecord(m)
	rec.CreatedAt = j.now()
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record mutation: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []RunRecord
	err := j.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Run returns one run by id.
func (j *Journal) Run(ctx context.Context, runID string) (*RunRecord, error) {
	var run RunRecord
	err := j.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Mutations returns the mutations of a run in recording order.
func (j *Journal) Mutations(ctx context.Context, runID string) ([]MutationRecord, error) {
	var out []MutationRecord
	err := j.db.WithContext(ctx).Where("run_id = ?", runID).Order("id ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mutations: %w", err)
	}
	return out, nil
}
