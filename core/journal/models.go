package journal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"category-manager/core/reconcile"
)

// Run statuses.
const (
	StatusRunning  = "running"
	StatusFinished = "finished"
	StatusFailed   = "failed"
	// StatusCancelled marks a run stopped by context cancellation.
	StatusCancelled = "cancelled"
)

// RunRecord is one row of reconcile_runs.
type RunRecord struct {
	ID         uint       `gorm:"column:id;primaryKey" json:"id"`
	RunID      string     `gorm:"column:run_id;size:64;uniqueIndex" json:"run_id"`
	DryRun     bool       `gorm:"column:dry_run" json:"dry_run"`
	Status     string     `gorm:"column:status;size:16" json:"status"`
	Rules      string     `gorm:"column:rules;type:text" json:"rules"`
	Changed    int        `gorm:"column:changed" json:"changed"`
	Failed     int        `gorm:"column:failed" json:"failed"`
	Skipped    int        `gorm:"column:skipped" json:"skipped"`
	Failures   int        `gorm:"column:failures" json:"failures"`
	Report     string     `gorm:"column:report;type:text" json:"-"`
	StartedAt  time.Time  `gorm:"column:started_at" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

// TableName overrides the table name.
func (RunRecord) TableName() string {
	return "reconcile_runs"
}

// RuleStrings returns the stored rules in "old=>new" form.
func (r RunRecord) RuleStrings() []string {
	var rules []string
	if r.Rules == "" {
		return rules
	}
	_ = json.Unmarshal([]byte(r.Rules), &rules)
	return rules
}

// Decode returns the full report stored for a finished run.
func (r RunRecord) Decode() (*reconcile.Report, error) {
	if r.Report == "" {
		return nil, fmt.Errorf("run %s has no report", r.RunID)
	}
	var report reconcile.Report
	if err := json.Unmarshal([]byte(r.Report), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report of run %s: %w", r.RunID, err)
	}
	return &report, nil
}

// MutationRecord is one row of reconcile_mutations.
type MutationRecord struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	RunID       string    `gorm:"column:run_id;size:64;index" json:"run_id"`
	Kind        string    `gorm:"column:kind;size:32" json:"kind"`
	CategoryID  int64     `gorm:"column:category_id" json:"category_id"`
	ParentID    int64     `gorm:"column:parent_id" json:"parent_id"`
	Name        string    `gorm:"column:name;size:255" json:"name,omitempty"`
	ProductID   int64     `gorm:"column:product_id" json:"product_id,omitempty"`
	CategoryIDs string    `gorm:"column:category_ids;size:1024" json:"category_ids,omitempty"`
	Reason      string    `gorm:"column:reason;size:512" json:"reason,omitempty"`
	DryRun      bool      `gorm:"column:dry_run" json:"dry_run"`
	Error       string    `gorm:"column:error;type:text" json:"error,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name.
func (MutationRecord) TableName() string {
	return "reconcile_mutations"
}

func mutationRecord(m reconcile.Mutation) MutationRecord {
	ids := make([]string, len(m.CategoryIDs))
	for i, id := range m.CategoryIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return MutationRecord{
		RunID:       m.RunID,
		Kind:        string(m.Kind),
		CategoryID:  m.CategoryID,
		ParentID:    m.ParentID,
		Name:        m.Name,
		ProductID:   m.ProductID,
		CategoryIDs: strings.Join(ids, ","),
		Reason:      m.Reason,
		DryRun:      m.DryRun,
		Error:       m.Error,
	}
}

// Mutation converts the row back to a reconcile.Mutation.
func (r MutationRecord) Mutation() reconcile.Mutation {
	var ids []int64
	for _, s := range strings.Split(r.CategoryIDs, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return reconcile.Mutation{
		RunID:       r.RunID,
		Kind:        reconcile.MutationKind(r.Kind),
		CategoryID:  r.CategoryID,
		ParentID:    r.ParentID,
		Name:        r.Name,
		ProductID:   r.ProductID,
		CategoryIDs: ids,
		Reason:      r.Reason,
		DryRun:      r.DryRun,
		Error:       r.Error,
	}
}
