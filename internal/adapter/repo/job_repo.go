package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
	"creativestudio/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository on PostgreSQL.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a job repository backed by the given executor.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Create inserts a new job record and refreshes its timestamps from the database.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	settings, err := json.Marshal(job.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	history, err := encodeHistory(job.ConversationHistory)
	if err != nil {
		return err
	}
	createdAt := job.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertJob,
		job.ID,
		job.DeviceID,
		job.Status,
		job.OriginalPrompt,
		job.EnhancedPrompt,
		job.AssetID,
		settings,
		job.ThoughtSignature,
		history,
		job.ProgressMessage,
		createdAt,
	)
	return row.Scan(&job.CreatedAt, &job.UpdatedAt)
}

// UpdateProgress sets the progress message of a processing job. Jobs that
// already reached a terminal state are left untouched.
func (r *JobRepositoryPG) UpdateProgress(ctx context.Context, jobID string, message *string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateJobProgress, jobID, message)
	return err
}

// Finalize writes the terminal result in a single statement.
func (r *JobRepositoryPG) Finalize(ctx context.Context, jobID string, result domain.JobResult) error {
	if err := domain.ValidateTransition(domain.JobStatusProcessing, result.Status); err != nil {
		return err
	}
	history, err := encodeHistory(result.ConversationHistory)
	if err != nil {
		return err
	}
	updatedAt := result.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	tag, err := r.sql.Exec(ctx, sqlinline.QFinalizeJob,
		jobID,
		result.Status,
		result.ImageURL,
		result.ThoughtSignature,
		result.ProgressMessage,
		result.Error,
		history,
		updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleWrite
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJobByID, jobID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListByDevice returns the newest jobs for a device.
func (r *JobRepositoryPG) ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Job, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListJobsByDevice, deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]domain.Job, 0, limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FailStale fails processing jobs whose last update is older than before.
func (r *JobRepositoryPG) FailStale(ctx context.Context, before time.Time, message string) (int64, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QFailStaleJobs, before, message)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job      domain.Job
		settings []byte
		history  []byte
	)
	if err := row.Scan(
		&job.ID,
		&job.DeviceID,
		&job.Status,
		&job.OriginalPrompt,
		&job.EnhancedPrompt,
		&job.PreviewURL,
		&job.FinalURL,
		&job.AssetID,
		&settings,
		&job.ThoughtSignature,
		&history,
		&job.ProgressMessage,
		&job.Error,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &job.Settings); err != nil {
			return nil, fmt.Errorf("decode settings for job %s: %w", job.ID, err)
		}
	}
	job.ConversationHistory = []domain.ConversationTurn{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &job.ConversationHistory); err != nil {
			return nil, fmt.Errorf("decode history for job %s: %w", job.ID, err)
		}
	}
	return &job, nil
}

func encodeHistory(history []domain.ConversationTurn) ([]byte, error) {
	if history == nil {
		history = []domain.ConversationTurn{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return raw, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
