package repository

import (
	"context"
	"time"

	"booking-engine/internal/domain/retryjob"
	"booking-engine/internal/infra"
	"booking-engine/internal/infra/db"

	"github.com/google/uuid"
)

type RetryJobRepository struct{}

func NewRetryJobRepository() *RetryJobRepository {
	return &RetryJobRepository{}
}

func (r *RetryJobRepository) Enqueue(ctx context.Context, dbtx db.DBTX, job *retryjob.Job) error {
	payload, err := retryjob.MarshalPayload(job.Payload())
	if err != nil {
		return infra.WrapRepoErr("failed to marshal job payload", err)
	}

	_, err = dbtx.Exec(ctx, `
		INSERT INTO retry_jobs (id, kind, status, payload, attempts, max_retries, next_run_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		job.ID(), string(job.JobKind()), string(job.Status()), payload,
		job.Attempts(), job.MaxRetries(), job.NextRunAt(), job.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue retry job", err)
	}
	return nil
}

// ClaimDueBatch marks due jobs processing and returns them in one statement.
// SKIP LOCKED keeps overlapping sweeps from fighting over the same rows; the
// staleBefore arm re-claims jobs orphaned by a crash mid-processing.
func (r *RetryJobRepository) ClaimDueBatch(ctx context.Context, dbtx db.DBTX, now time.Time, staleBefore time.Time, limit int32) ([]*retryjob.Job, error) {
	rows, err := dbtx.Query(ctx, `
		UPDATE retry_jobs
		SET status = 'processing', started_at = $1
		WHERE id IN (
			SELECT id FROM retry_jobs
			WHERE (status = 'pending' AND next_run_at <= $1)
			   OR (status = 'processing' AND started_at <= $2)
			ORDER BY next_run_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, payload, attempts, max_retries, next_run_at, created_at, started_at, completed_at`,
		now, staleBefore, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim retry jobs", err)
	}
	defer rows.Close()

	var jobs []*retryjob.Job
	for rows.Next() {
		var (
			id          uuid.UUID
			kind        string
			payloadRaw  []byte
			attempts    int32
			maxRetries  int32
			nextRunAt   time.Time
			createdAt   time.Time
			startedAt   *time.Time
			completedAt *time.Time
		)
		if err := rows.Scan(&id, &kind, &payloadRaw, &attempts, &maxRetries, &nextRunAt, &createdAt, &startedAt, &completedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan retry job", err)
		}

		payload, err := retryjob.UnmarshalPayload(retryjob.Kind(kind), payloadRaw)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to unmarshal job payload", err)
		}

		jobs = append(jobs, retryjob.ReconstructJob(
			id, retryjob.Kind(kind), retryjob.StatusProcessing, payload,
			attempts, maxRetries, nextRunAt, createdAt, startedAt, completedAt,
		))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read claimed retry jobs", err)
	}
	return jobs, nil
}

func (r *RetryJobRepository) Complete(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE retry_jobs SET status = 'completed', completed_at = $2 WHERE id = $1`,
		id, now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to complete retry job", err)
	}
	return nil
}

func (r *RetryJobRepository) Fail(ctx context.Context, dbtx db.DBTX, id uuid.UUID, now time.Time) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE retry_jobs SET status = 'failed', completed_at = $2 WHERE id = $1`,
		id, now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark retry job failed", err)
	}
	return nil
}

func (r *RetryJobRepository) Reschedule(ctx context.Context, dbtx db.DBTX, id uuid.UUID, attempts int32, nextRunAt time.Time) error {
	_, err := dbtx.Exec(ctx, `
		UPDATE retry_jobs
		SET status = 'pending', attempts = $2, next_run_at = $3, started_at = NULL
		WHERE id = $1`,
		id, attempts, nextRunAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to reschedule retry job", err)
	}
	return nil
}
