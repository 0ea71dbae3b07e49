package retryjob

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var (
	ErrNilPayload   = errors.New("payload must not be nil")
	ErrNotClaimable = errors.New("job is not claimable")
	ErrExhausted    = errors.New("job attempts exhausted")
)

// Job is a durable unit of deferred, retryable work. Terminal at completed
// or failed; attempts never exceeds maxRetries.
type Job struct {
	id          uuid.UUID
	kind        Kind
	status      Status
	payload     Payload
	attempts    int32
	maxRetries  int32
	nextRunAt   time.Time
	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time
}

func NewJob(payload Payload, maxRetries int32, now time.Time) (*Job, error) {
	if payload == nil {
		return nil, ErrNilPayload
	}
	if maxRetries < 1 {
		return nil, errors.New("max retries must be at least 1")
	}

	return &Job{
		id:         uuid.New(),
		kind:       payload.Kind(),
		status:     StatusPending,
		payload:    payload,
		attempts:   0,
		maxRetries: maxRetries,
		nextRunAt:  now,
		createdAt:  now,
	}, nil
}

func ReconstructJob(
	id uuid.UUID,
	kind Kind,
	status Status,
	payload Payload,
	attempts, maxRetries int32,
	nextRunAt, createdAt time.Time,
	startedAt, completedAt *time.Time,
) *Job {
	return &Job{
		id:          id,
		kind:        kind,
		status:      status,
		payload:     payload,
		attempts:    attempts,
		maxRetries:  maxRetries,
		nextRunAt:   nextRunAt,
		createdAt:   createdAt,
		startedAt:   startedAt,
		completedAt: completedAt,
	}
}

// Claim marks the job processing for the current sweep.
func (j *Job) Claim(now time.Time) error {
	if j.status != StatusPending && j.status != StatusProcessing {
		return ErrNotClaimable
	}
	j.status = StatusProcessing
	t := now
	j.startedAt = &t
	return nil
}

func (j *Job) Complete(now time.Time) {
	j.status = StatusCompleted
	t := now
	j.completedAt = &t
}

// RecordFailure increments attempts and either reschedules the job with
// backoff or marks it permanently failed once maxRetries is reached.
func (j *Job) RecordFailure(now time.Time, backoff BackoffSchedule) {
	j.attempts++
	if j.attempts >= j.maxRetries {
		j.status = StatusFailed
		t := now
		j.completedAt = &t
		return
	}
	j.status = StatusPending
	j.nextRunAt = now.Add(backoff.Delay(j.attempts))
	j.startedAt = nil
}

func (j *Job) Due(now time.Time) bool {
	return j.status == StatusPending && !j.nextRunAt.After(now)
}

// Stale reports whether a processing job has been held past the threshold,
// e.g. because the claiming process crashed mid-flight.
func (j *Job) Stale(now time.Time, threshold time.Duration) bool {
	if j.status != StatusProcessing || j.startedAt == nil {
		return false
	}
	return now.Sub(*j.startedAt) >= threshold
}

func (j *Job) ID() uuid.UUID           { return j.id }
func (j *Job) JobKind() Kind           { return j.kind }
func (j *Job) Status() Status          { return j.status }
func (j *Job) Payload() Payload        { return j.payload }
func (j *Job) Attempts() int32         { return j.attempts }
func (j *Job) MaxRetries() int32       { return j.maxRetries }
func (j *Job) NextRunAt() time.Time    { return j.nextRunAt }
func (j *Job) CreatedAt() time.Time    { return j.createdAt }
func (j *Job) StartedAt() *time.Time   { return j.startedAt }
func (j *Job) CompletedAt() *time.Time { return j.completedAt }

// BackoffSchedule computes the delay before a retry attempt.
type BackoffSchedule struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Delay returns min(BaseDelay * 2^attempts, MaxDelay). Delays are
// non-decreasing in attempts and bounded by MaxDelay.
func (b BackoffSchedule) Delay(attempts int32) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	// Shift overflow guard; beyond 30 doublings any sane MaxDelay caps.
	if attempts > 30 {
		attempts = 30
	}
	d := b.BaseDelay << uint(attempts)
	if d > b.MaxDelay || d <= 0 {
		return b.MaxDelay
	}
	return d
}
