package service

import (
	"context"
	"strconv"
	"time"

	"github.com/aulalivre/aulalivre/internal/domain/auditlog"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/types"
)

// batchAttemptFunc performs one unit of work for one candidate. Returning
// (false, nil) marks the candidate as intentionally skipped; an error is
// recorded against the candidate and processing continues.
type batchAttemptFunc[T any] func(ctx context.Context, item T) (processed bool, err error)

// runBatch is the shared shape of every job: iterate candidates, attempt
// one unit of work each with error isolation, aggregate a summary. A
// failure never stops the remaining candidates; partial success is a
// normal outcome.
func runBatch[T any](
	ctx context.Context,
	log *logger.Logger,
	job types.JobName,
	items []T,
	idOf func(T) string,
	attempt batchAttemptFunc[T],
) *types.JobRunResult {
	result := types.NewJobRunResult()

	log.Infow("starting job run", "job", job, "candidates", len(items))

	for _, item := range items {
		id := idOf(item)

		processed, err := attempt(ctx, item)
		if err != nil {
			log.Errorw("job candidate failed",
				"job", job,
				"id", id,
				"error", err,
			)
			result.RecordError(id, err)
			continue
		}
		if !processed {
			result.RecordSkipped()
			continue
		}
		result.RecordProcessed()
	}

	log.Infow("completed job run",
		"job", job,
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", len(result.Errors),
	)

	return result
}

// recordJobRun appends the run summary to the audit log. Audit failures are
// logged and swallowed; they must not fail an otherwise successful run.
func recordJobRun(ctx context.Context, log *logger.Logger, repo auditlog.Repository, job types.JobName, result *types.JobRunResult) {
	actor := types.GetUserID(ctx)
	if actor == "" {
		actor = types.SystemUserID
	}

	entry := &auditlog.AuditLog{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_AUDIT_LOG),
		Actor:      actor,
		Action:     "job_run:" + job.String(),
		EntityType: "job",
		EntityID:   job.String(),
		Details: types.Metadata{
			"processed": strconv.Itoa(result.Processed),
			"skipped":   strconv.Itoa(result.Skipped),
			"failed":    strconv.Itoa(len(result.Errors)),
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := repo.Create(ctx, entry); err != nil {
		log.Errorw("failed to write audit log entry", "job", job, "error", err)
	}
}
