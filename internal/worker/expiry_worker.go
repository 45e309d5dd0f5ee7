package worker

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/examcore-backend/internal/config"
	"github.com/stemsi/examcore-backend/internal/repository"
	"github.com/stemsi/examcore-backend/internal/service"
)

const (
	expiryBatchSize = 50
	dbSweepInterval = time.Minute
)

// ExpiryWorker enforces exam time limits. Deadlines are registered in a
// Redis sorted set at attempt start; the worker polls for overdue entries
// and grades them. A slower database sweep self-heals any attempt whose
// deadline entry was lost from Redis.
type ExpiryWorker struct {
	rdb            *redis.Client
	attemptRepo    *repository.AttemptRepository
	gradingService *service.GradingService
	pollInterval   time.Duration
	log            zerolog.Logger
}

func NewExpiryWorker(
	rdb *redis.Client,
	attemptRepo *repository.AttemptRepository,
	gradingService *service.GradingService,
	pollInterval time.Duration,
	log zerolog.Logger,
) *ExpiryWorker {
	return &ExpiryWorker{
		rdb:            rdb,
		attemptRepo:    attemptRepo,
		gradingService: gradingService,
		pollInterval:   pollInterval,
		log:            log.With().Str("component", "expiry_worker").Logger(),
	}
}

func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Dur("poll_interval", w.pollInterval).Msg("ExpiryWorker started")

	poll := time.NewTicker(w.pollInterval)
	defer poll.Stop()

	sweep := time.NewTicker(dbSweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		case <-poll.C:
			w.drainDeadlines(ctx)

		case <-sweep.C:
			w.sweepDatabase(ctx)
		}
	}
}

// drainDeadlines grades every attempt whose Redis deadline has passed.
func (w *ExpiryWorker) drainDeadlines(ctx context.Context) {
	key := config.CacheKey.AttemptDeadlinesKey()

	members, err := w.rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   formatUnix(time.Now()),
		Count: expiryBatchSize,
	}).Result()
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("ZRangeByScore error")
		}
		return
	}

	for _, member := range members {
		attemptID, err := uuid.Parse(member)
		if err != nil {
			// Garbage entry; drop it so it cannot wedge the set.
			w.rdb.ZRem(ctx, key, member)
			w.log.Error().Str("member", member).Msg("Invalid deadline entry removed")
			continue
		}

		w.expire(ctx, attemptID)
		w.rdb.ZRem(ctx, key, member)
	}
}

// sweepDatabase grades expired IN_PROGRESS attempts straight from the
// database, covering deadlines that never made it into Redis.
func (w *ExpiryWorker) sweepDatabase(ctx context.Context) {
	ids, err := w.attemptRepo.ListExpiredInProgress(ctx, time.Now(), expiryBatchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Expired attempt sweep failed")
		}
		return
	}

	for _, id := range ids {
		w.expire(ctx, id)
	}
}

func (w *ExpiryWorker) expire(ctx context.Context, attemptID uuid.UUID) {
	_, err := w.gradingService.SubmitExpired(ctx, attemptID)
	if err != nil {
		// Already submitted by the student (or a concurrent worker run).
		if errors.Is(err, service.ErrAttemptNotActive) {
			return
		}
		w.log.Error().Err(err).
			Str("attempt_id", attemptID.String()).
			Msg("Failed to grade expired attempt")
		return
	}

	w.log.Info().
		Str("attempt_id", attemptID.String()).
		Msg("Expired attempt auto-graded")
}

func formatUnix(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}
