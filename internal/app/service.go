// Package service provides the core business service that implements
// the dependencies required by the HTTP transport surface.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/fiesta/internal/adapters/mq/dispatch"
	"github.com/okian/fiesta/internal/adapters/mq/queue"
	"github.com/okian/fiesta/internal/adapters/repository"
	"github.com/okian/fiesta/internal/domain/conversation"
	"github.com/okian/fiesta/internal/domain/dedupe"
	"github.com/okian/fiesta/internal/domain/identity"
	"github.com/okian/fiesta/internal/domain/model"
	"github.com/okian/fiesta/internal/domain/quiz"
	"github.com/okian/fiesta/internal/domain/ranking"
	"github.com/okian/fiesta/internal/domain/scoring"
	"github.com/okian/fiesta/internal/domain/types"
	"github.com/okian/fiesta/pkg/logger"
	"github.com/okian/fiesta/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize    = 1024
	defaultDedupeSize   = 50000
	defaultDisplaySize  = 10
	defaultReplyTimeout = 10 * time.Second
)

// Service owns the roster, the per-conversation sessions and the state
// machine, and runs the single dispatcher that serializes all mutations.
type Service struct {
	mu sync.RWMutex

	// Core components
	roster     *repository.Roster
	registry   *identity.Registry
	ledger     *scoring.Ledger
	boards     *ranking.Engine
	quizzes    *quiz.Engine
	machine    *conversation.Machine
	deduper    dedupe.Deduper
	updates    *queue.InMemoryQueue
	dispatcher *dispatch.Dispatcher

	// Ephemeral conversation state, keyed by external id. Lost on restart.
	sessions map[string]*model.Session

	// Configuration
	snapshotPath string
	adminIDs     []string
	catalog      []quiz.Definition
	queueSize    int
	dedupeSize   int
	displaySize  int
	replyTimeout time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:     make(map[string]*model.Session),
		queueSize:    defaultQueueSize,
		dedupeSize:   defaultDedupeSize,
		displaySize:  defaultDisplaySize,
		replyTimeout: defaultReplyTimeout,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start restores the roster from the snapshot gateway and launches the
// dispatcher. A missing snapshot starts empty; a corrupt one is diagnosed
// and also starts empty rather than crashing startup.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}

	s.logger.Info(ctx, "starting event service...")

	rosterOpts := []repository.Option{repository.WithLogger(s.logger)}
	if s.snapshotPath != "" {
		gateway := repository.NewFileGateway(s.snapshotPath)
		rosterOpts = append(rosterOpts, repository.WithGateway(gateway))
		switch snap, err := gateway.Load(ctx); {
		case err == nil:
			rosterOpts = append(rosterOpts, repository.WithSnapshot(snap))
			s.logger.Info(ctx, "roster restored from snapshot",
				logger.String("path", s.snapshotPath),
				logger.Int("participants", len(snap.Participants)),
			)
		case repository.IsMissing(err):
			s.logger.Info(ctx, "no snapshot yet; starting with an empty roster",
				logger.String("path", s.snapshotPath))
		default:
			metrics.RecordSnapshotFailure()
			s.logger.Error(ctx, "snapshot unreadable; starting with an empty roster",
				logger.String("path", s.snapshotPath), logger.Error(err))
		}
	} else {
		s.logger.Warn(ctx, "no snapshot path configured; roster is memory-only")
	}

	s.roster = repository.NewRoster(rosterOpts...)
	s.registry = identity.NewRegistry(s.roster)
	s.ledger = scoring.NewLedger(s.roster)
	s.boards = ranking.NewEngine(s.roster, ranking.WithDisplaySize(s.displaySize))

	quizOpts := []quiz.Option{}
	if len(s.catalog) > 0 {
		quizOpts = append(quizOpts, quiz.WithCatalog(s.catalog))
	}
	s.quizzes = quiz.NewEngine(s.ledger, quizOpts...)

	s.machine = conversation.NewMachine(s.registry, s.ledger, s.quizzes, s.boards,
		conversation.WithAdmins(s.adminIDs),
		conversation.WithLogger(s.logger),
	)

	s.deduper = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	s.updates = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.dispatcher = dispatch.New(s.updates, s, dispatch.WithLogger(s.logger))
	s.dispatcher.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "event service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("admins", len(s.adminIDs)),
		logger.Int("quizzes", len(s.quizzes.List())),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	// The dispatcher takes s.mu inside Handle while draining, so the lock
	// cannot be held across the drain wait.
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	updates := s.updates
	dispatcher := s.dispatcher
	log := s.logger
	s.mu.Unlock()

	ctx := context.Background()
	log.Info(ctx, "stopping event service...")

	if updates != nil {
		_ = updates.Close()
	}
	if dispatcher != nil {
		if err := dispatcher.Stop(ctx); err != nil {
			log.Warn(ctx, "dispatcher did not drain cleanly", logger.Error(err))
		}
	}

	log.Info(ctx, "event service stopped")
}

// SeenAndRecord atomically checks if an update id was seen and records it if
// not. Returns true if the update was already seen. Gateway redeliveries are
// answered without reprocessing.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordUpdateDuplicate()
	}
	return seen
}

// Unrecord removes an update ID from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Submit queues one inbound update and waits for its reply. The dispatcher
// processes updates strictly one at a time, which is the whole concurrency
// story for the roster: no two sessions ever mutate it at once.
func (s *Service) Submit(ctx context.Context, update model.Update, in types.Input) (model.Reply, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.Reply{}, ErrNotStarted
	}

	item := queue.Item{
		Update: update,
		Input:  in,
		Reply:  make(chan model.Reply, 1),
	}
	if !s.updates.Enqueue(ctx, item) {
		// Give the gateway a chance to redeliver this update later.
		if update.UpdateID != "" {
			s.deduper.Unrecord(ctx, update.UpdateID)
		}
		metrics.RecordUpdateRejected()
		return model.Reply{}, ErrBackpressure
	}

	select {
	case reply := <-item.Reply:
		return reply, nil
	case <-time.After(s.replyTimeout):
		return model.Reply{}, ErrReplyTimeout
	case <-ctx.Done():
		return model.Reply{}, ctx.Err()
	}
}

// Handle runs one decoded update through the state machine. Called only from
// the dispatcher goroutine.
func (s *Service) Handle(ctx context.Context, update model.Update, in types.Input) model.Reply {
	// Stats readers look at len(s.sessions) concurrently, so the map itself
	// stays behind the lock. Session contents are dispatcher-only.
	s.mu.Lock()
	sess, ok := s.sessions[update.ExternalID]
	if !ok {
		sess = model.NewSession()
		s.sessions[update.ExternalID] = sess
		metrics.UpdateSessionsActive(len(s.sessions))
	}
	s.mu.Unlock()
	return s.machine.Handle(ctx, update.ExternalID, sess, in)
}

// Board returns one track's leaderboard without a viewer line.
func (s *Service) Board(ctx context.Context, track types.Track) types.Board {
	return s.boards.Board(ctx, track, 0)
}

// RankOf resolves a participant by id or name and returns their exact rank
// within their own track.
func (s *Service) RankOf(ctx context.Context, query string) (types.Entry, error) {
	p, ok := s.registry.FindByQuery(ctx, query)
	if !ok {
		return types.Entry{}, repository.ErrNotFound
	}
	entry, ok := s.boards.Rank(ctx, p.Track, p.ID)
	if !ok {
		return types.Entry{}, repository.ErrNotFound
	}
	return entry, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
	}

	if s.started {
		var onSite, remote int
		for _, p := range s.roster.All(ctx) {
			if p.Track == types.TrackRemote {
				remote++
			} else {
				onSite++
			}
		}
		stats["participants"] = s.roster.Count(ctx)
		stats["participantsOnSite"] = onSite
		stats["participantsRemote"] = remote
		stats["sessions"] = len(s.sessions)
		stats["queueLength"] = s.updates.Len(ctx)
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateParticipants(string(types.TrackOnSite), onSite)
		metrics.UpdateParticipants(string(types.TrackRemote), remote)
		metrics.UpdateSessionsActive(len(s.sessions))
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
