// -----------------------------------------------------------------------
// Knowledge Queue Manager - fair two-level job scheduler
// Round-robin across bases, bounded globally and per base, with three
// shared stage pools gating read / embed / write work.
// -----------------------------------------------------------------------

package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/models"
	"github.com/ternarybob/noesis/internal/workers"
)

type queuedJob struct {
	job    models.Job
	task   Task
	ticket *Ticket
}

type activeJob struct {
	job    models.Job
	cancel context.CancelFunc
}

type pendingProgress struct {
	value int
	timer *time.Timer
}

// Manager schedules ingestion jobs fairly across knowledge bases. All
// internal state is guarded by a single mutex; the stage pools carry their
// own synchronization.
type Manager struct {
	mu sync.Mutex

	globalConcurrency  int
	perBaseConcurrency int
	maxQueueSize       int
	throttle           time.Duration

	queues      map[string][]*queuedJob
	queuedItems map[string]*queuedJob
	queuedCount int

	baseOrder  []string
	baseCursor int

	activeGlobal int
	activeByBase map[string]int
	processing   map[string]*activeJob

	ioPool    *workers.Pool
	embedPool *workers.Pool
	writePool *workers.Pool

	tracker   *workers.ProgressTracker
	pending   map[string]*pendingProgress
	highWater map[string]int

	scheduling bool

	ctx    context.Context
	cancel context.CancelFunc
	logger arbor.ILogger
}

// NewManager creates a scheduler from queue configuration. All bounds are
// normalized to at least 1; MaxQueueSize <= 0 means unbounded.
func NewManager(cfg common.QueueConfig, logger arbor.ILogger) *Manager {
	if logger == nil {
		logger = common.GetLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		globalConcurrency:  atLeastOne(cfg.GlobalConcurrency),
		perBaseConcurrency: atLeastOne(cfg.PerBaseConcurrency),
		maxQueueSize:       cfg.MaxQueueSize,
		throttle:           cfg.ProgressThrottleDuration(),
		queues:             make(map[string][]*queuedJob),
		queuedItems:        make(map[string]*queuedJob),
		activeByBase:       make(map[string]int),
		processing:         make(map[string]*activeJob),
		ioPool:             workers.NewPool(atLeastOne(cfg.IOConcurrency)),
		embedPool:          workers.NewPool(atLeastOne(cfg.EmbeddingConcurrency)),
		writePool:          workers.NewPool(atLeastOne(cfg.WriteConcurrency)),
		tracker:            workers.NewProgressTracker(cfg.ProgressTTLDuration()),
		pending:            make(map[string]*pendingProgress),
		highWater:          make(map[string]int),
		ctx:                ctx,
		cancel:             cancel,
		logger:             logger,
	}
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Enqueue appends a job to its base's queue and schedules. It rejects
// synchronously when the item is already queued or processing, or when the
// queue cap would be exceeded.
func (m *Manager) Enqueue(job models.Job, task Task) (*Ticket, error) {
	m.mu.Lock()

	if _, queued := m.queuedItems[job.ItemID]; queued {
		m.mu.Unlock()
		return nil, models.ErrAlreadyQueued
	}
	if _, running := m.processing[job.ItemID]; running {
		m.mu.Unlock()
		return nil, models.ErrAlreadyQueued
	}
	if m.maxQueueSize > 0 && m.queuedCount+1 > m.maxQueueSize {
		m.mu.Unlock()
		return nil, models.ErrQueueFull
	}

	qj := &queuedJob{
		job:    job,
		task:   task,
		ticket: &Ticket{result: make(chan error, 1)},
	}

	if _, known := m.queues[job.BaseID]; !known {
		m.baseOrder = append(m.baseOrder, job.BaseID)
	} else if len(m.queues[job.BaseID]) == 0 && m.activeByBase[job.BaseID] == 0 && !m.inBaseOrder(job.BaseID) {
		m.baseOrder = append(m.baseOrder, job.BaseID)
	}
	m.queues[job.BaseID] = append(m.queues[job.BaseID], qj)
	m.queuedItems[job.ItemID] = qj
	m.queuedCount++

	m.logger.Debug().
		Str("base_id", job.BaseID).
		Str("item_id", job.ItemID).
		Int("queued", m.queuedCount).
		Msg("Job enqueued")

	m.scheduleLocked()
	m.mu.Unlock()

	return qj.ticket, nil
}

func (m *Manager) inBaseOrder(baseID string) bool {
	for _, id := range m.baseOrder {
		if id == baseID {
			return true
		}
	}
	return false
}

// scheduleLocked drives the scheduling loop. The re-entrancy guard keeps
// the loop from running inside itself when a start callback re-triggers it.
func (m *Manager) scheduleLocked() {
	if m.scheduling {
		return
	}
	m.scheduling = true
	defer func() { m.scheduling = false }()

	for m.activeGlobal < m.globalConcurrency {
		qj := m.nextLocked()
		if qj == nil {
			return
		}
		m.startLocked(qj)
	}
}

// nextLocked scans the base list once starting at the cursor and returns the
// head job of the first base that is below its per-base bound. The cursor
// advances past the contributing base so the next scan starts one later.
func (m *Manager) nextLocked() *queuedJob {
	n := len(m.baseOrder)
	if n == 0 {
		return nil
	}
	if m.baseCursor >= n {
		m.baseCursor = 0
	}

	for i := 0; i < n; i++ {
		idx := (m.baseCursor + i) % n
		baseID := m.baseOrder[idx]

		if m.activeByBase[baseID] >= m.perBaseConcurrency {
			continue
		}
		q := m.queues[baseID]
		if len(q) == 0 {
			continue
		}

		qj := q[0]
		m.queues[baseID] = q[1:]
		// Deliberately not wrapped: a cursor past the end means the next
		// scan starts at whatever base follows, including ones appended
		// after this dequeue.
		m.baseCursor = idx + 1
		return qj
	}
	return nil
}

func (m *Manager) startLocked(qj *queuedJob) {
	job := qj.job

	delete(m.queuedItems, job.ItemID)
	m.queuedCount--
	m.activeGlobal++
	m.activeByBase[job.BaseID]++

	jobCtx, jobCancel := context.WithCancel(m.ctx)
	m.processing[job.ItemID] = &activeJob{job: job, cancel: jobCancel}

	tc := &TaskContext{Job: job, manager: m}

	m.logger.Debug().
		Str("base_id", job.BaseID).
		Str("item_id", job.ItemID).
		Int("active_global", m.activeGlobal).
		Msg("Job started")

	go func() {
		err := qj.task(jobCtx, tc)
		jobCancel()
		m.finish(qj, err)
	}()
}

// finish settles a job: delivers the result, clears progress state, frees
// the slots, prunes the base ordering, and re-drives scheduling.
func (m *Manager) finish(qj *queuedJob, err error) {
	job := qj.job
	qj.ticket.result <- err

	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearProgressLocked(job.ItemID)
	delete(m.processing, job.ItemID)
	m.activeGlobal--
	m.activeByBase[job.BaseID]--
	if m.activeByBase[job.BaseID] <= 0 {
		delete(m.activeByBase, job.BaseID)
	}
	m.pruneBaseLocked(job.BaseID)

	if err != nil && !models.IsAbort(err) {
		m.logger.Debug().
			Err(err).
			Str("item_id", job.ItemID).
			Msg("Job finished with error")
	}

	m.scheduleLocked()
}

// pruneBaseLocked drops a base from the rotation once it is empty and idle.
func (m *Manager) pruneBaseLocked(baseID string) {
	if len(m.queues[baseID]) > 0 || m.activeByBase[baseID] > 0 {
		return
	}
	delete(m.queues, baseID)
	for i, id := range m.baseOrder {
		if id == baseID {
			m.baseOrder = append(m.baseOrder[:i], m.baseOrder[i+1:]...)
			if m.baseCursor > i {
				m.baseCursor--
			}
			if len(m.baseOrder) == 0 {
				m.baseCursor = 0
			} else if m.baseCursor >= len(m.baseOrder) {
				m.baseCursor = 0
			}
			return
		}
	}
}

// Cancel aborts a queued job outright or signals a processing one. A queued
// job's ticket rejects with an abort error; a processing job settles however
// its task reacts to the cancelled context.
func (m *Manager) Cancel(itemID string) models.CancelResult {
	m.mu.Lock()

	if qj, ok := m.queuedItems[itemID]; ok {
		baseID := qj.job.BaseID
		q := m.queues[baseID]
		for i, candidate := range q {
			if candidate == qj {
				m.queues[baseID] = append(q[:i], q[i+1:]...)
				break
			}
		}
		delete(m.queuedItems, itemID)
		m.queuedCount--
		m.clearProgressLocked(itemID)
		m.pruneBaseLocked(baseID)
		m.mu.Unlock()

		qj.ticket.result <- models.NewAbortError("cancelled before start")
		m.logger.Debug().Str("item_id", itemID).Msg("Queued job cancelled")
		return models.CancelResultCancelled
	}

	if aj, ok := m.processing[itemID]; ok {
		m.mu.Unlock()
		aj.cancel()
		m.logger.Debug().Str("item_id", itemID).Msg("Processing job cancellation signalled")
		return models.CancelResultCancelled
	}

	m.mu.Unlock()
	return models.CancelResultIgnored
}

// IsQueued reports whether the item is waiting for a slot.
func (m *Manager) IsQueued(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.queuedItems[itemID]
	return ok
}

// IsProcessing reports whether the item's job is running.
func (m *Manager) IsProcessing(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.processing[itemID]
	return ok
}

// GetStatus returns a snapshot of queue depth and active counts.
func (m *Manager) GetStatus() models.QueueStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := models.QueueStatus{
		QueuedCount:     m.queuedCount,
		ProcessingCount: m.activeGlobal,
		QueuedByBase:    make(map[string]int, len(m.queues)),
		ActiveByBase:    make(map[string]int, len(m.activeByBase)),
	}
	for baseID, q := range m.queues {
		if len(q) > 0 {
			status.QueuedByBase[baseID] = len(q)
		}
	}
	for baseID, n := range m.activeByBase {
		status.ActiveByBase[baseID] = n
	}
	return status
}

// runStage routes body through the pool for the stage. Unknown stage names
// bypass the pools. The cancellation signal is observed at the boundary.
func (m *Manager) runStage(ctx context.Context, stage string, body func() error) error {
	if ctx.Err() != nil {
		return models.NewAbortError("cancelled before stage " + stage)
	}

	var pool *workers.Pool
	switch stage {
	case models.StageRead:
		pool = m.ioPool
	case models.StageEmbed:
		pool = m.embedPool
	case models.StageWrite:
		pool = m.writePool
	default:
		return body()
	}

	err := pool.Run(ctx, body)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return models.NewAbortError("cancelled during stage " + stage)
	}
	return err
}

// UpdateProgress records progress for an item. Values clamp to [0,100] and
// never decrease. Non-immediate values below 100 are coalesced: the maximum
// seen during the throttle window is committed when the window elapses.
func (m *Manager) UpdateProgress(itemID string, value int, immediate bool) {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if value < m.highWater[itemID] {
		return
	}
	m.highWater[itemID] = value

	if immediate || value >= 100 {
		if p, ok := m.pending[itemID]; ok {
			p.timer.Stop()
			delete(m.pending, itemID)
		}
		m.tracker.Set(itemID, value)
		return
	}

	if p, ok := m.pending[itemID]; ok {
		if value > p.value {
			p.value = value
		}
		return
	}

	p := &pendingProgress{value: value}
	p.timer = time.AfterFunc(m.throttle, func() { m.commitProgress(itemID) })
	m.pending[itemID] = p
}

func (m *Manager) commitProgress(itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.pending[itemID]
	if !ok {
		return
	}
	delete(m.pending, itemID)
	m.tracker.Set(itemID, p.value)
}

// GetProgress returns the committed progress for an item, if fresh.
func (m *Manager) GetProgress(itemID string) (int, bool) {
	return m.tracker.Get(itemID)
}

// GetProgressForItems returns committed progress for each requested item.
func (m *Manager) GetProgressForItems(itemIDs []string) map[string]int {
	return m.tracker.GetMany(itemIDs)
}

// ClearProgress drops all progress state for an item.
func (m *Manager) ClearProgress(itemID string) {
	m.mu.Lock()
	m.clearProgressLocked(itemID)
	m.mu.Unlock()
}

func (m *Manager) clearProgressLocked(itemID string) {
	if p, ok := m.pending[itemID]; ok {
		p.timer.Stop()
		delete(m.pending, itemID)
	}
	delete(m.highWater, itemID)
	m.tracker.Delete(itemID)
}

// Stop cancels every active job and stops admitting new work through the
// manager context. Queued jobs remain queued; callers shutting down should
// not expect them to start.
func (m *Manager) Stop() {
	m.cancel()
	m.logger.Debug().Msg("Queue manager stopped")
}
