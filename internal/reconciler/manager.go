package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"appcontroller/pkg/logging"
)

// Manager drives reconciliation for one resource kind.
//
// It manages:
//   - The change source feeding notifications
//   - The work queue and worker pool
//   - Scheduling of requeues returned by the handler or the error policy
//   - Per-object status tracking
type Manager struct {
	mu sync.RWMutex

	config ManagerConfig

	// source produces change notifications
	source ChangeSource

	// handler reconciles one object
	handler Handler

	// policy reschedules failed reconciles
	policy ErrorPolicy

	// queue is the work queue for reconciliation requests
	queue *delayedQueue

	// statusTracker tracks reconciliation status for each object
	statusTracker map[string]*ReconcileStatus

	// failures counts consecutive failures per object
	failures map[string]int

	// deleted marks objects whose last notification was a deletion
	deleted map[string]bool

	// changeChan receives change events from the source
	changeChan chan ChangeEvent

	// ctx is the manager's context
	ctx context.Context

	// cancelFunc cancels the manager's context
	cancelFunc context.CancelFunc

	// wg tracks running workers
	wg sync.WaitGroup

	// running indicates if the manager is active
	running bool
}

// NewManager creates a new reconciliation manager.
func NewManager(config ManagerConfig, source ChangeSource, handler Handler, policy ErrorPolicy) *Manager {
	// Apply defaults
	if config.WorkerCount == 0 {
		config.WorkerCount = 4
	}
	if config.ReconcileTimeout == 0 {
		config.ReconcileTimeout = 30 * time.Second
	}
	if config.ChangeBufferSize == 0 {
		config.ChangeBufferSize = 100
	}

	return &Manager{
		config:        config,
		source:        source,
		handler:       handler,
		policy:        policy,
		queue:         NewDelayedQueue(),
		statusTracker: make(map[string]*ReconcileStatus),
		failures:      make(map[string]int),
		deleted:       make(map[string]bool),
		changeChan:    make(chan ChangeEvent, config.ChangeBufferSize),
	}
}

// Start starts the change source, then the workers. It returns once the
// source reports ready.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}

	m.ctx, m.cancelFunc = context.WithCancel(ctx)
	m.running = true
	m.mu.Unlock()

	if err := m.source.Start(m.ctx, m.changeChan); err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		m.cancelFunc()
		return fmt.Errorf("failed to start change source: %w", err)
	}

	// Start event processor
	m.wg.Add(1)
	go m.processChangeEvents()

	// Start workers
	for i := 0; i < m.config.WorkerCount; i++ {
		m.wg.Add(1)
		go m.worker(i)
	}

	logging.Info("ReconcileManager", "Started with %d workers, source %s", m.config.WorkerCount, m.source.GetSource())
	return nil
}

// processChangeEvents converts change events to reconcile requests.
func (m *Manager) processChangeEvents() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return

		case event, ok := <-m.changeChan:
			if !ok {
				return
			}
			m.handleChangeEvent(event)
		}
	}
}

// handleChangeEvent processes a single change event.
func (m *Manager) handleChangeEvent(event ChangeEvent) {
	logging.Debug("ReconcileManager", "Handling change event: %s %s/%s",
		event.Operation, event.Namespace, event.Name)

	req := Request{
		Name:      event.Name,
		Namespace: event.Namespace,
	}

	m.mu.Lock()
	if event.Operation == OperationDelete {
		m.deleted[req.Key()] = true
	} else {
		delete(m.deleted, req.Key())
	}
	m.mu.Unlock()

	m.updateStatus(req, StatePending, "", "")
	m.queue.Add(req)
}

// worker processes reconciliation requests from the queue.
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	logging.Debug("ReconcileManager", "Worker %d started", id)

	for {
		req, ok := m.queue.Get(m.ctx)
		if !ok {
			logging.Debug("ReconcileManager", "Worker %d shutting down", id)
			return
		}

		m.processRequest(req)
		m.queue.Done(req)
	}
}

// processRequest handles a single reconciliation request.
func (m *Manager) processRequest(req Request) {
	key := req.Key()

	m.mu.RLock()
	req.Attempt = m.failures[key] + 1
	timeout := m.config.ReconcileTimeout
	m.mu.RUnlock()

	m.updateStatus(req, StateReconciling, "", "")

	logging.Debug("ReconcileManager", "Reconciling %s (attempt %d)", key, req.Attempt)

	// Execute reconciliation with timeout to prevent hung handlers from blocking workers
	ctx, cancel := context.WithTimeout(m.ctx, timeout)
	defer cancel()

	action, err := m.handler.Reconcile(ctx, req)

	// A manager shutdown is not a reconcile failure.
	if m.ctx.Err() != nil {
		return
	}
	if err == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("reconciliation timed out after %v", timeout)
	}

	if err != nil {
		m.handleReconcileError(req, err)
		return
	}
	m.handleSuccess(req, action)
}

// handleReconcileError hands a failed reconcile to the error policy and
// schedules what it returns.
func (m *Manager) handleReconcileError(req Request, err error) {
	key := req.Key()
	logging.Warn("ReconcileManager", "Reconciliation failed for %s: %v", key, err)

	m.mu.Lock()
	m.failures[key] = req.Attempt
	m.mu.Unlock()

	action := m.policy.OnError(req, err)
	delay, requeue := action.Requeue()
	if !requeue {
		logging.Error("ReconcileManager", err, "Not retrying %s until it changes", key)
		m.queue.Forget(req)
		m.updateStatus(req, StateFailed, err.Error(), action.String())
		return
	}

	m.updateStatus(req, StateError, err.Error(), action.String())
	m.queue.AddAfter(req, delay)

	logging.Debug("ReconcileManager", "Requeuing %s after %v (attempt %d)", key, delay, req.Attempt+1)
}

// handleSuccess schedules the directive of a successful reconcile.
func (m *Manager) handleSuccess(req Request, action Action) {
	key := req.Key()

	m.mu.Lock()
	delete(m.failures, key)
	gone := m.deleted[key]
	m.mu.Unlock()

	delay, requeue := action.Requeue()
	if !requeue {
		m.queue.Forget(req)
		if gone {
			m.forgetStatus(req)
			logging.Debug("ReconcileManager", "Dropped %s after deletion", key)
			return
		}
	} else {
		m.queue.AddAfter(req, delay)
	}

	logging.Debug("ReconcileManager", "Successfully reconciled %s, next: %s", key, action)
	m.updateStatus(req, StateSynced, "", action.String())
}

// updateStatus updates the reconciliation status for an object.
func (m *Manager) updateStatus(req Request, state ReconcileState, errMsg, next string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := req.Key()
	status, ok := m.statusTracker[key]
	if !ok {
		status = &ReconcileStatus{
			Name:      req.Name,
			Namespace: req.Namespace,
		}
		m.statusTracker[key] = status
	}

	status.State = state
	status.LastError = errMsg
	if next != "" {
		status.NextAction = next
	}

	switch state {
	case StateSynced:
		now := time.Now()
		status.LastReconcileTime = &now
		status.RetryCount = 0
	case StateError, StateFailed:
		status.RetryCount++
	}
}

func (m *Manager) forgetStatus(req Request) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := req.Key()
	delete(m.statusTracker, key)
	delete(m.deleted, key)
}

// Stop gracefully shuts down the reconciliation manager.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	logging.Info("ReconcileManager", "Stopping reconciliation manager...")

	// Cancel context
	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	// Stop source
	if err := m.source.Stop(); err != nil {
		logging.Error("ReconcileManager", err, "Error stopping change source")
	}

	// Shutdown queue
	m.queue.Shutdown()

	// Wait for workers
	m.wg.Wait()

	logging.Info("ReconcileManager", "Reconciliation manager stopped")
	return nil
}

// GetStatus returns a copy of the reconciliation status for an object.
func (m *Manager) GetStatus(namespace, name string) (ReconcileStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status, ok := m.statusTracker[Request{Namespace: namespace, Name: name}.Key()]
	if !ok {
		return ReconcileStatus{}, false
	}
	return *status, true
}

// GetAllStatuses returns all reconciliation statuses.
func (m *Manager) GetAllStatuses() []ReconcileStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statuses := make([]ReconcileStatus, 0, len(m.statusTracker))
	for _, status := range m.statusTracker {
		statuses = append(statuses, *status)
	}
	return statuses
}

// TriggerReconcile manually triggers reconciliation for an object.
func (m *Manager) TriggerReconcile(namespace, name string) {
	event := ChangeEvent{
		Name:      name,
		Namespace: namespace,
		Operation: OperationUpdate,
		Timestamp: time.Now(),
		Source:    SourceManual,
	}
	m.handleChangeEvent(event)
}

// IsRunning returns whether the manager is running.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// GetQueueLength returns the current queue length.
func (m *Manager) GetQueueLength() int {
	return m.queue.Len()
}

// GetScheduledCount returns the number of pending delayed requeues.
func (m *Manager) GetScheduledCount() int {
	return m.queue.Pending()
}
