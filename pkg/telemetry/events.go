package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event in the OpenMFG system.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// JobID is the associated job ID, if applicable.
	JobID string `json:"job_id,omitempty"`

	// ActionID is the associated action ID, if applicable.
	ActionID string `json:"action_id,omitempty"`

	// ResourceID is the associated resource ID, if applicable.
	ResourceID string `json:"resource_id,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeJobStarted             = "job.started"
	EventTypeJobCompleted           = "job.completed"
	EventTypeJobCancelled           = "job.cancelled"
	EventTypeJobOnHold              = "job.on_hold"
	EventTypeJobResumed             = "job.resumed"
	EventTypeActionStatusChanged    = "action.status_changed"
	EventTypeRequirementUnsatisfied = "requirement.unsatisfied"
	EventTypeAllocationRecorded     = "allocation.recorded"
	EventTypePartLowStock           = "part.low_stock"
	EventTypeError                  = "error"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config:      cfg,
		buffer:      make(chan Event, cfg.BufferSize),
		subscribers: make([]subscriberEntry, 0),
		filters:     make([]EventFilter, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start the event processing goroutine
	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	// Start the periodic flush goroutine
	if cfg.FlushInterval > 0 {
		ep.wg.Add(1)
		go ep.periodicFlush()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	// Set ID and timestamp if not already set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Apply global filters
	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil // Event filtered out
		}
	}
	ep.mu.RUnlock()

	// Send to buffer if async, otherwise process immediately
	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			// Buffer full, drop event or log warning
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	// Synchronous publishing
	ep.deliverEvent(event)
	return nil
}

// PublishJobStarted publishes a job started event.
func (ep *EventPublisher) PublishJobStarted(jobID, priority string) error {
	return ep.Publish(Event{
		Type:    EventTypeJobStarted,
		Source:  "engine",
		JobID:   jobID,
		Message: fmt.Sprintf("Job %s started with priority %s", jobID, priority),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"priority": priority,
		},
	})
}

// PublishJobCompleted publishes a job completed event.
func (ep *EventPublisher) PublishJobCompleted(jobID string, duration time.Duration) error {
	return ep.Publish(Event{
		Type:    EventTypeJobCompleted,
		Source:  "engine",
		JobID:   jobID,
		Message: fmt.Sprintf("Job %s completed", jobID),
		Level:   EventLevelInfo,
		Data: map[string]interface{}{
			"duration": duration.Seconds(),
		},
	})
}

// PublishJobCancelled publishes a job cancelled event.
func (ep *EventPublisher) PublishJobCancelled(jobID, reason string) error {
	return ep.Publish(Event{
		Type:    EventTypeJobCancelled,
		Source:  "engine",
		JobID:   jobID,
		Message: fmt.Sprintf("Job %s cancelled: %s", jobID, reason),
		Level:   EventLevelWarning,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishJobOnHold publishes a job on-hold event.
func (ep *EventPublisher) PublishJobOnHold(jobID, reason string) error {
	return ep.Publish(Event{
		Type:    EventTypeJobOnHold,
		Source:  "engine",
		JobID:   jobID,
		Message: fmt.Sprintf("Job %s placed on hold: %s", jobID, reason),
		Level:   EventLevelWarning,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishJobResumed publishes a job resumed event.
func (ep *EventPublisher) PublishJobResumed(jobID string) error {
	return ep.Publish(Event{
		Type:    EventTypeJobResumed,
		Source:  "engine",
		JobID:   jobID,
		Message: fmt.Sprintf("Job %s resumed", jobID),
		Level:   EventLevelInfo,
	})
}

// PublishActionStatusChanged publishes an action status change event.
func (ep *EventPublisher) PublishActionStatusChanged(jobID, actionID, oldStatus, newStatus string) error {
	return ep.Publish(Event{
		Type:     EventTypeActionStatusChanged,
		Source:   "engine",
		JobID:    jobID,
		ActionID: actionID,
		Message:  fmt.Sprintf("Action %s status changed from %s to %s", actionID, oldStatus, newStatus),
		Level:    EventLevelInfo,
		Data: map[string]interface{}{
			"old_status": oldStatus,
			"new_status": newStatus,
		},
	})
}

// PublishRequirementUnsatisfied publishes an unsatisfied requirement event.
func (ep *EventPublisher) PublishRequirementUnsatisfied(jobID, actionID, locationID string, missing []string) error {
	return ep.Publish(Event{
		Type:     EventTypeRequirementUnsatisfied,
		Source:   "checker",
		JobID:    jobID,
		ActionID: actionID,
		Message:  fmt.Sprintf("Action %s has %d unsatisfied requirements at location %s", actionID, len(missing), locationID),
		Level:    EventLevelWarning,
		Data: map[string]interface{}{
			"location_id": locationID,
			"missing":     missing,
		},
	})
}

// PublishAllocationRecorded publishes a ledger write event.
func (ep *EventPublisher) PublishAllocationRecorded(jobID, actionID, resourceID string) error {
	return ep.Publish(Event{
		Type:       EventTypeAllocationRecorded,
		Source:     "engine",
		JobID:      jobID,
		ActionID:   actionID,
		ResourceID: resourceID,
		Message:    fmt.Sprintf("Resource %s allocated to action %s", resourceID, actionID),
		Level:      EventLevelInfo,
	})
}

// PublishPartLowStock publishes a low stock warning for a part.
func (ep *EventPublisher) PublishPartLowStock(resourceID, partName string, quantity, minStock int) error {
	return ep.Publish(Event{
		Type:       EventTypePartLowStock,
		Source:     "model",
		ResourceID: resourceID,
		Message:    fmt.Sprintf("Part %s below minimum stock: %d of %d", partName, quantity, minStock),
		Level:      EventLevelWarning,
		Data: map[string]interface{}{
			"part":      partName,
			"quantity":  quantity,
			"min_stock": minStock,
		},
	})
}

// Subscribe adds a new event subscriber.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents processes events from the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	batch := make([]Event, 0, ep.config.MaxBatchSize)

	for {
		select {
		case event := <-ep.buffer:
			batch = append(batch, event)

			// Flush batch if it reaches max size
			if len(batch) >= ep.config.MaxBatchSize {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-ep.ctx.Done():
			// Flush remaining events before shutting down
			if len(batch) > 0 {
				ep.flushBatch(batch)
			}
			return
		}
	}
}

// periodicFlush flushes events periodically.
func (ep *EventPublisher) periodicFlush() {
	defer ep.wg.Done()

	ticker := time.NewTicker(ep.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Trigger flush by draining buffer
			// This is handled by the processEvents goroutine
		case <-ep.ctx.Done():
			return
		}
	}
}

// flushBatch delivers a batch of events to subscribers.
func (ep *EventPublisher) flushBatch(events []Event) {
	for _, event := range events {
		ep.deliverEvent(event)
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		// Apply subscriber-specific filter
		if entry.filter != nil && !entry.filter(event) {
			continue
		}

		// Call subscriber in a tracked goroutine to avoid blocking;
		// Shutdown waits for in-flight deliveries.
		ep.wg.Add(1)
		go func(sub EventSubscriber) {
			defer ep.wg.Done()
			sub(event)
		}(entry.subscriber)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	// Signal shutdown
	ep.cancel()

	// Wait for processing to complete with timeout
	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByJobID creates a filter that only allows events for a specific job.
func FilterByJobID(jobID string) EventFilter {
	return func(event Event) bool {
		return event.JobID == jobID
	}
}

// FilterByResourceID creates a filter that only allows events for a specific resource.
func FilterByResourceID(resourceID string) EventFilter {
	return func(event Event) bool {
		return event.ResourceID == resourceID
	}
}
