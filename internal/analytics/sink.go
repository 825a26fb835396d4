package analytics

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luminagen/lumina-backend/internal/models"
	"gorm.io/gorm"
)

const (
	kindPageView = "page_view"
	kindIdentify = "identify"
	kindReset    = "reset"
)

// Sink buffers product events and batch-flushes them to Postgres on a
// ticker. Every call is fire-and-forget: a flush failure is logged and the
// batch dropped; analytics must never affect auth or navigation outcomes.
type Sink struct {
	db     *gorm.DB
	mu     sync.Mutex
	buffer []models.AnalyticsEvent
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func NewSink(db *gorm.DB) *Sink {
	s := &Sink{
		db:     db,
		buffer: make([]models.AnalyticsEvent, 0, 100),
		ticker: time.NewTicker(10 * time.Second),
		done:   make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// PageView records a navigation event with whatever user context is present.
func (s *Sink) PageView(path, subject, email string, registered bool) {
	s.enqueue(models.AnalyticsEvent{
		Kind:       kindPageView,
		Path:       path,
		SubjectID:  subject,
		Email:      email,
		Registered: registered,
	})
}

// Identify records that an authoritative user was published for a session.
func (s *Sink) Identify(subject, email string, registered bool) {
	s.enqueue(models.AnalyticsEvent{
		Kind:       kindIdentify,
		SubjectID:  subject,
		Email:      email,
		Registered: registered,
	})
}

// Reset records a session sign-out.
func (s *Sink) Reset(subject string) {
	s.enqueue(models.AnalyticsEvent{
		Kind:      kindReset,
		SubjectID: subject,
	})
}

func (s *Sink) enqueue(event models.AnalyticsEvent) {
	event.ID = uuid.New()
	event.Timestamp = time.Now().UTC()

	s.mu.Lock()
	s.buffer = append(s.buffer, event)
	needFlush := len(s.buffer) >= 100
	s.mu.Unlock()

	if needFlush {
		go s.flush()
	}
}

func (s *Sink) flushLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.done:
			s.flush()
			return
		}
	}
}

func (s *Sink) flush() {
	s.mu.Lock()
	if len(s.buffer) == 0 {
		s.mu.Unlock()
		return
	}
	batch := s.buffer
	s.buffer = make([]models.AnalyticsEvent, 0, 100)
	s.mu.Unlock()

	if s.db == nil {
		return
	}
	if err := s.db.CreateInBatches(batch, 100).Error; err != nil {
		slog.Warn("failed to flush analytics events", "error", err, "count", len(batch))
	}
}

func (s *Sink) Stop() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

// Pending returns the number of buffered events; used by tests.
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buffer)
}
