package audit

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-booking/internal/models"
)

// Filter narrows an audit listing. Zero fields match everything.
type Filter struct {
	Action string
	Entity string
	From   time.Time
	To     time.Time
	Page   int
	Limit  int
}

func (f Filter) normalized() Filter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	return f
}

func (f Filter) offset() int {
	return (f.Page - 1) * f.Limit
}

func (f Filter) match(l models.AuditLog) bool {
	if f.Action != "" && l.Action != f.Action {
		return false
	}
	if f.Entity != "" && l.Entity != f.Entity {
		return false
	}
	if !f.From.IsZero() && l.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !l.CreatedAt.Before(f.To) {
		return false
	}
	return true
}

// Sink stores audit rows and lists them newest first.
type Sink interface {
	Write(ctx context.Context, l models.AuditLog) error
	List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

func toRow(ev Event, now time.Time) models.AuditLog {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return models.AuditLog{
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
		CreatedAt: now,
	}
}

// --------------------------------------------------
// Postgres
// --------------------------------------------------

type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, l models.AuditLog) error {
	return s.db.WithContext(ctx).Create(&l).Error
}

func (s *GormSink) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f = f.normalized()

	q := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.offset()).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// --------------------------------------------------
// Memory
// --------------------------------------------------

// MemorySink keeps the trail in process, for runs without a database.
type MemorySink struct {
	mu   sync.Mutex
	seq  uint
	logs []models.AuditLog
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, l models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	l.ID = s.seq
	s.logs = append(s.logs, l)
	return nil
}

func (s *MemorySink) List(_ context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f = f.normalized()

	s.mu.Lock()
	var matched []models.AuditLog
	for _, l := range s.logs {
		if f.match(l) {
			matched = append(matched, l)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := f.offset()
	if start >= len(matched) {
		return []models.AuditLog{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

var (
	_ Sink = (*GormSink)(nil)
	_ Sink = (*MemorySink)(nil)
)
