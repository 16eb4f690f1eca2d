package shared

import (
	"time"

	"stock-notifier/internal/domain/product"
	"stock-notifier/internal/domain/schedule"

	"github.com/google/uuid"
)

// Storage-side shape of a schedule job; stores never see domain entities
type ScheduleRecord struct {
	ID           uuid.UUID
	Expression   string
	Recipient    string
	Products     []ProductRecord
	CreatedAt    time.Time
	LastRun      *schedule.Run
	FireCount    int
	FailureCount int
}

type ProductRecord struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	TotalInventory int    `json:"totalInventory"`
	TotalVariants  int    `json:"totalVariants"`
}

func NewScheduleRecord(job *schedule.Job) ScheduleRecord {
	products := job.Products()
	recs := make([]ProductRecord, len(products))
	for i, p := range products {
		recs[i] = ProductRecord{
			ID:             p.ID(),
			Title:          p.Title(),
			TotalInventory: p.TotalInventory(),
			TotalVariants:  p.TotalVariants(),
		}
	}
	return ScheduleRecord{
		ID:           job.ID(),
		Expression:   job.Expression(),
		Recipient:    job.Recipient(),
		Products:     recs,
		CreatedAt:    job.CreatedAt(),
		LastRun:      job.LastRun(),
		FireCount:    job.FireCount(),
		FailureCount: job.FailureCount(),
	}
}

func (r ScheduleRecord) ToDomain(now time.Time) (*schedule.Job, error) {
	products := make([]product.Snapshot, len(r.Products))
	for i, p := range r.Products {
		products[i] = product.ReconstructSnapshot(p.ID, p.Title, p.TotalInventory, p.TotalVariants)
	}
	return schedule.ReconstructJob(
		r.ID, r.Expression, r.Recipient, products,
		r.CreatedAt, r.LastRun, r.FireCount, r.FailureCount, now,
	)
}
