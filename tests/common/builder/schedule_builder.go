//go:build unit || e2e

package builder

import (
	"time"

	"stock-notifier/internal/domain/product"
	"stock-notifier/internal/domain/schedule"
	reqdto "stock-notifier/internal/handler/dto/request"
	"stock-notifier/internal/usecase"
	"stock-notifier/internal/usecase/shared"

	"github.com/google/uuid"
)

type ScheduleBuilder struct {
	ID         uuid.UUID
	Expression string
	Recipient  string
	Products   []product.Snapshot
	Now        time.Time
}

func NewScheduleBuilder() *ScheduleBuilder {
	return &ScheduleBuilder{
		ID:         uuid.Nil,
		Expression: "0 * * * *",
		Recipient:  "merchant@example.com",
		Products:   []product.Snapshot{NewProductBuilder().MustBuild()},
		Now:        time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC),
	}
}

func (b *ScheduleBuilder) With(mutate func(*ScheduleBuilder)) *ScheduleBuilder {
	mutate(b)
	return b
}

func (b *ScheduleBuilder) WithID(id uuid.UUID) *ScheduleBuilder {
	b.ID = id
	return b
}

func (b *ScheduleBuilder) WithExpression(expr string) *ScheduleBuilder {
	b.Expression = expr
	return b
}

func (b *ScheduleBuilder) WithRecipient(recipient string) *ScheduleBuilder {
	b.Recipient = recipient
	return b
}

func (b *ScheduleBuilder) WithProducts(products ...product.Snapshot) *ScheduleBuilder {
	b.Products = products
	return b
}

func (b *ScheduleBuilder) WithNow(now time.Time) *ScheduleBuilder {
	b.Now = now
	return b
}

// Build methods
func (b *ScheduleBuilder) BuildDomain() (*schedule.Job, error) {
	return schedule.NewJob(b.ID, b.Expression, b.Recipient, b.Products, b.Now)
}

func (b *ScheduleBuilder) BuildParams() usecase.RegisterParams {
	return usecase.RegisterParams{
		Expression: b.Expression,
		Recipient:  b.Recipient,
		Products:   b.Products,
	}
}

func (b *ScheduleBuilder) BuildRecord() shared.ScheduleRecord {
	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	products := make([]shared.ProductRecord, len(b.Products))
	for i, p := range b.Products {
		products[i] = shared.ProductRecord{
			ID:             p.ID(),
			Title:          p.Title(),
			TotalInventory: p.TotalInventory(),
			TotalVariants:  p.TotalVariants(),
		}
	}
	return shared.ScheduleRecord{
		ID:         id,
		Expression: b.Expression,
		Recipient:  b.Recipient,
		Products:   products,
		CreatedAt:  b.Now,
	}
}

func (b *ScheduleBuilder) BuildView() *usecase.JobView {
	job, err := b.BuildDomain()
	if err != nil {
		panic("ScheduleBuilder.BuildView: " + err.Error())
	}
	return &usecase.JobView{
		ID:         job.ID(),
		Expression: job.Expression(),
		Recipient:  job.Recipient(),
		Products:   job.Products(),
		State:      job.State(),
		CreatedAt:  job.CreatedAt(),
		NextFireAt: job.NextFireAt(),
	}
}

func (b *ScheduleBuilder) BuildScheduleRequestDTO() reqdto.ScheduleEmailRequest {
	return reqdto.ScheduleEmailRequest{
		Email:    b.Recipient,
		Products: productInputs(b.Products),
		Schedule: b.Expression,
	}
}

func (b *ScheduleBuilder) BuildSendRequestDTO() reqdto.SendEmailRequest {
	return reqdto.SendEmailRequest{
		Email:    b.Recipient,
		Products: productInputs(b.Products),
	}
}

func productInputs(ps []product.Snapshot) []reqdto.ProductInput {
	out := make([]reqdto.ProductInput, len(ps))
	for i, p := range ps {
		out[i] = reqdto.ProductInput{
			ID:             p.ID(),
			Title:          p.Title(),
			TotalInventory: p.TotalInventory(),
			TotalVariants:  p.TotalVariants(),
		}
	}
	return out
}
