package request

import (
	"fmt"

	"stock-notifier/internal/domain/product"
)

// ProductInput mirrors the product node of the Admin GraphQL response.
type ProductInput struct {
	ID             string `json:"id" binding:"required"`
	Title          string `json:"title"`
	TotalInventory int    `json:"totalInventory" binding:"min=0"`
	TotalVariants  int    `json:"totalVariants" binding:"min=1"`
}

type SendEmailRequest struct {
	Email    string         `json:"email" binding:"required,email"`
	Products []ProductInput `json:"products" binding:"omitempty,dive"`
}

type ScheduleEmailRequest struct {
	Email    string         `json:"email" binding:"required,email"`
	Products []ProductInput `json:"products" binding:"omitempty,dive"`
	Schedule string         `json:"schedule" binding:"required"`
}

func (r *SendEmailRequest) ToDomain() ([]product.Snapshot, error) {
	return toSnapshots(r.Products)
}

func (r *ScheduleEmailRequest) ToDomain() ([]product.Snapshot, error) {
	return toSnapshots(r.Products)
}

func toSnapshots(in []ProductInput) ([]product.Snapshot, error) {
	out := make([]product.Snapshot, 0, len(in))
	for i, p := range in {
		s, err := product.NewSnapshot(p.ID, p.Title, p.TotalInventory, p.TotalVariants)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
