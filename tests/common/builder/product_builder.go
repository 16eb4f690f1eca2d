//go:build unit || e2e

package builder

import (
	"stock-notifier/internal/domain/product"
	reqdto "stock-notifier/internal/handler/dto/request"
	"stock-notifier/internal/usecase/shared"
)

type ProductBuilder struct {
	ID             string
	Title          string
	TotalInventory int
	TotalVariants  int
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		ID:             "gid://shopify/Product/1",
		Title:          "Widget",
		TotalInventory: 0,
		TotalVariants:  1,
	}
}

func (b *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(b)
	return b
}

func (b *ProductBuilder) WithID(id string) *ProductBuilder {
	b.ID = id
	return b
}

func (b *ProductBuilder) WithTitle(title string) *ProductBuilder {
	b.Title = title
	return b
}

func (b *ProductBuilder) WithInventory(n int) *ProductBuilder {
	b.TotalInventory = n
	return b
}

func (b *ProductBuilder) WithVariants(n int) *ProductBuilder {
	b.TotalVariants = n
	return b
}

// Build methods
func (b *ProductBuilder) BuildDomain() (product.Snapshot, error) {
	return product.NewSnapshot(b.ID, b.Title, b.TotalInventory, b.TotalVariants)
}

// MustBuild skips validation so tests can construct arbitrary snapshots.
func (b *ProductBuilder) MustBuild() product.Snapshot {
	return product.ReconstructSnapshot(b.ID, b.Title, b.TotalInventory, b.TotalVariants)
}

func (b *ProductBuilder) BuildRequestDTO() reqdto.ProductInput {
	return reqdto.ProductInput{
		ID:             b.ID,
		Title:          b.Title,
		TotalInventory: b.TotalInventory,
		TotalVariants:  b.TotalVariants,
	}
}

func (b *ProductBuilder) BuildRecord() shared.ProductRecord {
	return shared.ProductRecord{
		ID:             b.ID,
		Title:          b.Title,
		TotalInventory: b.TotalInventory,
		TotalVariants:  b.TotalVariants,
	}
}
