package product

import "strings"

// Snapshot is a product as captured from the Admin API at request time.
type Snapshot struct {
	id             string
	title          string
	totalInventory int
	totalVariants  int
}

func NewSnapshot(id, title string, totalInventory, totalVariants int) (Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Snapshot{}, ErrEmptyProductID
	}
	if totalInventory < 0 {
		return Snapshot{}, ErrNegativeInventory
	}
	if totalVariants < 1 {
		return Snapshot{}, ErrInvalidVariantCount
	}
	return Snapshot{
		id:             id,
		title:          strings.TrimSpace(title),
		totalInventory: totalInventory,
		totalVariants:  totalVariants,
	}, nil
}

// ReconstructSnapshot rebuilds a snapshot from storage without validation.
func ReconstructSnapshot(id, title string, totalInventory, totalVariants int) Snapshot {
	return Snapshot{id: id, title: title, totalInventory: totalInventory, totalVariants: totalVariants}
}

func (s Snapshot) ID() string          { return s.id }
func (s Snapshot) Title() string       { return s.title }
func (s Snapshot) TotalInventory() int { return s.totalInventory }
func (s Snapshot) TotalVariants() int  { return s.totalVariants }

func (s Snapshot) OutOfStock() bool {
	return s.totalInventory == 0
}

// DisplayTitle falls back to the id for untitled products.
func (s Snapshot) DisplayTitle() string {
	if s.title == "" {
		return s.id
	}
	return s.title
}
