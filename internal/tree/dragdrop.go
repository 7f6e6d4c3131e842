package tree

import "context"

// Location is a drop source or target: a (class, section) pair plus the
// semester it belongs to.
type Location struct {
	SemesterID string `json:"semester_id"`
	SectionRef
}

// Drop is the outcome of a drag gesture: an item and where it started and
// ended. A gesture that ends outside any drop target arrives with an empty
// target.
type Drop struct {
	ItemID string   `json:"item_id"`
	From   Location `json:"from"`
	To     Location `json:"to"`
}

// HandleDrop commits a drag gesture through the move operation. Dropping
// outside a target or onto the item's current location does nothing and
// persists nothing.
func (c *Controller) HandleDrop(ctx context.Context, d Drop) error {
	if d.To.ClassID == "" || d.To.Section == "" {
		return nil
	}
	if d.To.SemesterID != "" && d.To.SemesterID != d.From.SemesterID {
		return ErrCrossSemesterMove
	}
	if d.From.SectionRef == d.To.SectionRef {
		return nil
	}
	return c.MoveItem(ctx, d.From.SemesterID, d.ItemID, d.From.SectionRef, d.To.SectionRef)
}
