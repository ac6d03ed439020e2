package model

// FoodItem is a dish the host asks guests to bring, stored in the
// `event_food_items` table.  QuantityClaimed is a transactionally
// maintained projection: it changes only in the same transaction as the
// RSVP row that claims or releases a unit, so it can never disagree with
// the claim rows.
//
// Fields:
//
//	ID             – primary key identifier.
//	EventID        – owning event.
//	Name           – dish name, e.g. "Salad", "Dessert", "Wine".
//	Description    – optional detail, e.g. "green salad for 6-8 people".
//	QuantityNeeded – units requested by the host, fixed at creation, >= 1.
//	QuantityClaimed – units committed by guests.
type FoodItem struct {
	ID              uint64  // event_food_items.id
	EventID         uint64  // event_food_items.event_id
	Name            string  // event_food_items.name
	Description     *string // event_food_items.description (nullable)
	QuantityNeeded  int     // event_food_items.quantity_needed
	QuantityClaimed int     // event_food_items.quantity_claimed
}

// IsFullyClaimed reports whether every needed unit has been claimed.
func (f *FoodItem) IsFullyClaimed() bool {
	return f.QuantityClaimed >= f.QuantityNeeded
}

// RemainingNeeded returns the units still unclaimed, floored at zero.
func (f *FoodItem) RemainingNeeded() int {
	n := f.QuantityNeeded - f.QuantityClaimed
	if n < 0 {
		return 0
	}
	return n
}
