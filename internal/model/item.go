package model

// Item is the domain model for a todo entry.
// ID is assigned once at creation and never changes; Name is immutable too.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
}

// Stats counts complete and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Complete {
			done++
		} else {
			pending++
		}
	}
	return
}
