package item

// Item is the sole domain entity: an id/name pair managed by the store.
type Item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
