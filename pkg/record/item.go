package record

// Item is one entry of the ordered app list: an identifier and a display
// name. The list's order is the processing order and must be stable across
// runs, which is why the fetched list is persisted once and reloaded.
type Item struct {
	ID   int
	Name string
}
