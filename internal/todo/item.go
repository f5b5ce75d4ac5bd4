package todo

// Item is a single to-do entry. Children are owned by their parent and keep
// insertion order.
type Item struct {
	title     string
	completed bool
	subItems  []*Item
}

// NewItem returns an uncompleted item with no children.
func NewItem(title string) *Item {
	return &Item{title: title}
}

// Title returns the item title.
func (i *Item) Title() string {
	return i.title
}

// IsCompleted reports whether the item is completed.
func (i *Item) IsCompleted() bool {
	return i.completed
}

// MarkCompleted completes the item and every descendant.
func (i *Item) MarkCompleted() {
	i.SetCompleted(true)
}

// MarkNotCompleted reopens the item and every descendant.
func (i *Item) MarkNotCompleted() {
	i.SetCompleted(false)
}

// SetCompleted forces the completion state on the item and all of its
// descendants. Parents are never updated from their children.
func (i *Item) SetCompleted(done bool) {
	i.completed = done
	for _, child := range i.subItems {
		child.SetCompleted(done)
	}
}

// Toggle flips the item's own state and cascades the result downwards.
func (i *Item) Toggle() {
	i.SetCompleted(!i.completed)
}

// AddChild appends child as the last sub-item.
func (i *Item) AddChild(child *Item) {
	i.subItems = append(i.subItems, child)
}

// ChildCount returns the number of direct children.
func (i *Item) ChildCount() int {
	return len(i.subItems)
}

// CompletedCount returns the number of completed direct children.
func (i *Item) CompletedCount() int {
	n := 0
	for _, child := range i.subItems {
		if child.completed {
			n++
		}
	}
	return n
}

// Children returns the direct children in insertion order. The returned
// slice is a copy; appending to it does not change the item.
func (i *Item) Children() []*Item {
	out := make([]*Item, len(i.subItems))
	copy(out, i.subItems)
	return out
}

// Walk calls fn for the item and every descendant in pre-order.
// The item itself is visited at depth 0.
func (i *Item) Walk(fn func(depth int, it *Item)) {
	i.walk(0, fn)
}

func (i *Item) walk(depth int, fn func(int, *Item)) {
	fn(depth, i)
	for _, child := range i.subItems {
		child.walk(depth+1, fn)
	}
}
