package crawl

// workItem is a URL waiting to be crawled at a depth.
type workItem struct {
	url   string
	depth int
}

// workList is the LIFO stack driving a depth-first crawl.
// It is not safe for concurrent use; one controller run owns it.
type workList struct {
	items []workItem
}

// push adds children found at depth so that the first child is popped next.
func (w *workList) push(urls []string, depth int) {
	for i := len(urls) - 1; i >= 0; i-- {
		w.items = append(w.items, workItem{url: urls[i], depth: depth})
	}
}

// pop returns the most recently pushed item.
// The bool result is false if the list is empty.
func (w *workList) pop() (workItem, bool) {
	n := len(w.items)
	if n == 0 {
		return workItem{}, false
	}
	item := w.items[n-1]
	w.items = w.items[:n-1]
	return item, true
}

func (w *workList) len() int { return len(w.items) }
