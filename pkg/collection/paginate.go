package collection

// Page enables pagination and sets the current page to n (n >= 1).
// The last-page flag always resets. Returns the collection so a fetch
// can be chained: c.Page(1).Fetch(ctx).
func (c *Collection) Page(n int) *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	page := n
	c.page = &page
	c.lastPageReached = false
	return c
}

// ClearPage disables pagination and resets the last-page flag.
func (c *Collection) ClearPage() *Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = nil
	c.lastPageReached = false
	return c
}

// IsPaginated reports whether pagination is enabled.
func (c *Collection) IsPaginated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page != nil
}

// CurrentPage returns the current page and whether pagination is
// enabled.
func (c *Collection) CurrentPage() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page == nil {
		return 0, false
	}
	return *c.page, true
}

// IsLastPage reports whether the most recent paginated fetch returned
// zero records. Only meaningful while paginated.
func (c *Collection) IsLastPage() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page != nil && c.lastPageReached
}
