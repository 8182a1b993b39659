package pagination

// PageState is an immutable view onto one page of a result set.
// Transitions return a new PageState; out-of-range requests are no-ops.
// The invariant 0 <= Index < TotalPages (when TotalPages > 0) holds after
// every transition.
type PageState struct {
	// Index is the zero-based current page index.
	Index int

	// PageSize is the number of items per page. Always > 0.
	PageSize int

	// TotalItems is the length of the underlying identifier list.
	TotalItems int
}

// New creates a PageState at the first page.
func New(pageSize, totalItems int) PageState {
	if pageSize < 1 {
		pageSize = 1
	}
	if totalItems < 0 {
		totalItems = 0
	}
	return PageState{
		Index:      0,
		PageSize:   pageSize,
		TotalItems: totalItems,
	}
}

// TotalPages returns ceil(TotalItems / PageSize). Zero when the result
// set is empty.
func (p PageState) TotalPages() int {
	if p.TotalItems <= 0 {
		return 0
	}
	return (p.TotalItems + p.PageSize - 1) / p.PageSize
}

// Next advances to the following page, or returns p unchanged when
// already on the last page.
func (p PageState) Next() PageState {
	if p.Index < p.TotalPages()-1 {
		p.Index++
	}
	return p
}

// Previous steps back one page, or returns p unchanged when already on
// the first page.
func (p PageState) Previous() PageState {
	if p.Index > 0 {
		p.Index--
	}
	return p
}

// WithPage jumps to the given page index, clamped into the valid range.
func (p PageState) WithPage(index int) PageState {
	p.Index = index
	return p.clamp()
}

// WithPageSize changes the page size and reclamps the index so the
// page window stays valid against the recomputed page count.
func (p PageState) WithPageSize(pageSize int) PageState {
	if pageSize < 1 {
		return p
	}
	p.PageSize = pageSize
	return p.clamp()
}

// Start returns the index of the first item on the current page.
func (p PageState) Start() int {
	return p.Index * p.PageSize
}

// End returns the index one past the last item on the current page.
func (p PageState) End() int {
	end := p.Start() + p.PageSize
	if end > p.TotalItems {
		end = p.TotalItems
	}
	return end
}

// Slice returns the sub-sequence of ids covered by the current page.
// Slices across all pages cover ids exactly once, with no overlaps and
// no gaps.
func (p PageState) Slice(ids []int) []int {
	if len(ids) < p.TotalItems {
		p.TotalItems = len(ids)
	}
	start, end := p.Start(), p.End()
	if start >= end {
		return []int{}
	}
	return ids[start:end]
}

func (p PageState) clamp() PageState {
	last := p.TotalPages() - 1
	if last < 0 {
		last = 0
	}
	if p.Index > last {
		p.Index = last
	}
	if p.Index < 0 {
		p.Index = 0
	}
	return p
}
