package model

// HistoryPageSize is the fixed window width of the history view.
const HistoryPageSize = 3

// Pager is a stable windowed view over an ordered list. The current page is
// clamped back into range whenever the underlying length changes, and the
// navigation operations saturate at the bounds instead of failing.
type Pager struct {
	size      int
	page      int
	pageCount int
}

func NewPager(size int) *Pager {
	if size <= 0 {
		size = HistoryPageSize
	}
	return &Pager{size: size, page: 1, pageCount: 1}
}

// Resize recomputes the page count for n items and clamps the current page.
func (p *Pager) Resize(n int) {
	pc := (n + p.size - 1) / p.size
	if pc < 1 {
		pc = 1
	}
	p.pageCount = pc
	p.clamp()
}

func (p *Pager) Next() {
	if p.page < p.pageCount {
		p.page++
	}
}

func (p *Pager) Prev() {
	if p.page > 1 {
		p.page--
	}
}

// SetPage jumps to a page, clamping into [1, PageCount].
func (p *Pager) SetPage(n int) {
	p.page = n
	p.clamp()
}

func (p *Pager) Page() int      { return p.page }
func (p *Pager) PageCount() int { return p.pageCount }

// Window slices the current page out of items.
func (p *Pager) Window(items []*Job) []*Job {
	start := (p.page - 1) * p.size
	if start >= len(items) {
		return nil
	}
	end := start + p.size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (p *Pager) clamp() {
	if p.page < 1 {
		p.page = 1
	}
	if p.page > p.pageCount {
		p.page = p.pageCount
	}
}
