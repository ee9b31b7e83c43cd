package ballchasing

import (
	"context"
)

// fetchPageFunc retrieves one listing page and returns its records plus the
// URL of the next page, or "" when the server signals the last page.
type fetchPageFunc[T any] func(ctx context.Context, pageURL string) ([]T, string, error)

// pager walks a paginated listing one record at a time, fetching the next
// page only when the consumer steps past the current page's end. It is
// forward-only: the cursor from each response replaces the last, and a
// finished pager cannot be rewound.
type pager[T any] struct {
	ctx       context.Context
	fetch     fetchPageFunc[T]
	nextURL   string
	buf       []T
	idx       int
	remaining int
	err       error
}

func newPager[T any](ctx context.Context, firstURL string, limit int, fetch fetchPageFunc[T]) pager[T] {
	if limit <= 0 {
		limit = -1
	}
	return pager[T]{
		ctx:       ctx,
		fetch:     fetch,
		nextURL:   firstURL,
		idx:       -1,
		remaining: limit,
	}
}

// next advances to the following record, fetching a page when the buffer is
// exhausted. It returns false at the end of the listing, at the caller's
// record cap, or on error.
func (p *pager[T]) next() bool {
	if p.err != nil || p.remaining == 0 {
		return false
	}

	p.idx++
	for p.idx >= len(p.buf) {
		if p.nextURL == "" {
			return false
		}

		records, nextURL, err := p.fetch(p.ctx, p.nextURL)
		if err != nil {
			p.err = err
			return false
		}

		p.buf = records
		p.idx = 0
		p.nextURL = nextURL
	}

	if p.remaining > 0 {
		p.remaining--
	}
	return true
}

// current returns the record the pager is positioned on. Only valid after a
// next call that returned true.
func (p *pager[T]) current() T {
	return p.buf[p.idx]
}

// ReplayIterator is a lazy, forward-only sequence of replay summaries
// produced by ListReplays. Use it like a bufio.Scanner:
//
//	for it.Next() {
//		replay := it.Replay()
//	}
//	if err := it.Err(); err != nil {
//		// handle the failed page fetch
//	}
type ReplayIterator struct {
	pager pager[Replay]
}

// Next advances the iterator to the next replay, issuing a network request
// only when the current page is exhausted. It returns false when the
// listing ends or a page fetch fails; check Err afterwards.
func (it *ReplayIterator) Next() bool {
	return it.pager.next()
}

// Replay returns the replay summary at the iterator's position.
func (it *ReplayIterator) Replay() Replay {
	return it.pager.current()
}

// Err returns the error that stopped iteration, if any.
func (it *ReplayIterator) Err() error {
	return it.pager.err
}

// GroupIterator is a lazy, forward-only sequence of replay groups produced
// by ListGroups.
type GroupIterator struct {
	pager pager[Group]
}

// Next advances the iterator to the next group, issuing a network request
// only when the current page is exhausted. It returns false when the
// listing ends or a page fetch fails; check Err afterwards.
func (it *GroupIterator) Next() bool {
	return it.pager.next()
}

// Group returns the group record at the iterator's position.
func (it *GroupIterator) Group() Group {
	return it.pager.current()
}

// Err returns the error that stopped iteration, if any.
func (it *GroupIterator) Err() error {
	return it.pager.err
}
