package discovery

import "github.com/five82/commons/internal/forum"

// LastPage is ceil(total/pageSize), never less than 1.
func LastPage(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage limits page to [1, LastPage(total, pageSize)].
func ClampPage(page, total, pageSize int) int {
	if page < 1 {
		return 1
	}
	if last := LastPage(total, pageSize); page > last {
		return last
	}
	return page
}

// CanPrev reports whether a previous page exists.
func CanPrev(page int) bool {
	return page > 1
}

// CanNext reports whether a following page may exist. Without a total, a
// full page is taken to mean there may be more.
func CanNext(p forum.ResultPage, pageSize int) bool {
	if p.HasTotal {
		return p.Page < LastPage(p.Total, pageSize)
	}
	return pageSize > 0 && len(p.Items) >= pageSize
}

// OutOfRange reports whether p's page lies past the last page its total
// allows, in which case the view should move to the clamped page.
func OutOfRange(p forum.ResultPage, pageSize int) bool {
	return p.HasTotal && p.Page > LastPage(p.Total, pageSize)
}
