package utils

import "strconv"

// Page describes one page of an ordered result set. Offset/Limit feed the
// store query; the rest is rendering metadata.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// Offset returns the number of items preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// ResolvePage clamps a requested page indicator against the item count.
// A missing or malformed indicator resolves to the first page; an indicator
// past the end resolves to the last page. An empty result set still has one
// (empty) page, so callers never see an error here.
func ResolvePage(raw string, total int64, size int) Page {
	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalPages: totalPages,
		TotalItems: total,
	}
}
