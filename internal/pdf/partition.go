package pdf

import "fmt"

// DefaultMaxPagesPerChunk is the largest page range sent to the extraction service in one request.
const DefaultMaxPagesPerChunk = 20

// PageRange is a 1-based, inclusive span of pages.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of pages covered by the range.
func (r PageRange) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Selection renders the range in pdfcpu page selection syntax.
func (r PageRange) Selection() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return r.String()
}

// Partition splits totalPages into consecutive ranges of at most maxPages pages.
// A non-positive maxPages means no limit.
func Partition(totalPages, maxPages int) []PageRange {
	if totalPages <= 0 {
		return nil
	}
	if maxPages < 1 || maxPages > totalPages {
		maxPages = totalPages
	}
	out := make([]PageRange, 0, (totalPages+maxPages-1)/maxPages)
	for start := 1; start <= totalPages; start += maxPages {
		end := start + maxPages - 1
		if end > totalPages {
			end = totalPages
		}
		out = append(out, PageRange{Start: start, End: end})
	}
	return out
}
