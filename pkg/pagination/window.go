package pagination

import "strconv"

const (
	maxUnabbreviatedPages = 7
	edgeWindow            = 4 // Pages shown next to the first or last page.
)

// Token is a single entry of a page [Window]: either a page number or an
// ellipsis marker standing in for a run of hidden pages.
type Token struct {
	Page     int
	Ellipsis bool
}

// Ellipsis is the [Token] for a run of hidden pages.
var Ellipsis = Token{Ellipsis: true}

// Page returns the [Token] for page n (1-based).
func Page(n int) Token {
	return Token{Page: n}
}

func (t Token) String() string {
	if t.Ellipsis {
		return "…"
	}

	return strconv.Itoa(t.Page)
}

// Window returns the compact list of page links to show for the 1-based
// current page. Up to seven pages are listed in full; longer ranges keep the
// first page, the last page and the neighbourhood of current, with an
// [Ellipsis] for each gap.
func Window(current, pageCount int) []Token {
	if pageCount <= 0 {
		return nil
	}

	current = clamp(current, 1, pageCount)

	if pageCount <= maxUnabbreviatedPages {
		return pageRange(1, pageCount)
	}

	w := make([]Token, 0, maxUnabbreviatedPages)
	w = append(w, Page(1))

	switch {
	case current <= edgeWindow:
		w = append(w, pageRange(2, edgeWindow+1)...)
		w = append(w, Ellipsis, Page(pageCount))

	case current >= pageCount-edgeWindow+1:
		w = append(w, Ellipsis)
		w = append(w, pageRange(pageCount-edgeWindow, pageCount)...)

	default:
		w = append(w,
			Ellipsis,
			Page(current-1), Page(current), Page(current+1),
			Ellipsis,
			Page(pageCount),
		)
	}

	return w
}

func pageRange(from, to int) []Token {
	out := make([]Token, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, Page(n))
	}

	return out
}
