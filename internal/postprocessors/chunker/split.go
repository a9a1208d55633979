package chunker

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// span is a byte range of page text.
type span struct {
	start, end int
}

// windows returns the segment ranges for one page of text.
// Consecutive ranges overlap by at most p.overlap characters, and the shared
// bytes are the tail of the earlier range and the head of the later one.
func (p *Processor) windows(text string) []span {
	if text == "" {
		return nil
	}

	cuts := p.boundaries(text)
	var out []span

	start := 0
	for start < len(text) {
		end := p.windowEnd(text, cuts, start)
		out = append(out, span{start: start, end: end})
		if end >= len(text) {
			break
		}
		start = p.nextStart(text, start, end)
	}

	return out
}

// boundaries returns every offset where a segment may end, in ascending
// order, always including len(text).
func (p *Processor) boundaries(text string) []int {
	cuts := p.collect(text, 0, p.separators, nil)
	if len(cuts) == 0 || cuts[len(cuts)-1] != len(text) {
		cuts = append(cuts, len(text))
	}
	return cuts
}

// collect appends the end offset of each atom in text. Pieces that fit the
// chunk size are atoms; larger pieces are split again with finer separators.
// A separator stays attached to the piece before it.
func (p *Processor) collect(text string, base int, seps []string, cuts []int) []int {
	if utf8.RuneCountInString(text) <= p.chunkSize {
		return append(cuts, base+len(text))
	}

	sep, finer, ok := pickSeparator(text, seps)
	if !ok {
		// Indivisible.
		return append(cuts, base+len(text))
	}

	if sep == "" {
		for i := range text {
			if i > 0 {
				cuts = append(cuts, base+i)
			}
		}
		return append(cuts, base+len(text))
	}

	for off := 0; off < len(text); {
		end := len(text)
		if i := strings.Index(text[off:], sep); i >= 0 {
			end = off + i + len(sep)
		}
		cuts = p.collect(text[off:end], base+off, finer, cuts)
		off = end
	}
	return cuts
}

// pickSeparator returns the first separator present in text and the finer
// separators after it. The empty separator always applies.
func pickSeparator(text string, seps []string) (string, []string, bool) {
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			return s, seps[i+1:], true
		}
	}
	return "", nil, false
}

// windowEnd returns the furthest boundary reachable from start without
// exceeding the chunk size. When even the nearest boundary is too far, that
// boundary is returned and the segment is oversized.
func (p *Processor) windowEnd(text string, cuts []int, start int) int {
	i := sort.SearchInts(cuts, start+1)
	end := cuts[i]
	n := utf8.RuneCountInString(text[start:end])

	for j := i + 1; j < len(cuts); j++ {
		n += utf8.RuneCountInString(text[cuts[j-1]:cuts[j]])
		if n > p.chunkSize {
			break
		}
		end = cuts[j]
	}
	return end
}

// nextStart picks where the following segment begins: up to p.overlap
// characters before end, moved forward to just after the coarsest separator
// found in that tail so the overlap opens on a natural boundary. Separators
// in the whitespace that closes the segment do not count, so the overlap
// always carries text.
func (p *Processor) nextStart(text string, start, end int) int {
	if p.overlap == 0 {
		return end
	}

	target := end
	for n := 0; n < p.overlap && target > start; n++ {
		_, w := utf8.DecodeLastRuneInString(text[:target])
		target -= w
	}

	tail := text[target:end]
	limit := target + len(strings.TrimRightFunc(tail, unicode.IsSpace))
	for _, sep := range p.separators {
		if sep == "" {
			continue
		}
		if i := strings.Index(tail, sep); i >= 0 && target+i+len(sep) < limit {
			target += i + len(sep)
			break
		}
	}

	if target <= start {
		return end
	}
	return target
}
