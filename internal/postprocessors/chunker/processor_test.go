package chunker

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sathvika-palakurthi-7/edu-bridge/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
		if len(p.separators) != 5 {
			t.Errorf("expected 5 default separators, got %d", len(p.separators))
		}
	})

	t.Run("custom chunk size", func(t *testing.T) {
		p := New(WithChunkSize(500))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
	})

	t.Run("custom overlap", func(t *testing.T) {
		p := New(WithOverlap(100))
		if p.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", p.overlap)
		}
	})

	t.Run("overlap at or above chunk size falls back to a quarter", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap != 25 {
			t.Errorf("expected overlap 25, got %d", p.overlap)
		}
		p = New(WithChunkSize(100), WithOverlap(100))
		if p.overlap != 25 {
			t.Errorf("expected overlap 25, got %d", p.overlap)
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1), WithSeparators())
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
		if len(p.separators) != len(DefaultSeparators) {
			t.Errorf("expected default separators, got %q", p.separators)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestChunk_BlankPages(t *testing.T) {
	p := New()
	pages := []domain.Page{
		{Number: 1, Text: ""},
		{Number: 2, Text: "   \n\n  "},
	}

	segments := p.Chunk("empty.pdf", pages)
	if len(segments) != 0 {
		t.Errorf("expected 0 segments for blank pages, got %d", len(segments))
	}
}

func TestChunk_SmallPage(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	pages := []domain.Page{{Number: 1, Text: "Photosynthesis converts light into energy."}}

	segments := p.Chunk("biology.pdf", pages)
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}

	seg := segments[0]
	if seg.DocumentID != "biology.pdf" {
		t.Errorf("expected DocumentID 'biology.pdf', got '%s'", seg.DocumentID)
	}
	if seg.Page != 1 {
		t.Errorf("expected page 1, got %d", seg.Page)
	}
	if seg.Text != pages[0].Text {
		t.Errorf("expected segment text to match page text, got %q", seg.Text)
	}
	if seg.Start != 0 || seg.End != len(pages[0].Text) {
		t.Errorf("unexpected offsets %d..%d", seg.Start, seg.End)
	}
	if seg.Position != 0 {
		t.Errorf("expected position 0, got %d", seg.Position)
	}
}

func TestChunk_PagesAreSeparateStreams(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))
	pages := []domain.Page{
		{Number: 1, Text: "Cells are the basic unit of life."},
		{Number: 2, Text: ""},
		{Number: 3, Text: "Mitochondria produce energy for the cell."},
	}

	segments := p.Chunk("cells.pdf", pages)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Page != 1 || segments[1].Page != 3 {
		t.Errorf("expected pages 1 and 3, got %d and %d", segments[0].Page, segments[1].Page)
	}
	if segments[1].Position != 1 {
		t.Errorf("expected positions to run across pages, got %d", segments[1].Position)
	}
}

func TestChunk_SplitsOnParagraphsFirst(t *testing.T) {
	p := New(WithChunkSize(40), WithOverlap(0))
	text := "First paragraph is here.\n\nSecond paragraph is here."

	segments := p.Chunk("doc.pdf", []domain.Page{{Number: 1, Text: text}})
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %q", len(segments), segments)
	}
	if segments[0].Text != "First paragraph is here.\n\n" {
		t.Errorf("unexpected first segment %q", segments[0].Text)
	}
	if segments[1].Text != "Second paragraph is here." {
		t.Errorf("unexpected second segment %q", segments[1].Text)
	}
}

func TestChunk_MergesSmallPiecesUpToSize(t *testing.T) {
	p := New(WithChunkSize(30), WithOverlap(0))
	text := "one two three four five six seven eight nine ten"

	segments := p.Chunk("doc.pdf", []domain.Page{{Number: 1, Text: text}})
	if len(segments) < 2 {
		t.Fatalf("expected several segments, got %d", len(segments))
	}
	for _, seg := range segments {
		if utf8.RuneCountInString(seg.Text) > 30 {
			t.Errorf("segment exceeds size: %q", seg.Text)
		}
		// Word separator keeps words whole.
		if strings.HasPrefix(seg.Text, " ") {
			t.Errorf("segment starts mid-separator: %q", seg.Text)
		}
	}

	var rebuilt strings.Builder
	for _, seg := range segments {
		rebuilt.WriteString(seg.Text)
	}
	if rebuilt.String() != text {
		t.Errorf("without overlap segments should tile the page, got %q", rebuilt.String())
	}
}

func TestChunk_SegmentBoundAndOverlapIdentity(t *testing.T) {
	const size, overlap = 120, 30
	p := New(WithChunkSize(size), WithOverlap(overlap))

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The chloroplast captures light energy and stores it as sugar. ")
		if i%7 == 6 {
			b.WriteString("\n\n")
		}
	}
	page := domain.Page{Number: 2, Text: b.String()}

	segments := p.Chunk("plants.pdf", []domain.Page{page})
	if len(segments) < 5 {
		t.Fatalf("expected many segments, got %d", len(segments))
	}

	for i, seg := range segments {
		if n := utf8.RuneCountInString(seg.Text); n > size {
			t.Errorf("segment %d has %d characters, max %d", i, n, size)
		}
		if page.Text[seg.Start:seg.End] != seg.Text {
			t.Errorf("segment %d offsets do not match its text", i)
		}
		if i == 0 {
			continue
		}

		prev := segments[i-1]
		if seg.Start <= prev.Start {
			t.Fatalf("segment %d does not advance", i)
		}
		if seg.Start < prev.End {
			shared := prev.End - seg.Start
			if n := utf8.RuneCountInString(page.Text[seg.Start:prev.End]); n > overlap {
				t.Errorf("segment %d overlaps by %d characters, max %d", i, n, overlap)
			}
			if prev.Text[len(prev.Text)-shared:] != seg.Text[:shared] {
				t.Errorf("segment %d overlap region differs from previous tail", i)
			}
		}
	}

	last := segments[len(segments)-1]
	if last.End != len(page.Text) {
		t.Errorf("expected last segment to reach end of page, got %d of %d", last.End, len(page.Text))
	}
}

func TestChunk_OverlapAtParagraphEndsCarriesText(t *testing.T) {
	p := New()

	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Paragraph %d opens with a claim about leaf cells. ", i)
		b.WriteString("Stomata open during the day and close at night to save water. ")
		b.WriteString("Guard cells swell when potassium ions flow in, which bends the pore open. ")
		fmt.Fprintf(&b, "The rate in experiment %d depended on light and on humidity.", i)
		b.WriteString("\n\n")
	}
	page := domain.Page{Number: 1, Text: b.String()}

	segments := p.Chunk("leaf.pdf", []domain.Page{page})
	if len(segments) < 10 {
		t.Fatalf("expected many segments, got %d", len(segments))
	}

	for i := 1; i < len(segments); i++ {
		prev, seg := segments[i-1], segments[i]
		if !strings.HasSuffix(prev.Text, "\n\n") {
			continue
		}
		if seg.Start >= prev.End {
			t.Errorf("segment %d does not overlap the paragraph before it", i)
			continue
		}
		shared := page.Text[seg.Start:prev.End]
		if strings.TrimSpace(shared) == "" {
			t.Errorf("segment %d shares only whitespace %q with segment %d", i, shared, i-1)
		}
		if n := utf8.RuneCountInString(shared); n > DefaultChunkOverlap {
			t.Errorf("segment %d overlaps by %d characters, max %d", i, n, DefaultChunkOverlap)
		}
	}
}

func TestChunk_RawCharacterSplit(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	text := strings.Repeat("x", 250)

	segments := p.Chunk("doc.pdf", []domain.Page{{Number: 1, Text: text}})
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}

	want := []span{{0, 100}, {80, 180}, {160, 250}}
	for i, seg := range segments {
		if seg.Start != want[i].start || seg.End != want[i].end {
			t.Errorf("segment %d: expected %d..%d, got %d..%d", i, want[i].start, want[i].end, seg.Start, seg.End)
		}
	}
}

func TestChunk_MultibyteTextCountsCharacters(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(0))
	text := strings.Repeat("é", 25)

	segments := p.Chunk("doc.pdf", []domain.Page{{Number: 1, Text: text}})
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for _, seg := range segments {
		if !utf8.ValidString(seg.Text) {
			t.Errorf("segment split a rune: %q", seg.Text)
		}
	}
	if utf8.RuneCountInString(segments[0].Text) != 10 {
		t.Errorf("expected 10 characters, got %d", utf8.RuneCountInString(segments[0].Text))
	}
}

func TestChunk_IndivisibleUnitEmittedOversized(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(0), WithSeparators("\n\n", "\n", ". ", " "))
	long := strings.Repeat("z", 25)
	text := "short " + long + " end"

	segments := p.Chunk("doc.pdf", []domain.Page{{Number: 1, Text: text}})

	found := false
	for _, seg := range segments {
		if strings.Contains(seg.Text, long) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the indivisible run to be emitted whole, got %q", segments)
	}

	var rebuilt strings.Builder
	for _, seg := range segments {
		rebuilt.WriteString(seg.Text)
	}
	if rebuilt.String() != text {
		t.Errorf("no text should be dropped, got %q", rebuilt.String())
	}
}

func TestChunk_Deterministic(t *testing.T) {
	p := New(WithChunkSize(60), WithOverlap(15))
	pages := []domain.Page{
		{Number: 1, Text: strings.Repeat("Energy flows through ecosystems. ", 10)},
		{Number: 2, Text: strings.Repeat("Matter cycles.\n", 12)},
	}

	first := p.Chunk("eco.pdf", pages)
	second := New(WithChunkSize(60), WithOverlap(15)).Chunk("eco.pdf", pages)

	if len(first) != len(second) {
		t.Fatalf("segment counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("segment %d differs between runs", i)
		}
	}
}

func TestChunk_IDsDependOnDocumentPageAndPosition(t *testing.T) {
	p := New(WithChunkSize(100))
	pages := []domain.Page{{Number: 1, Text: "same text"}}

	a := p.Chunk("a.pdf", pages)
	b := p.Chunk("b.pdf", pages)

	if a[0].ID == b[0].ID {
		t.Error("expected different IDs for different documents")
	}
	if a[0].ID != segmentID("a.pdf", 1, 0) {
		t.Error("expected ID derived from document, page and position")
	}
}

func TestChunk_CitationIntegrity(t *testing.T) {
	p := New(WithChunkSize(40), WithOverlap(10))
	doc := &domain.Document{
		ID: "notes.pdf",
		Pages: []domain.Page{
			{Number: 1, Text: strings.Repeat("alpha beta gamma. ", 8)},
			{Number: 2, Text: ""},
			{Number: 3, Text: strings.Repeat("delta epsilon. ", 8)},
		},
	}

	for _, seg := range p.Chunk(doc.ID, doc.Pages) {
		if seg.DocumentID != doc.ID {
			t.Errorf("segment cites %q, expected %q", seg.DocumentID, doc.ID)
		}
		if !doc.HasPage(seg.Page) {
			t.Errorf("segment cites page %d outside the document", seg.Page)
		}
		if doc.Pages[seg.Page-1].IsBlank() {
			t.Errorf("segment cites blank page %d", seg.Page)
		}
	}
}

func TestProcessor_Process_IgnoresInputSegments(t *testing.T) {
	p := New(WithChunkSize(100))

	existing := []domain.Segment{{ID: "existing", Text: "should be ignored"}}
	doc := &domain.Document{
		ID:    "test-doc",
		Pages: []domain.Page{{Number: 1, Text: "New content to chunk"}},
	}

	segments, err := p.Process(context.Background(), doc, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, seg := range segments {
		if seg.ID == "existing" {
			t.Error("existing segments should be ignored")
		}
	}
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Process(ctx, &domain.Document{ID: "x"}, nil)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}
