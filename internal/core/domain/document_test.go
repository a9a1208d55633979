package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_IsBlank(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", true},
		{"whitespace only", " \n\t ", true},
		{"text", "Photosynthesis", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Page{Number: 1, Text: tt.text}.IsBlank())
		})
	}
}

func TestDocument_PageAccounting(t *testing.T) {
	doc := &Document{
		ID: "biology.pdf",
		Pages: []Page{
			{Number: 1, Text: "Cells", Method: ExtractionNative},
			{Number: 2, Text: "", Method: ExtractionNone},
			{Number: 3, Text: "Scanned diagram", Method: ExtractionOCR},
		},
	}

	assert.Equal(t, 3, doc.PageCount())
	assert.Equal(t, 2, doc.TextPages())
	assert.Equal(t, 1, doc.OCRPages())

	assert.False(t, doc.HasPage(0))
	assert.True(t, doc.HasPage(1))
	assert.True(t, doc.HasPage(3))
	assert.False(t, doc.HasPage(4))
}

func TestSegment_Citation(t *testing.T) {
	seg := Segment{DocumentID: "biology.pdf", Page: 4, Text: "Chlorophyll absorbs light."}
	assert.Equal(t, "Document: biology.pdf | Page 4", seg.Citation())
}

func TestIndexStats_IsEmpty(t *testing.T) {
	assert.True(t, IndexStats{}.IsEmpty())
	assert.False(t, IndexStats{Records: 1}.IsEmpty())
}

func TestIntentKind_String(t *testing.T) {
	tests := []struct {
		kind IntentKind
		want string
	}{
		{IntentContentQuery, "content_query"},
		{IntentSystemCommand, "system_command"},
		{IntentConceptual, "conceptual"},
		{IntentTechnical, "technical"},
		{IntentKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestIntentKind_IsQuestion(t *testing.T) {
	assert.False(t, IntentSystemCommand.IsQuestion())
	assert.True(t, IntentContentQuery.IsQuestion())
	assert.True(t, IntentConceptual.IsQuestion())
	assert.True(t, IntentTechnical.IsQuestion())
}

func TestStatus_State(t *testing.T) {
	assert.Equal(t, "Ready", Status{Loaded: true}.State())
	assert.Equal(t, "No PDF loaded", Status{}.State())
}

func TestReply_IsNotFound(t *testing.T) {
	assert.True(t, Reply{Answer: NotFound}.IsNotFound())
	assert.False(t, Reply{Answer: "Photosynthesis converts light."}.IsNotFound())
}

func TestIngestResult(t *testing.T) {
	result := &IngestResult{
		Documents: []DocumentSummary{{ID: "a.pdf"}, {ID: "b.pdf"}},
		Failures:  []IngestFailure{{Path: "c.pdf", Reason: "corrupt or empty PDF"}},
	}

	assert.Equal(t, 2, result.Loaded())
	assert.Equal(t, "corrupt or empty PDF", result.Reason())
	assert.Equal(t, "", (&IngestResult{}).Reason())
}
