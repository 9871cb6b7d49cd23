package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now()

	doc := Document{
		ID:               "doc-123",
		UserID:           "user-456",
		Name:             "usability-study.pdf",
		FileType:         "application/pdf",
		DocumentType:     DocumentTypeResearch,
		FileSize:         20480,
		IsActive:         true,
		ProcessingStatus: StatusCompleted,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "user-456", doc.UserID)
	assert.Equal(t, "usability-study.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.Equal(t, DocumentTypeResearch, doc.DocumentType)
	assert.Equal(t, int64(20480), doc.FileSize)
	assert.True(t, doc.IsActive)
	assert.Equal(t, StatusCompleted, doc.ProcessingStatus)
	assert.Equal(t, now, doc.CreatedAt)
	assert.Equal(t, now, doc.UpdatedAt)
}

// TestDocument_Searchable tests the retrieval eligibility rule
func TestDocument_Searchable(t *testing.T) {
	tests := []struct {
		name     string
		active   bool
		status   ProcessingStatus
		expected bool
	}{
		{"active and completed", true, StatusCompleted, true},
		{"inactive and completed", false, StatusCompleted, false},
		{"active but pending", true, StatusPending, false},
		{"active but processing", true, StatusProcessing, false},
		{"active but failed", true, StatusFailed, false},
		{"inactive and failed", false, StatusFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{IsActive: tt.active, ProcessingStatus: tt.status}
			assert.Equal(t, tt.expected, doc.Searchable())
		})
	}
}

// TestDocumentType_IsValid tests document type validation
func TestDocumentType_IsValid(t *testing.T) {
	valid := []DocumentType{
		DocumentTypeResearch,
		DocumentTypeBrand,
		DocumentTypePersona,
		DocumentTypeOther,
	}
	for _, dt := range valid {
		assert.True(t, dt.IsValid(), "expected %q to be valid", dt)
	}

	assert.False(t, DocumentType("").IsValid())
	assert.False(t, DocumentType("spreadsheet").IsValid())
}

// TestProcessingStatus_IsValid tests lifecycle status validation
func TestProcessingStatus_IsValid(t *testing.T) {
	valid := []ProcessingStatus{
		StatusPending,
		StatusProcessing,
		StatusCompleted,
		StatusFailed,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	assert.False(t, ProcessingStatus("").IsValid())
	assert.False(t, ProcessingStatus("done").IsValid())
}

// TestChunk_Fields tests Chunk structure fields
func TestChunk_Fields(t *testing.T) {
	chunk := Chunk{
		ID:         "chunk-1",
		DocumentID: "doc-123",
		Content:    "Our refund policy allows returns within 30 days.",
		Index:      2,
		Embedding:  []float32{0.1, 0.2, 0.3},
	}

	assert.Equal(t, "chunk-1", chunk.ID)
	assert.Equal(t, "doc-123", chunk.DocumentID)
	assert.Equal(t, 2, chunk.Index)
	assert.Len(t, chunk.Embedding, 3)
}

// TestChunk_NoEmbedding verifies embeddings are optional
func TestChunk_NoEmbedding(t *testing.T) {
	chunk := Chunk{ID: "chunk-1", DocumentID: "doc-123", Content: "text"}
	assert.Nil(t, chunk.Embedding)
}
