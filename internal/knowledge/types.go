package knowledge

// Document represents an indexed knowledge document.
// Metadata must be map[string]string to comply with chromem-go requirements.
type Document struct {
	ID       string            // Unique identifier
	Content  string            // Document text content (what gets embedded)
	Metadata map[string]string // Optional metadata returned alongside hits
}

// Result represents a single search result with similarity score.
type Result struct {
	Document   Document
	Similarity float32 // Cosine similarity score (0-1)
}
