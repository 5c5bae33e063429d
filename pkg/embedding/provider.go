package embedding

// Task types passed through to providers that distinguish query vs document
// embeddings. Ollama/nomic ignores them; Gemini uses them.
const (
	TaskTypeRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskTypeRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
