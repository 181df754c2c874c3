package store

// Chunk is one retrieval unit cut from a source document.
type Chunk struct {
	ID         string `json:"id"` // url::sec<i>::chunk<j>
	SourceURL  string `json:"url"`
	Section    string `json:"section"`
	ChunkIndex int    `json:"chunk_id"`
	Text       string `json:"text"`
}

// Hit is a scored retrieval result. Score is the inner product of unit
// vectors, i.e. cosine similarity.
type Hit struct {
	Score float64 `json:"score"`
	Chunk Chunk   `json:"chunk"`
}
