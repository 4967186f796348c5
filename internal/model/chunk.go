package model

type ChunkType string

const (
	ChunkTypeBio           ChunkType = "bio"
	ChunkTypeSkill         ChunkType = "skill"
	ChunkTypeProject       ChunkType = "project"
	ChunkTypeExperience    ChunkType = "experience"
	ChunkTypeContact       ChunkType = "contact"
	ChunkTypeTrait         ChunkType = "trait"
	ChunkTypeCustom        ChunkType = "custom"
	ChunkTypeSystemPrompt  ChunkType = "system_prompt"
	ChunkTypeImage         ChunkType = "image"
	ChunkTypeModelContext  ChunkType = "model_context"
	ChunkTypeCertification ChunkType = "certification"
)

// Chunk is one self-contained unit of retrievable profile text. The text
// must be understandable without any other chunk, and the id must be stable
// across regenerations of the same profile snapshot.
type Chunk struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	Type  ChunkType `json:"type"`
	Title string    `json:"title,omitempty"`
}

// ChunkEmbedding is a chunk plus its embedding vector as persisted in the
// vector store. Position records insertion order and breaks ranking ties.
type ChunkEmbedding struct {
	ChunkID   string    `json:"chunk_id"`
	Text      string    `json:"text"`
	Type      ChunkType `json:"type"`
	Title     string    `json:"title,omitempty"`
	Embedding []float32 `json:"embedding"`
	Position  int       `json:"position"`
	Mtime     int64     `json:"mtime"`
}

// ScoredChunk is a retrieval result: a stored chunk plus its cosine
// similarity against the query vector.
type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}
