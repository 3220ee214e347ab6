package domain

import "time"

// Chunk is the minimal indexed unit of text: one retained line of a
// source document. Chunks carry no identifier of their own; their
// identity is their position in the snapshot's parallel sequences.
type Chunk struct {
	Text   string
	Source string
}

// SearchResult is one retrieved chunk with its distance to the query.
type SearchResult struct {
	Text     string  `json:"text"`
	Source   string  `json:"source"`
	Distance float32 `json:"distance"`
}

// TaskType identifies which handler a free-text task routes to.
type TaskType string

const (
	TaskEmail       TaskType = "email"
	TaskFinance     TaskType = "finance"
	TaskScheduler   TaskType = "scheduler"
	TaskDocument    TaskType = "document"
	TaskSupport     TaskType = "support"
	TaskWhatsApp    TaskType = "whatsapp"
	TaskKnowledgeQA TaskType = "knowledge_qa"
)

// TaskResult is the outcome of routing and handling one task.
type TaskResult struct {
	Success  bool     `json:"success"`
	TaskType TaskType `json:"task_type"`
	Result   string   `json:"result,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// Memory is one stored agent interaction.
type Memory struct {
	ID        string
	Agent     string
	Task      string
	Result    string
	CreatedAt time.Time
}

// BuildStats summarizes one index build generation.
type BuildStats struct {
	FilesScanned int
	FilesSkipped int
	Chunks       int
	Dimension    int
	Generation   uint64
	Duration     time.Duration
}
