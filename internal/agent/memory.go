package agent

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kalebbot/internal/domain"
)

const (
	maxHistory       = 50
	maxRelevant      = 5
	minKeywordLength = 4
)

// ContextManager keeps a rolling window of recent interactions.
// Transcripts are not persisted beyond this window.
type ContextManager struct {
	mu      sync.Mutex
	history []domain.Memory
}

func NewContextManager() *ContextManager {
	return &ContextManager{}
}

func (c *ContextManager) Add(m domain.Memory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, m)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
}

func (c *ContextManager) History() []domain.Memory {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Memory, len(c.history))
	copy(out, c.history)
	return out
}

// MemoryStore is an in-process keyword-indexed store of past
// interactions. Keywords are lower-cased words longer than three
// characters drawn from the task and result.
type MemoryStore struct {
	mu       sync.RWMutex
	memories []domain.Memory
	keywords map[string][]int // keyword -> memory indices
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keywords: make(map[string][]int)}
}

// Store records a memory and indexes it by keywords.
func (s *MemoryStore) Store(agent, task, result string) domain.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := domain.Memory{
		ID:        uuid.NewString(),
		Agent:     agent,
		Task:      task,
		Result:    result,
		CreatedAt: time.Now(),
	}
	idx := len(s.memories)
	s.memories = append(s.memories, m)

	for _, kw := range extractKeywords(task + " " + result) {
		s.keywords[kw] = append(s.keywords[kw], idx)
	}
	return m
}

// Relevant returns up to maxRelevant distinct memories whose keywords
// overlap the task's words.
func (s *MemoryStore) Relevant(task string) []domain.Memory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]struct{})
	var out []domain.Memory

	for _, word := range strings.Fields(strings.ToLower(task)) {
		for _, idx := range s.keywords[word] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			out = append(out, s.memories[idx])
			if len(out) >= maxRelevant {
				return out
			}
		}
	}
	return out
}

func extractKeywords(text string) []string {
	var kws []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len(word) >= minKeywordLength {
			kws = append(kws, word)
		}
	}
	return kws
}
