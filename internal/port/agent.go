package port

// Agent handles one category of tasks.
type Agent interface {
	// Name returns the agent's display name.
	Name() string

	// Handle processes a free-text task and returns a result string.
	Handle(task string) (string, error)
}

// MemorySink receives completed interactions for durable storage.
type MemorySink interface {
	SaveTask(taskType, description, status, result string) error
	SaveMemory(agent, task, result string) error
}
