// Package repository persists tasks and agent memories in SQLite.
package repository

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kalebbot/internal/domain"
)

type taskRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	TaskType    string `gorm:"not null"`
	Description string `gorm:"not null"`
	Status      string `gorm:"default:pending"`
	Result      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (taskRecord) TableName() string { return "tasks" }

type memoryRecord struct {
	ID        string `gorm:"primaryKey"`
	AgentName string `gorm:"not null;index"`
	Task      string `gorm:"not null"`
	Result    string `gorm:"not null"`
	CreatedAt time.Time
}

func (memoryRecord) TableName() string { return "memories" }

// Store is the SQLite-backed task and memory repository.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&taskRecord{}, &memoryRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveTask records one routed task and its outcome.
func (s *Store) SaveTask(taskType, description, status, result string) error {
	rec := taskRecord{
		TaskType:    taskType,
		Description: description,
		Status:      status,
		Result:      result,
	}
	return s.db.Create(&rec).Error
}

// SaveMemory records one agent interaction.
func (s *Store) SaveMemory(agent, task, result string) error {
	rec := memoryRecord{
		ID:        uuid.NewString(),
		AgentName: agent,
		Task:      task,
		Result:    result,
	}
	return s.db.Create(&rec).Error
}

// RecentMemories returns the latest memories for an agent, newest first.
func (s *Store) RecentMemories(agent string, limit int) ([]domain.Memory, error) {
	if limit <= 0 {
		limit = 10
	}
	var records []memoryRecord
	err := s.db.Where("agent_name = ?", agent).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	memories := make([]domain.Memory, len(records))
	for i, r := range records {
		memories[i] = domain.Memory{
			ID:        r.ID,
			Agent:     r.AgentName,
			Task:      r.Task,
			Result:    r.Result,
			CreatedAt: r.CreatedAt,
		}
	}
	return memories, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
