// internal/repository/results.go
// Package repository is the persistence collaborator: it owns screening
// results once the engine emits them.
package repository

import (
	"recognicam-go/internal/database"
	"recognicam-go/internal/models"
)

// SaveResult persists one screening result. Results are immutable once
// written; there is no update path.
func SaveResult(result *models.ScreeningResult) error {
	return database.DB.Create(result).Error
}

// LatestByTaskType returns the most recent result for a task type, or
// gorm.ErrRecordNotFound.
func LatestByTaskType(taskType string) (*models.ScreeningResult, error) {
	var result models.ScreeningResult
	err := database.DB.
		Where("task_type = ?", taskType).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetResult returns one result by ID.
func GetResult(id int) (*models.ScreeningResult, error) {
	var result models.ScreeningResult
	if err := database.DB.First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentResults returns up to limit results, newest first.
func RecentResults(limit int) ([]models.ScreeningResult, error) {
	var results []models.ScreeningResult
	err := database.DB.
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// ClearAll deletes every stored result. Destructive; the handler layer gates
// this behind the admin key.
func ClearAll() error {
	return database.DB.Exec(`DELETE FROM screening_results`).Error
}
