package storage

import (
	"errors"
	"fmt"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

// ErrDesignNotFound is returned when a design id has no metadata row.
var ErrDesignNotFound = errors.New("design not found")

// SaveDesignFile persists the metadata row for a freshly uploaded design.
func SaveDesignFile(gdb *gorm.DB, design *models.DesignFile) error {
	if err := gdb.Create(design).Error; err != nil {
		return fmt.Errorf("failed to save design metadata: %w", err)
	}
	return nil
}

// ListDesignFiles returns the caller's designs, newest first.
func ListDesignFiles(gdb *gorm.DB, ownerID int) ([]models.DesignFile, error) {
	var designs []models.DesignFile
	err := gdb.
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("uploaded_at DESC").
		Find(&designs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	return designs, nil
}

// GetDesignFile fetches one design, scoped to its owner.
func GetDesignFile(gdb *gorm.DB, ownerID int, designID string) (*models.DesignFile, error) {
	var design models.DesignFile
	err := gdb.
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", designID, ownerID).
		First(&design).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDesignNotFound
		}
		return nil, err
	}
	return &design, nil
}

// GetDesignsByIDs loads metadata for the requested design ids, preserving
// the caller's order. Ids with no row fail the whole lookup: arranging
// unknown designs is a caller error, caught at the boundary.
func GetDesignsByIDs(gdb *gorm.DB, ownerID int, ids []string) ([]models.DesignFile, error) {
	var rows []models.DesignFile
	err := gdb.
		Where("owner_id = ? AND id IN ? AND deleted_at IS NULL", ownerID, ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load designs: %w", err)
	}

	byID := make(map[string]models.DesignFile, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	ordered := make([]models.DesignFile, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDesignNotFound, id)
		}
		ordered = append(ordered, row)
	}
	return ordered, nil
}

// ClearDesignFiles soft-deletes all of the caller's designs and returns the
// stored paths so the handler can remove the files from disk.
func ClearDesignFiles(gdb *gorm.DB, ownerID int) ([]string, error) {
	var designs []models.DesignFile
	err := gdb.
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Find(&designs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load designs for clearing: %w", err)
	}

	now := time.Now()
	err = gdb.Model(&models.DesignFile{}).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Update("deleted_at", now).Error
	if err != nil {
		return nil, fmt.Errorf("failed to clear designs: %w", err)
	}

	paths := make([]string, 0, len(designs))
	for _, d := range designs {
		paths = append(paths, d.StoredPath)
	}
	return paths, nil
}

// StaleDesignFiles returns designs soft-deleted before the cutoff, for the
// nightly disk cleanup.
func StaleDesignFiles(gdb *gorm.DB, cutoff time.Time) ([]models.DesignFile, error) {
	var designs []models.DesignFile
	err := gdb.
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&designs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load stale designs: %w", err)
	}
	return designs, nil
}

// PurgeDesignFile removes a soft-deleted metadata row for good.
func PurgeDesignFile(gdb *gorm.DB, designID string) error {
	return gdb.Unscoped().
		Where("id = ?", designID).
		Delete(&models.DesignFile{}).Error
}
