package models

import "time"

// DesignFile is the GORM-backed metadata row for an uploaded plotter
// design. The raw file body lives on disk under the data directory; only
// metadata and the measured dimensions are stored here.
type DesignFile struct {
	ID         string     `gorm:"column:id;primaryKey" json:"id"`
	OwnerID    int        `gorm:"column:owner_id;index" json:"owner_id"`
	FileName   string     `gorm:"column:file_name" json:"file_name"`
	StoredPath string     `gorm:"column:stored_path" json:"stored_path"`
	FileType   string     `gorm:"column:file_type" json:"file_type"`
	FileSize   int64      `gorm:"column:file_size" json:"file_size"`
	WidthMM    *float64   `gorm:"column:width_mm" json:"width_mm,omitempty"`
	HeightMM   *float64   `gorm:"column:height_mm" json:"height_mm,omitempty"`
	UploadedAt time.Time  `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
	DeletedAt  *time.Time `gorm:"column:deleted_at;index" json:"-"`
}

func (DesignFile) TableName() string {
	return "design_file"
}

// Size returns the intrinsic dimensions when both measurements are
// present, nil otherwise.
func (d DesignFile) Size() *DesignSize {
	if d.WidthMM == nil || d.HeightMM == nil {
		return nil
	}
	return &DesignSize{Width: *d.WidthMM, Height: *d.HeightMM}
}
