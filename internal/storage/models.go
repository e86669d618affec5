package storage

import (
	"time"

	"gorm.io/gorm"
)

// AnalysisRequest is the audit trail of wallet analyses: who was looked
// up, how the request resolved, how long it took. No persona output is
// stored.
type AnalysisRequest struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	Address    string `gorm:"size:64;not null;index"`
	Outcome    string `gorm:"size:16;not null;index"` // "ok", "default" or "invalid"
	DurationMs int64  `gorm:"not null"`
	CreatedTS  int64  `gorm:"not null;index"`
}

func (AnalysisRequest) TableName() string {
	return "analysis_requests"
}

func (a *AnalysisRequest) BeforeCreate(tx *gorm.DB) error {
	if a.CreatedTS == 0 {
		a.CreatedTS = time.Now().Unix()
	}
	return nil
}
