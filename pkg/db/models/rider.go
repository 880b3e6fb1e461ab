package models

import (
	"time"

	"github.com/fooddash/fooddash-backend/pkg/enums"
)

// Rider is a delivery rider. WorkStatus flips to busy on grab and back to
// idle on completion.
type Rider struct {
	ID           int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string                `gorm:"column:username;not null"`
	Phone        string                `gorm:"column:phone"`
	WorkStatus   enums.RiderWorkStatus `gorm:"column:work_status;not null;default:0"`
	DispatchMode enums.DispatchMode    `gorm:"column:dispatch_mode;not null;default:0"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (Rider) TableName() string { return "riders" }
