package worker

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Worker is the user row payroll reads its hourly rate from. Accounts and
// credentials are managed elsewhere.
type Worker struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string          `gorm:"column:name;type:varchar(255)"`
	Email      string          `gorm:"column:email;type:text;uniqueIndex"`
	Role       string          `gorm:"column:role;type:varchar(50);default:'worker'"`
	HourlyRate decimal.Decimal `gorm:"column:hourly_rate;type:numeric(10,2);not null;default:0"`
	IsActive   bool            `gorm:"column:is_active;default:true"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (Worker) TableName() string {
	return "users"
}
