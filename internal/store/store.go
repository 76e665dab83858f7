// Package store 记录异步导出的结果。
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ByLCY/papyrus-cv/internal/config"
)

// ErrNotFound 表示导出记录不存在。
var ErrNotFound = errors.New("store: export not found")

// Export 是一次导出任务的结果记录。
type Export struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID         string    `gorm:"size:64;uniqueIndex" json:"jobId"`
	CorrelationID string    `gorm:"size:64" json:"correlationId"`
	CandidateSlug string    `gorm:"size:128;index" json:"candidateSlug"`
	FileName      string    `gorm:"size:255" json:"fileName"`
	ObjectKey     string    `gorm:"size:512" json:"objectKey"`
	Pages         int       `json:"pages"`
	Bytes         int64     `json:"bytes"`
	Warnings      string    `gorm:"type:text" json:"warnings"` // 逗号分隔的告警代码
	CreatedAt     time.Time `json:"createdAt"`
}

func (e *Export) TableName() string { return "resume_exports" }

// WarningCodes 将 Warnings 拆回告警代码列表；为空时返回 nil。
func (e *Export) WarningCodes() []string {
	if strings.TrimSpace(e.Warnings) == "" {
		return nil
	}
	return strings.Split(e.Warnings, ",")
}

// BeforeCreate 为新记录生成 ID。
func (e *Export) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ExportRepository 持久化导出记录。
type ExportRepository interface {
	Create(ctx context.Context, export *Export) error
	FindByJobID(ctx context.Context, jobID string) (*Export, error)
}

type exportRepository struct {
	db *gorm.DB
}

// NewExportRepository 返回基于 gorm 的实现。
func NewExportRepository(db *gorm.DB) ExportRepository {
	return &exportRepository{db: db}
}

func (r *exportRepository) Create(ctx context.Context, export *Export) error {
	if err := r.db.WithContext(ctx).Create(export).Error; err != nil {
		return fmt.Errorf("create export record: %w", err)
	}
	return nil
}

func (r *exportRepository) FindByJobID(ctx context.Context, jobID string) (*Export, error) {
	var e Export
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, fmt.Errorf("find export %s: %w", jobID, err)
	}
	return &e, nil
}

// Open 使用配置初始化 PostgreSQL 连接。
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Migrate 创建或更新导出记录表。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Export{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
