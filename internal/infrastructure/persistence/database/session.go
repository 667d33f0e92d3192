package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionBackend 把客户端会话保存在client_sessions表
type SessionBackend struct {
	db      *gorm.DB
	profile string
}

// NewSessionBackend 创建会话存储
func NewSessionBackend(db *gorm.DB, profile string) *SessionBackend {
	if profile == "" {
		profile = "default"
	}
	return &SessionBackend{db: db, profile: profile}
}

// Get 读取一个键
func (s *SessionBackend) Get(ctx context.Context, key string) (string, bool, error) {
	var model SessionModel
	err := s.db.WithContext(ctx).
		Where("profile = ? AND `key` = ?", s.profile, key).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取会话失败: %w", err)
	}
	return model.Value, true, nil
}

// Set 写入一个键（存在则覆盖）
// 学习要点：OnConflict生成INSERT ... ON DUPLICATE KEY UPDATE(MySQL)或ON CONFLICT(SQLite)
func (s *SessionBackend) Set(ctx context.Context, key, value string) error {
	model := SessionModel{Profile: s.profile, Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
	if err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	return nil
}

// Delete 删除若干键
func (s *SessionBackend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("profile = ? AND `key` IN ?", s.profile, keys).
		Delete(&SessionModel{}).Error
	if err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	return nil
}
