// Package database 基于GORM的会话存储
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/libconsole/internal/infrastructure/config"
)

// DefaultSQLitePath sqlite驱动未配置DSN时使用的文件
const DefaultSQLitePath = ".libconsole/session.db"

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，驱动按配置在sqlite与mysql之间切换
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. debug模式开启SQL日志
// 4. 自动迁移会话表（AutoMigrate）
func NewDB(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	// 学习要点：AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
	if err := db.AutoMigrate(&SessionModel{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(cfg.MySQLDSN()), nil
	case "sqlite", "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = DefaultSQLitePath
		}
		if dsn != ":memory:" {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return nil, fmt.Errorf("创建数据库目录失败: %w", err)
				}
			}
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// SessionModel 会话键值表
// 设计说明：
// 1. (profile, key)联合主键，同一个库可以保存多个登录身份
// 2. value是存储层原样保存的字符串（令牌或用户快照JSON）
type SessionModel struct {
	Profile   string    `gorm:"primaryKey;size:64;comment:登录身份"`
	Key       string    `gorm:"primaryKey;size:64;comment:存储键"`
	Value     string    `gorm:"type:text;not null;comment:存储值"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (SessionModel) TableName() string {
	return "client_sessions"
}
