// 文件: pkg/preset/mysql_repo.go
// 预设 MySQL 存储实现 (GORM)

package preset

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"quant.com/pkg/logger"
)

var _ Repository = (*MySQLRepository)(nil)

// MySQL 重复键错误码
const mysqlDuplicateEntry = 1062

// MySQLRepository MySQL 实现
type MySQLRepository struct {
	db *gorm.DB
}

// NewMySQLRepository 在已有连接上创建存储
func NewMySQLRepository(db *gorm.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// OpenMySQL 打开连接并迁移表结构，gorm 日志转发到 logrus
func OpenMySQL(dsn string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.NewGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.AutoMigrate(&Preset{}); err != nil {
		return nil, fmt.Errorf("migrate presets: %w", err)
	}
	return db, nil
}

func (r *MySQLRepository) Create(ctx context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrPresetExists
		}
		return err
	}
	return nil
}

func (r *MySQLRepository) Get(ctx context.Context, name string) (*Preset, error) {
	var p Preset
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *MySQLRepository) List(ctx context.Context) ([]*Preset, error) {
	var presets []*Preset
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&presets).Error
	return presets, err
}

func (r *MySQLRepository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&Preset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPresetNotFound
	}
	return nil
}

// isDuplicateKeyError 判断是否为唯一索引冲突
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
