// 文件: pkg/preset/model.go
// 命名参数预设
//
// 预设是一组输入参数 (例如 "binomial-atm-call")，不是计算结果
// 估值请求引用预设名，请求里的参数覆盖预设里的同名参数

package preset

import (
	"errors"
	"regexp"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrPresetExists   = errors.New("preset already exists")
	ErrInvalidPreset  = errors.New("invalid preset")
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// Preset 一组命名输入参数
type Preset struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	Name        string         `gorm:"column:name;type:varchar(64);uniqueIndex" json:"name"`
	Kind        string         `gorm:"column:kind;type:varchar(32);index" json:"kind"` // 估值类型: binomial / forward / fra ...
	Description string         `gorm:"column:description;type:varchar(255)" json:"description,omitempty"`
	Params      map[string]any `gorm:"column:params;type:json;serializer:json" json:"params"`
	CreatedAt   int64          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   int64          `gorm:"column:updated_at" json:"updated_at"`
}

// TableName GORM 表名
func (Preset) TableName() string {
	return "pricing_presets"
}

// Validate 名称为小写 slug，类型和参数不能为空
func (p *Preset) Validate() error {
	switch {
	case !namePattern.MatchString(p.Name):
		return errors.Join(ErrInvalidPreset, errors.New("name must be a lowercase slug"))
	case p.Kind == "":
		return errors.Join(ErrInvalidPreset, errors.New("kind is required"))
	case len(p.Params) == 0:
		return errors.Join(ErrInvalidPreset, errors.New("params are required"))
	}
	return nil
}

// Clone 深拷贝，调用方修改返回值不影响存储
func (p *Preset) Clone() *Preset {
	c := *p
	c.Params = make(map[string]any, len(p.Params))
	for k, v := range p.Params {
		c.Params[k] = v
	}
	return &c
}
