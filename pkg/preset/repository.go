// 文件: pkg/preset/repository.go
// 预设存储接口
//
// 实现:
// - MemoryRepository: 进程内，离线 CLI 和测试使用
// - MySQLRepository:  GORM + MySQL
// - CachedRepository: Redis 缓存装饰器，包装任意实现

package preset

import "context"

// Repository 预设存储接口
type Repository interface {
	// Create 创建预设
	// 名称已存在返回 ErrPresetExists
	Create(ctx context.Context, p *Preset) error

	// Get 按名称查询
	// 不存在返回 ErrPresetNotFound
	Get(ctx context.Context, name string) (*Preset, error)

	// List 按名称排序列出全部
	List(ctx context.Context) ([]*Preset, error)

	// Delete 删除
	// 不存在返回 ErrPresetNotFound
	Delete(ctx context.Context, name string) error
}

// Defaults 内置预设，取值与各计算页面的默认输入一致
func Defaults() []*Preset {
	return []*Preset{
		{
			Name: "binomial-atm-call", Kind: "binomial",
			Description: "at-the-money European call, 50 steps",
			Params:      map[string]any{"S": 100.0, "K": 100.0, "T": 1.0, "r": 0.05, "sigma": 0.2, "N": 50.0, "option_type": "call"},
		},
		{
			Name: "binomial-atm-put", Kind: "binomial",
			Description: "at-the-money European put, 50 steps",
			Params:      map[string]any{"S": 100.0, "K": 100.0, "T": 1.0, "r": 0.05, "sigma": 0.2, "N": 50.0, "option_type": "put"},
		},
		{
			Name: "forward-1y", Kind: "forward",
			Description: "one-year forward on a 100 spot",
			Params:      map[string]any{"S": 100.0, "r": 0.05, "T": 1.0},
		},
		{
			Name: "parity-call-10", Kind: "parity",
			Description: "derive the put from a call quoted at 10",
			Params:      map[string]any{"S": 100.0, "K": 100.0, "T": 1.0, "r": 0.05, "call_price": 10.0},
		},
		{
			Name: "fra-6m", Kind: "fra",
			Description: "six-month FRA, reference 6% against 5%",
			Params:      map[string]any{"N": 1_000_000.0, "R_K": 0.06, "R_F": 0.05, "d": 180.0},
		},
		{
			Name: "fra-6m-45", Kind: "fra",
			Description: "six-month FRA, reference 5% against 4.5%",
			Params:      map[string]any{"N": 1_000_000.0, "R_K": 0.05, "R_F": 0.045, "d": 180.0},
		},
		{
			Name: "simple-interest-2y", Kind: "simple_interest",
			Description: "1000 at 5% simple for two years",
			Params:      map[string]any{"principal": 1000.0, "annual_rate": 0.05, "time_years": 2.0},
		},
	}
}

// Seed 写入内置预设，已存在的跳过
func Seed(ctx context.Context, repo Repository) error {
	for _, p := range Defaults() {
		if err := repo.Create(ctx, p); err != nil && !isExists(err) {
			return err
		}
	}
	return nil
}
