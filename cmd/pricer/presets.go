package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quant.com/pkg/preset"
)

// openPresets 按配置选择预设存储
// MySQL 关闭时使用内置预设；Redis 开启时在外层加缓存
func (a *app) openPresets(ctx context.Context) (preset.Repository, error) {
	if !a.cfg.MySQL.Enabled {
		return preset.NewSeededMemoryRepository(), nil
	}

	db, err := preset.OpenMySQL(a.cfg.MySQL.DSN, a.log)
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, func() { sqlDB.Close() })
	}

	var repo preset.Repository = preset.NewMySQLRepository(db)
	if err := preset.Seed(ctx, repo); err != nil {
		return nil, fmt.Errorf("seed presets: %w", err)
	}

	if a.cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", a.cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		repo = preset.NewCachedRepository(repo, rdb, a.cfg.Redis.TTL, a.log)
	}
	return repo, nil
}

func (a *app) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List and inspect named parameter presets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.presets.List(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]string, 0, len(list))
			for _, p := range list {
				rows = append(rows, []string{p.Name, p.Kind, p.Description})
			}
			renderTable(cmd.OutOrStdout(), []string{"Name", "Kind", "Description"}, rows)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show the parameters of one preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.presets.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if a.jsonOut {
				return printJSON(cmd.OutOrStdout(), p)
			}
			keys := make([]string, 0, len(p.Params))
			for k := range p.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			rows := [][]string{{"name", p.Name}, {"kind", p.Kind}}
			for _, k := range keys {
				rows = append(rows, []string{k, fmt.Sprint(p.Params[k])})
			}
			renderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows)
			return nil
		},
	})
	return cmd
}
