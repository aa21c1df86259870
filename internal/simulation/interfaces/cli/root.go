// Package cli 命令行入口：serve 启动 HTTP 服务，compare 在本地运行一次对比，watch 订阅完成事件
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/rentvsbuy/pkg/config"
	"github.com/wyfcoding/rentvsbuy/pkg/logger"
)

const defaultConfigPath = "configs/rentvsbuy/config.toml"

type rootOptions struct {
	configPath string
}

// NewRootCommand 创建根命令
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "rentvsbuy",
		Short:         "Monte Carlo comparison of buying a home versus renting and investing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c",
		config.GetEnv("RENTVSBUY_CONFIG", defaultConfigPath), "path to config file")

	cmd.AddCommand(
		newServeCommand(opts),
		newCompareCommand(opts),
		newPresetsCommand(opts),
		newWatchCommand(opts),
	)
	return cmd
}

// Execute 执行根命令
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// load 显式指定的配置文件必须存在，默认路径缺失时使用内置默认值
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	if cmd.Flags().Changed("config") {
		return config.Load(o.configPath)
	}
	return config.LoadWithDefaults(o.configPath)
}

func loggerConfig(cfg *config.Config) logger.Config {
	return logger.Config{
		Service:    cfg.ServiceName,
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
}

// stderrLogger 一次性命令的日志写到 stderr，stdout 只输出结果
func stderrLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	lc := loggerConfig(cfg)
	lc.Format = "text"
	return logger.NewWithWriter(lc, w)
}
