package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/palemoky/pinochle/internal/config"
	"github.com/palemoky/pinochle/internal/logger"
	"github.com/palemoky/pinochle/internal/server"
)

// ServerCmd 启动服务
type ServerCmd struct {
	Config   string `short:"c" default:"configs/config.yaml" help:"配置文件路径"`
	LogLevel string `help:"覆盖配置中的日志级别"`
}

func (c *ServerCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("配置文件不存在，使用默认配置", "path", c.Config)
		cfg = config.Default()
	} else if err != nil {
		return err
	}
	if c.LogLevel != "" {
		cfg.Log.Level = c.LogLevel
	}

	l, closeLog, err := logger.Init(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer closeLog()

	srv, err := server.NewServer(cfg, l)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info("🎮 Pinochle 服务器启动中...", "version", version)
	return srv.Run(ctx)
}
