// Package logger 创建服务端使用的结构化日志器。
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// maxLogSize 日志文件超过该大小时在打开前轮转
const maxLogSize = 10 * 1024 * 1024

// New 创建写入 w 的日志器，level 为 debug / info / warn / error
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}), nil
}

// Discard 丢弃所有输出，测试中使用
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Init 按配置创建日志器；file 为空时写 stderr。返回的 close 用于关闭日志文件
func Init(level, file string) (logger *log.Logger, closeFn func(), err error) {
	if file == "" {
		logger, err = New(os.Stderr, level)
		return logger, func() {}, err
	}

	f, err := openRotated(file)
	if err != nil {
		return nil, nil, err
	}
	logger, err = New(f, level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	logger.Info("📝 日志文件已打开", "path", file)
	return logger, func() { _ = f.Close() }, nil
}

// openRotated 打开日志文件，过大时先重命名为带时间戳的备份
func openRotated(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		backup := fmt.Sprintf("%s.%d", path, time.Now().Unix())
		if err := os.Rename(path, backup); err != nil {
			return nil, fmt.Errorf("轮转日志文件失败: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return f, nil
}
