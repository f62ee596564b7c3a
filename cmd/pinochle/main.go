package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
)

// version 由 ldflags 在构建时注入
var version = "dev"

// CLI 命令行入口
type CLI struct {
	Version kong.VersionFlag `short:"v" help:"显示版本"`
	Server  ServerCmd        `cmd:"" help:"启动 WebSocket 牌局服务"`
	Replay  ReplayCmd        `cmd:"" help:"重放完整状态并打印牌局"`
	Deal    DealCmd          `cmd:"" help:"按种子发牌并打印各花色做将时的牌组分"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pinochle"),
		kong.Description("四人搭档 Pinochle 规则引擎与牌局服务"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
