package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/palemoky/pinochle/internal/config"
	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/protocol/compact"
	"github.com/palemoky/pinochle/internal/ui"
)

// ReplayCmd 从 JSON 文件或 base64 文本重放牌局
type ReplayCmd struct {
	File   string `short:"f" xor:"source" required:"" help:"完整状态 JSON 文件，- 表示标准输入"`
	Base64 string `short:"b" xor:"source" required:"" help:"紧凑 base64 编码的完整状态"`
	Config string `short:"c" type:"existingfile" help:"从配置文件读取规则，默认使用内置规则"`
	Verify bool   `help:"再次重放并校验状态完全一致"`
	Export bool   `help:"输出紧凑 base64 编码"`
	Hands  bool   `default:"true" negatable:"" help:"打印四家手牌"`
}

func (c *ReplayCmd) Run(w io.Writer) error {
	rules, err := loadRules(c.Config)
	if err != nil {
		return err
	}
	fs, err := c.readState()
	if err != nil {
		return err
	}

	g, err := game.FromFullState(fs, rules)
	if err != nil {
		return err
	}
	if c.Verify {
		if err := g.Verify(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, ui.RenderSnapshot(g.Snapshot()))
	if c.Hands && !g.Snapshot().Over() {
		var hands [seat.Count][]card.Card
		for _, s := range seat.All {
			hands[s] = g.Hand(s)
		}
		fmt.Fprintln(w, ui.RenderHands(fs.PlayerNames, hands))
	}
	if c.Verify {
		fmt.Fprintf(w, "✅ 重放校验通过（%d 个动作）\n", len(fs.Actions))
	}
	if c.Export {
		text, err := compact.EncodeString(g.FullState())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, text)
	}
	return nil
}

func (c *ReplayCmd) readState() (game.FullState, error) {
	if c.Base64 != "" {
		return compact.DecodeString(strings.TrimSpace(c.Base64))
	}

	var (
		data []byte
		err  error
	)
	if c.File == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		return game.FullState{}, err
	}
	var fs game.FullState
	if err := json.Unmarshal(data, &fs); err != nil {
		return fs, fmt.Errorf("解析完整状态失败: %w", err)
	}
	return fs, nil
}

// loadRules 未指定配置文件时使用默认规则
func loadRules(path string) (game.Rules, error) {
	if path == "" {
		return game.DefaultRules(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return game.Rules{}, err
	}
	rules, err := cfg.Rules.Rules()
	if err != nil {
		return game.Rules{}, errors.Join(errors.New("配置中的规则无效"), err)
	}
	return rules, nil
}
