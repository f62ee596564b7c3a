package main

import (
	"fmt"
	"io"

	"github.com/palemoky/pinochle/internal/game"
	"github.com/palemoky/pinochle/internal/game/card"
	"github.com/palemoky/pinochle/internal/game/seat"
	"github.com/palemoky/pinochle/internal/randutil"
	"github.com/palemoky/pinochle/internal/ui"
)

// DealCmd 打印种子对应的第一局发牌
type DealCmd struct {
	Seed   *int64 `short:"s" help:"随机种子，省略时随机生成"`
	Config string `short:"c" type:"existingfile" help:"从配置文件读取牌组规则"`
}

func (c *DealCmd) Run(w io.Writer) error {
	rules, err := loadRules(c.Config)
	if err != nil {
		return err
	}
	seed := randutil.Seed()
	if c.Seed != nil {
		seed = *c.Seed
	}

	g := game.New(seed, [seat.Count]string{}, rules)
	var hands [seat.Count][]card.Card
	for _, s := range seat.All {
		hands[s] = g.Hand(s)
	}
	fmt.Fprintln(w, ui.RenderDeal(seed, hands, rules.Meld))
	return nil
}
