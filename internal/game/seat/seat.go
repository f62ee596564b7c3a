// Package seat 定义四个座位及其顺时针关系。A 与 C、B 与 D 为搭档。
package seat

import (
	"fmt"
	"strings"
)

// Seat 座位
type Seat int

const (
	A Seat = iota
	B
	C
	D
)

// Count 座位数
const Count = 4

// All 按顺时针列出全部座位
var All = [Count]Seat{A, B, C, D}

// Team 队伍编号：0 为 A+C，1 为 B+D
type Team int

const (
	TeamAC Team = iota
	TeamBD
)

func (s Seat) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Seat(%d)", int(s))
	}
	return string(rune('A' + s))
}

// Valid 报告座位是否合法
func (s Seat) Valid() bool {
	return s >= A && s <= D
}

// Next 顺时针下一位
func (s Seat) Next() Seat {
	return (s + 1) % Count
}

// Partner 对家
func (s Seat) Partner() Seat {
	return s.Next().Next()
}

// Prev 逆时针上一位，即顺时针三步
func (s Seat) Prev() Seat {
	return s.Next().Next().Next()
}

// Team 座位所属队伍
func (s Seat) Team() Team {
	return Team(s % 2)
}

// From 从 s 开始按顺时针返回四个座位
func (s Seat) From() [Count]Seat {
	var order [Count]Seat
	cur := s
	for i := range Count {
		order[i] = cur
		cur = cur.Next()
	}
	return order
}

// Offset 返回从 s 出发顺时针走 n 步到达的座位
func (s Seat) Offset(n int) Seat {
	return Seat((int(s) + n%Count + Count) % Count)
}

func (t Team) String() string {
	switch t {
	case TeamAC:
		return "A+C"
	case TeamBD:
		return "B+D"
	}
	return fmt.Sprintf("Team(%d)", int(t))
}

// Other 对方队伍
func (t Team) Other() Team {
	return 1 - t
}

// Parse 解析 "A".."D" 或 "0".."3"
func Parse(s string) (Seat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "0":
		return A, nil
	case "B", "1":
		return B, nil
	case "C", "2":
		return C, nil
	case "D", "3":
		return D, nil
	}
	return -1, fmt.Errorf("无法识别的座位: %q", s)
}

func (s Seat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("无效的座位: %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Seat) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
