package game

import "fmt"

// Seed 显式随机种子，作为值在结算与编号生成之间传递
// 不依赖任何全局随机源，保证结算过程可以作为纯函数测试
type Seed uint64

// NewSeed 从任意整数创建种子（0 会被映射到固定的非零常量）
func NewSeed(v int64) Seed {
	if v == 0 {
		return Seed(0x9E3779B97F4A7C15)
	}
	return Seed(v)
}

// Next 消耗一次种子，返回一个 64 位随机数和推进后的种子
// 采用 splitmix64：状态推进和输出混淆都是纯算术，跨平台结果一致
func (s Seed) Next() (uint64, Seed) {
	state := uint64(s) + 0x9E3779B97F4A7C15
	z := state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return z, Seed(state)
}

// NextN 消耗一次种子，返回 [0, n) 内的随机数和推进后的种子
func (s Seed) NextN(n int) (int, Seed) {
	draw, next := s.Next()
	return int(draw % uint64(n)), next
}

// GameID 用种子生成对局编号（6 位十六进制，用作存储键的一部分）
// 编号只要求足够难撞，不保证全局唯一，冲突处理不在本层职责内
func GameID(s Seed) (string, Seed) {
	draw, next := s.Next()
	return fmt.Sprintf("%06x", draw&0xFFFFFF), next
}
