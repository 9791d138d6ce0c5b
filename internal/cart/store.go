// Package cart 提供按用户隔离的购物车状态容器。
package cart

import (
	"sync"

	"github.com/Umair-Web/BTOBPortal/internal/models"
)

// Line 购物车行，(ProductID, ColorVariant) 唯一
type Line struct {
	ProductID    uint         `json:"product_id"`
	Name         string       `json:"name"`
	Price        models.Money `json:"price"`
	Quantity     int          `json:"quantity"`
	ColorVariant string       `json:"color_variant"`
	Image        string       `json:"image"`
}

// Subtotal 行小计
func (l Line) Subtotal() models.Money {
	return l.Price.Times(l.Quantity)
}

func (l Line) sameKey(productID uint, colorVariant string) bool {
	return l.ProductID == productID && l.ColorVariant == colorVariant
}

// Snapshot 可序列化的购物车快照
type Snapshot struct {
	Lines []Line `json:"lines"`
}

// Store 购物车状态容器，每个用户会话单独创建
type Store struct {
	mu    sync.Mutex
	lines []Line
}

// NewStore 创建购物车
func NewStore(lines ...Line) *Store {
	s := &Store{}
	s.lines = append(s.lines, lines...)
	return s
}

// AddItem 加入购物车，同一 (商品, 颜色) 合并数量，不做库存校验
func (s *Store) AddItem(line Line) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].sameKey(line.ProductID, line.ColorVariant) {
			s.lines[i].Quantity += line.Quantity
			return
		}
	}
	s.lines = append(s.lines, line)
}

// UpdateQuantity 设置数量，不会因数量 <= 0 删除行；返回是否找到该行
func (s *Store) UpdateQuantity(productID uint, colorVariant string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].sameKey(productID, colorVariant) {
			s.lines[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveItem 删除匹配行；返回是否删除
func (s *Store) RemoveItem(productID uint, colorVariant string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].sameKey(productID, colorVariant) {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return true
		}
	}
	return false
}

// Find 查找匹配行
func (s *Store) Find(productID uint, colorVariant string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.lines {
		if line.sameKey(productID, colorVariant) {
			return line, true
		}
	}
	return Line{}, false
}

// Total 合计金额，每次调用重新计算
func (s *Store) Total() models.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := models.Money{}
	for _, line := range s.lines {
		total = total.Plus(line.Subtotal())
	}
	return total
}

// ItemCount 商品件数合计
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty 是否为空
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Clear 清空
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines 返回行的副本
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Snapshot 导出快照
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Lines: s.Lines()}
}

// Restore 用快照整体替换当前内容
func (s *Store) Restore(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make([]Line, len(snapshot.Lines))
	copy(s.lines, snapshot.Lines)
}
