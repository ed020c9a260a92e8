// Package page 对排好序的完整列表做分页。Total 总是完整列表的长度。
package page

import (
	"fmt"

	"github.com/rushteam/rankit/core"
)

// Take 取前 limit 个（推荐 / 探索）。
func Take(ranked []*core.ScoredItem, limit int) (*core.ResultPage, error) {
	return Slice(ranked, limit, 0)
}

// Slice 取 [offset, offset+limit) 区间（搜索）。
// offset 超过列表长度时返回空页，Total 仍为完整数量，不是错误。
func Slice(ranked []*core.ScoredItem, limit, offset int) (*core.ResultPage, error) {
	if limit <= 0 {
		return nil, core.InvalidInput(core.ModuleEngine, fmt.Sprintf("limit must be positive, got %d", limit))
	}
	if offset < 0 {
		return nil, core.InvalidInput(core.ModuleEngine, fmt.Sprintf("offset must not be negative, got %d", offset))
	}

	total := len(ranked)
	p := &core.ResultPage{
		Items:  []*core.ScoredItem{},
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	if offset >= total {
		return p, nil
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	p.Items = append(p.Items, ranked[offset:end]...)
	return p, nil
}
