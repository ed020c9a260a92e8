package recall

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/rankit/core"
	"github.com/rushteam/rankit/pipeline"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
//
// 合并按 Sources 顺序进行（与完成先后无关），相同 ID 保留第一次出现的条目，
// 信号取最大值。任一召回源失败则整个 Fanout 失败，其余召回源被取消；
// 请求 deadline 到达时不等待未完成的召回源，直接返回 TIMEOUT。
type Fanout struct {
	Sources       []Source
	MaxConcurrent int // 最大并发数（0 表示无限制）
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RankContext,
	_ []*core.ScoredItem,
) ([]*core.ScoredItem, error) {
	return n.Recall(ctx, rctx)
}

// Recall 实现 Source 接口，Fanout 可以嵌套使用。
func (n *Fanout) Recall(
	ctx context.Context,
	rctx *core.RankContext,
) ([]*core.ScoredItem, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.ScoredItem, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			items, err := src.Recall(egCtx, rctx)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = items
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- eg.Wait() }()

	select {
	case <-ctx.Done():
		return nil, core.FromContext(ctx.Err())
	case err := <-done:
		if err != nil {
			if ctx.Err() != nil {
				return nil, core.FromContext(ctx.Err())
			}
			return nil, core.FromContext(err)
		}
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	set := core.NewCandidateSet(total)
	for _, r := range results {
		for _, it := range r {
			set.Add(it)
		}
	}
	return set.Items(), nil
}
