package health

import (
	"context"
	"sync"
)

// Aggregator 汇总各检查器的结果，得出桥接进程的总体状态
type Aggregator struct {
	checkers []Checker
}

// NewAggregator 创建聚合器。检查器集合在构造时固定。
func NewAggregator(checkers ...Checker) *Aggregator {
	return &Aggregator{checkers: checkers}
}

// CheckAll 并发执行所有检查，按检查器名字返回结果
func (a *Aggregator) CheckAll(ctx context.Context) map[string]CheckResult {
	results := make(map[string]CheckResult, len(a.checkers))
	var resultsMu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range a.checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()

			result := c.Check(ctx)

			resultsMu.Lock()
			results[c.Name()] = result
			resultsMu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

// OverallStatus 计算总体状态：任一 Unhealthy 即 Unhealthy，
// 其次任一 Degraded 即 Degraded。
func (a *Aggregator) OverallStatus(ctx context.Context) Status {
	overall := StatusHealthy
	for _, result := range a.CheckAll(ctx) {
		switch result.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			overall = StatusDegraded
		}
	}
	return overall
}

// Ready 就绪判断：Degraded 仍然就绪（单路 MCU 也能下发），
// 只有 Unhealthy 不就绪。
func (a *Aggregator) Ready(ctx context.Context) bool {
	return a.OverallStatus(ctx) != StatusUnhealthy
}

// Alive 存活判断。进程还能应答即视为存活。
func (a *Aggregator) Alive() bool {
	return true
}
