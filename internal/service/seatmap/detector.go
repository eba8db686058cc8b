package seatmap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/seatcrawler/param"
)

// Outcome 座位加载等待的结束原因
type Outcome string

const (
	// OutcomeLoaded 座位数超过阈值,认为座位图已经完整加载
	OutcomeLoaded Outcome = "loaded"
	// OutcomeStalled 座位数连续多次没有变化,放弃等待继续执行
	OutcomeStalled Outcome = "stalled"
	// OutcomeTimedOut 超过总等待时间
	OutcomeTimedOut Outcome = "timed_out"
)

// SeatCounter 可以反复统计页面中元素数量的对象,各个浏览器驱动都实现了它
type SeatCounter interface {
	CountElements(ctx context.Context, selector string) (int, error)
}

type WaitResult struct {
	Outcome   Outcome       `json:"outcome"`
	Samples   int           `json:"samples"`
	LastCount int           `json:"last_count"`
	Elapsed   time.Duration `json:"elapsed"`
}

// WaitForSeats 按固定间隔统计座位数量,直到:
//   - 座位数 > Threshold (loaded)
//   - 座位数与上一次相同的连续次数 > StableSamples (stalled),第一次采样前的"上一次"视为0
//   - 超过 Timeout (timed_out),Timeout<=0 时不限时
//
// 统计出错或者ctx被取消时返回错误
func WaitForSeats(ctx context.Context, counter SeatCounter, params param.Wait) (*WaitResult, error) {
	start := time.Now()
	result := &WaitResult{}

	waitCtx := ctx
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	ticker := time.NewTicker(params.PollInterval)
	defer ticker.Stop()

	last, stable := 0, 0
	for {
		count, err := counter.CountElements(waitCtx, params.Selector)
		if err != nil {
			if ctx.Err() == nil && waitCtx.Err() != nil {
				return timedOut(result, start, params), nil
			}
			return nil, fmt.Errorf("统计座位数量失败: %w", err)
		}
		result.Samples++
		result.LastCount = count

		if count > params.Threshold {
			result.Outcome = OutcomeLoaded
			result.Elapsed = time.Since(start)
			slog.Info("座位图加载完成", "seats", count, "samples", result.Samples)
			return result, nil
		}

		if count == last {
			stable++
		} else {
			stable = 0
		}
		last = count

		if stable > params.StableSamples {
			result.Outcome = OutcomeStalled
			result.Elapsed = time.Since(start)
			slog.Warn("座位数量不再变化,放弃等待", "seats", count, "samples", result.Samples, "threshold", params.Threshold)
			return result, nil
		}

		slog.Debug("等待座位加载", "seats", count, "stable", stable)

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return timedOut(result, start, params), nil
		case <-ticker.C:
		}
	}
}

func timedOut(result *WaitResult, start time.Time, params param.Wait) *WaitResult {
	result.Outcome = OutcomeTimedOut
	result.Elapsed = time.Since(start)
	slog.Warn("等待座位加载超时", "seats", result.LastCount, "samples", result.Samples, "timeout", params.Timeout)
	return result
}
