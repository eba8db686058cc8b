package chrome

import (
	"context"
	"errors"
	"time"
)

var ErrPageNotReady = errors.New("页面未初始化,请先调用InitAndNavigate")

// ChromeCrawler 浏览器驱动,负责打开座位图页面并返回渲染后的HTML
// 同一个实例只服务一个页面,不支持并发调用
type ChromeCrawler interface {
	// InitAndNavigate 打开页面并等待waitSelector出现,timeout<=0表示不限时
	// waitSelector为空时只等待导航完成
	InitAndNavigate(ctx context.Context, url, waitSelector string, timeout time.Duration) error
	// PerformScrolling 滚动到页面高度的ratio位置,用于触发懒加载
	PerformScrolling(ctx context.Context, ratio float64) error
	// CountElements 当前页面中匹配selector的元素数量
	CountElements(ctx context.Context, selector string) (int, error)
	// Content 当前页面的完整HTML
	Content(ctx context.Context) (string, error)
	Close()
}
