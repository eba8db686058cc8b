package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

type chromedpCrawler struct {
	allocCtx      context.Context
	allocCtxFuc   context.CancelFunc
	pageCtx       context.Context
	pageCtxFuc    context.CancelFunc
	timeoutCtxFuc context.CancelFunc
	navigated     bool
}

func InitChromedpCrawler(ctx context.Context, cfg *config.Config) ChromeCrawler {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Chromedp.Headless),
		chromedp.Flag("incognito", cfg.Chromedp.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Chromedp.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Chromedp.NoSandbox),
	)
	if cfg.Chromedp.DisableBlinkFeatures != "" {
		opts = append(opts, chromedp.Flag("disable-blink-features", cfg.Chromedp.DisableBlinkFeatures))
	}
	if cfg.Chromedp.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.Chromedp.UserDataDir))
	}
	if cfg.Chromedp.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Chromedp.UserAgent))
	}
	// 浏览器的最长存活时间,超过后整个浏览器会被关闭
	timeoutCtx, cancelTimeout := context.WithTimeout(ctx, time.Duration(cfg.Chromedp.LifeTime)*time.Second)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx)

	return &chromedpCrawler{
		allocCtx:      allocCtx,
		allocCtxFuc:   cancelAlloc,
		pageCtx:       pageCtx,
		pageCtxFuc:    cancelPage,
		timeoutCtxFuc: cancelTimeout,
	}
}

func (cc *chromedpCrawler) Close() {
	cc.pageCtxFuc()
	cc.allocCtxFuc()
	cc.timeoutCtxFuc()
}

// runCtx 派生自页面context,同时跟随调用方ctx取消
// 不能直接把调用方ctx传给chromedp.Run,chromedp需要从context里取到浏览器
func (cc *chromedpCrawler) runCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(cc.pageCtx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(cc.pageCtx)
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (cc *chromedpCrawler) InitAndNavigate(ctx context.Context, url, waitSelector string, timeout time.Duration) error {
	// 第一次Run会启动浏览器,这里不能带超时,否则超时后浏览器会被一起关闭
	if err := chromedp.Run(cc.pageCtx, network.Enable()); err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	runCtx, cancel := cc.runCtx(ctx, timeout)
	defer cancel()
	actions := []chromedp.Action{chromedp.Navigate(url)}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitReady(waitSelector, chromedp.ByQuery))
	}
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	cc.navigated = true
	return nil
}

func (cc *chromedpCrawler) PerformScrolling(ctx context.Context, ratio float64) error {
	if !cc.navigated {
		return ErrPageNotReady
	}
	runCtx, cancel := cc.runCtx(ctx, 0)
	defer cancel()
	js := fmt.Sprintf(`window.scrollTo(0, document.body.scrollHeight * %f);`, ratio)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, nil)); err != nil {
		return fmt.Errorf("滑动失败: %w", err)
	}
	return nil
}

func (cc *chromedpCrawler) CountElements(ctx context.Context, selector string) (int, error) {
	if !cc.navigated {
		return 0, ErrPageNotReady
	}
	// 用JSON编码生成合法的JS字符串字面量
	quoted, err := json.Marshal(selector)
	if err != nil {
		return 0, err
	}
	runCtx, cancel := cc.runCtx(ctx, 0)
	defer cancel()
	var count int
	js := fmt.Sprintf(`document.querySelectorAll(%s).length`, quoted)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &count)); err != nil {
		return 0, fmt.Errorf("统计元素失败: %w", err)
	}
	return count, nil
}

func (cc *chromedpCrawler) Content(ctx context.Context) (string, error) {
	if !cc.navigated {
		return "", ErrPageNotReady
	}
	runCtx, cancel := cc.runCtx(ctx, 0)
	defer cancel()
	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return html, nil
}
