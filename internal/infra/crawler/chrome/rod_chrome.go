package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/LouYuanbo1/seatcrawler/internal/infra/crawler/options"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

type rodCrawler struct {
	browser *rod.Browser
	page    *rod.Page
	stealth bool
}

func InitRodCrawler(cfg *config.Config) (ChromeCrawler, error) {
	l := options.CreateLauncher(
		options.WithBin(cfg.Rod.Bin),
		options.WithUserDataDir(cfg.Rod.UserDataDir),
		options.WithHeadless(cfg.Rod.Headless),
		options.WithDisableBlinkFeatures(cfg.Rod.DisableBlinkFeatures),
		options.WithIncognito(cfg.Rod.Incognito),
		options.WithDisableDevShmUsage(cfg.Rod.DisableDevShmUsage),
		options.WithNoSandbox(cfg.Rod.NoSandbox),
		options.WithUserAgent(cfg.Rod.UserAgent),
		options.WithLeakless(cfg.Rod.Leakless),
	)
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}
	slog.Debug("浏览器已启动", "control_url", url)

	browser, err := connectBrowser(url, cfg.Rod.Trace, l.Kill)
	if err != nil {
		return nil, err
	}
	return &rodCrawler{
		browser: browser,
		stealth: cfg.Rod.Stealth,
	}, nil
}

// connectBrowser 连接失败时调用kill结束已启动的浏览器进程
// 不调用Launcher.Cleanup,它会删除用户指定的user_data_dir
func connectBrowser(controlURL string, trace bool, kill func()) (*rod.Browser, error) {
	browser := rod.New().ControlURL(controlURL).Trace(trace)
	if err := browser.Connect(); err != nil {
		kill()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}
	return browser, nil
}

func (rc *rodCrawler) Close() {
	if rc.page != nil {
		_ = rc.page.Close()
	}
	if err := rc.browser.Close(); err != nil {
		slog.Warn("关闭浏览器失败", "err", err)
	}
}

func (rc *rodCrawler) InitAndNavigate(ctx context.Context, url, waitSelector string, timeout time.Duration) error {
	var err error
	if rc.stealth {
		rc.page, err = stealth.Page(rc.browser)
	} else {
		rc.page, err = rc.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return fmt.Errorf("创建页面失败: %w", err)
	}

	page := rc.page.Context(ctx)
	if timeout > 0 {
		page = page.Timeout(timeout)
		defer page.CancelTimeout()
	}

	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	if waitSelector == "" {
		return nil
	}
	// Element会一直重试直到元素出现或超时
	if _, err := page.Element(waitSelector); err != nil {
		return fmt.Errorf("等待元素 %s 失败: %w", waitSelector, err)
	}
	return nil
}

func (rc *rodCrawler) PerformScrolling(ctx context.Context, ratio float64) error {
	if rc.page == nil {
		return ErrPageNotReady
	}
	_, err := rc.page.Context(ctx).Eval(`(ratio) => window.scrollTo(0, document.body.scrollHeight * ratio)`, ratio)
	if err != nil {
		return fmt.Errorf("滑动失败: %w", err)
	}
	return nil
}

func (rc *rodCrawler) CountElements(ctx context.Context, selector string) (int, error) {
	if rc.page == nil {
		return 0, ErrPageNotReady
	}
	res, err := rc.page.Context(ctx).Eval(`(sel) => document.querySelectorAll(sel).length`, selector)
	if err != nil {
		return 0, fmt.Errorf("统计元素失败: %w", err)
	}
	return res.Value.Int(), nil
}

func (rc *rodCrawler) Content(ctx context.Context) (string, error) {
	if rc.page == nil {
		return "", ErrPageNotReady
	}
	html, err := rc.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return html, nil
}
