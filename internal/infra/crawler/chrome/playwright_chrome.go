package chrome

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/playwright-community/playwright-go"
)

type playwrightCrawler struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func InitPlaywrightCrawler(cfg *config.Config) (ChromeCrawler, error) {
	if cfg.Playwright.Install {
		// 只安装chromium,其他浏览器用不到
		err := playwright.Install(&playwright.RunOptions{
			Browsers: []string{"chromium"},
		})
		if err != nil {
			slog.Warn("安装Playwright浏览器失败,继续尝试启动", "err", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("启动Playwright失败: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Playwright.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	pageOpts := playwright.BrowserNewPageOptions{}
	if cfg.Playwright.UserAgent != "" {
		pageOpts.UserAgent = playwright.String(cfg.Playwright.UserAgent)
	}
	page, err := browser.NewPage(pageOpts)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}

	return &playwrightCrawler{
		pw:      pw,
		browser: browser,
		page:    page,
	}, nil
}

func (pc *playwrightCrawler) Close() {
	if err := pc.browser.Close(); err != nil {
		slog.Warn("关闭浏览器失败", "err", err)
	}
	if err := pc.pw.Stop(); err != nil {
		slog.Warn("停止Playwright失败", "err", err)
	}
}

// playwright的超时单位是毫秒,0表示不限时
func timeoutMs(timeout time.Duration) *float64 {
	if timeout <= 0 {
		return playwright.Float(0)
	}
	return playwright.Float(float64(timeout.Milliseconds()))
}

func (pc *playwrightCrawler) InitAndNavigate(ctx context.Context, url, waitSelector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := pc.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeoutMs(timeout),
	})
	if err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	if waitSelector == "" {
		return nil
	}
	err = pc.page.Locator(waitSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: timeoutMs(timeout),
	})
	if err != nil {
		return fmt.Errorf("等待元素 %s 失败: %w", waitSelector, err)
	}
	return nil
}

func (pc *playwrightCrawler) PerformScrolling(ctx context.Context, ratio float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := pc.page.Evaluate(`(ratio) => window.scrollTo(0, document.body.scrollHeight * ratio)`, ratio)
	if err != nil {
		return fmt.Errorf("滑动失败: %w", err)
	}
	return nil
}

func (pc *playwrightCrawler) CountElements(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := pc.page.Locator(selector).Count()
	if err != nil {
		return 0, fmt.Errorf("统计元素失败: %w", err)
	}
	return count, nil
}

func (pc *playwrightCrawler) Content(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := pc.page.Content()
	if err != nil {
		return "", fmt.Errorf("获取页面HTML失败: %w", err)
	}
	return html, nil
}
