package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/gocolly/colly/v2"
)

type collyCrawler struct {
	colly *colly.Collector
}

func InitCollyCrawler(config *config.Config) (CollyCrawler, error) {
	var opts []colly.CollectorOption
	opts = append(opts, colly.AllowURLRevisit())
	if config.Colly.UserAgent != "" {
		opts = append(opts, colly.UserAgent(config.Colly.UserAgent))
	}
	if config.Colly.IgnoreRobotsTxt {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	c := colly.NewCollector(opts...)
	// 座位图页面通常远大于colly默认的10MB限制
	c.MaxBodySize = 0

	// 支持file://读取本地保存的页面快照
	t := &http.Transport{}
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))
	c.WithTransport(t)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       time.Duration(config.Colly.Delay) * time.Second,
		RandomDelay: time.Duration(config.Colly.RandomDelay) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("设置限速规则失败: %w", err)
	}
	if config.Colly.EnableCookieJar {
		jar, err := cookiejar.New(config.Colly.CookieJarOptions)
		if err != nil {
			return nil, fmt.Errorf("创建cookie jar失败: %w", err)
		}
		c.SetCookieJar(jar)
	}
	slog.Debug("Colly爬虫初始化完成", "delay", config.Colly.Delay, "random_delay", config.Colly.RandomDelay)
	return &collyCrawler{
		colly: c,
	}, nil
}

// FetchHTML 同步获取页面内容,每次调用使用独立的collector副本,回调不会累积
func (c *collyCrawler) FetchHTML(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	collector := c.colly.Clone()

	var body []byte
	var fetchErr error
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("请求失败 (status %d): %w", r.StatusCode, err)
	})

	if err := collector.Visit(url); err != nil {
		return "", fmt.Errorf("访问URL失败: %w", err)
	}
	collector.Wait()
	if fetchErr != nil {
		return "", fetchErr
	}
	return string(body), nil
}

// ToURL 把本地路径转换成file:// URL,已经是URL的原样返回
func ToURL(pathOrURL string) (string, error) {
	if u, err := url.Parse(pathOrURL); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return pathOrURL, nil
	}
	absPath, err := filepath.Abs(pathOrURL)
	if err != nil {
		return "", err
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}).String(), nil
}
