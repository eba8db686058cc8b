package collector

import "context"

// CollyCrawler 不启动浏览器,直接读取静态HTML(已保存的快照或服务端渲染的页面)
type CollyCrawler interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}
