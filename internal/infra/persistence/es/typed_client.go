package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/LouYuanbo1/seatcrawler/internal/config"
	"github.com/LouYuanbo1/seatcrawler/internal/domain/model"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esutil"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

type typedEsClient[D model.Document] struct {
	client *elasticsearch.TypedClient
	index  string
	// 特别说明：这个实例仅用于获取mapping，不用于存储数据
	schemaDoc D
}

func InitTypedEsClient[D model.Document](cfg *config.Config) (TypedEsClient[D], error) {
	index := cfg.Elasticsearch.Index
	if index == "" {
		index = config.DefaultIndex
	}
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Addresses: []string{
			cfg.Elasticsearch.Address,
		},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			// 跳过TLS验证（仅在开发环境中使用）
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("初始化Elasticsearch客户端失败: %w", err)
	}
	return &typedEsClient[D]{client: typedClient, index: index}, nil
}

func (tec *typedEsClient[D]) GetClient() *elasticsearch.TypedClient {
	return tec.client
}

func (tec *typedEsClient[D]) Index() string {
	return tec.index
}

func (tec *typedEsClient[D]) CreateIndexWithMapping(ctx context.Context) error {
	// 检查索引是否已存在
	exists, err := tec.client.Indices.Exists(tec.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("检查索引是否存在失败: %w", err)
	}
	if exists {
		slog.Debug("索引已存在,跳过创建", "index", tec.index)
		return nil
	}

	mapping := tec.schemaDoc.GetTypeMapping()
	if mapping == nil {
		_, err = tec.client.Indices.Create(tec.index).Do(ctx)
	} else {
		_, err = tec.client.Indices.Create(tec.index).Mappings(mapping).Do(ctx)
	}
	if err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}
	slog.Info("索引创建成功", "index", tec.index)
	return nil
}

// BulkIndexDocsWithID 批量写入文档,文档ID已存在时覆盖
// 任意文档写入失败都会返回错误
func (tec *typedEsClient[D]) BulkIndexDocsWithID(ctx context.Context, docs []D) error {
	if len(docs) == 0 {
		return nil
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         tec.index,        // 目标索引名称
		Client:        tec.client,       // Elasticsearch 客户端
		NumWorkers:    2,                // 并发工作协程数
		FlushBytes:    5 * 1024 * 1024,  // 5MB 时自动刷新
		FlushInterval: 30 * time.Second, // 30秒自动刷新
		// 写完后等待刷新,保证随后的计数能看到这些文档
		Refresh: "wait_for",
		OnError: func(ctx context.Context, err error) {
			slog.Error("批量写入出错", "err", err)
		},
	})
	if err != nil {
		return fmt.Errorf("创建批量写入器失败: %w", err)
	}

	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			_ = bi.Close(ctx)
			return fmt.Errorf("序列化文档 %s 失败: %w", doc.GetID(), err)
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",               // 操作类型：index, create, update, delete
			DocumentID: doc.GetID(),           // 文档ID
			Body:       bytes.NewReader(data), // 文档内容
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					slog.Error("写入文档失败", "id", item.DocumentID, "err", err)
				} else {
					slog.Error("写入文档失败", "id", item.DocumentID, "reason", res.Error.Reason)
				}
			},
		})
		if err != nil {
			_ = bi.Close(ctx)
			return fmt.Errorf("添加文档 %s 失败: %w", doc.GetID(), err)
		}
	}

	// 刷新并关闭批量索引器（确保所有文档都被处理）
	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("关闭批量写入器失败: %w", err)
	}

	stats := bi.Stats()
	slog.Info("批量写入完成", "index", tec.index, "indexed", stats.NumIndexed, "failed", stats.NumFailed)
	if stats.NumFailed > 0 {
		return fmt.Errorf("%d 个文档写入失败", stats.NumFailed)
	}
	return nil
}

// CountDocs query为nil时统计整个索引
func (tec *typedEsClient[D]) CountDocs(ctx context.Context, query *types.Query) (int64, error) {
	req := tec.client.Count().Index(tec.index)
	if query != nil {
		req = req.Query(query)
	}
	resp, err := req.Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("统计文档失败: %w", err)
	}
	return resp.Count, nil
}
