package es

import (
	"context"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/model"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

/*
// 所有的文档结构体要实现这两个函数

	type Document interface {
		GetID() string
		GetTypeMapping() *types.TypeMapping
	}
*/
type TypedEsClient[D model.Document] interface {
	GetClient() *elasticsearch.TypedClient
	Index() string
	CreateIndexWithMapping(ctx context.Context) error
	BulkIndexDocsWithID(ctx context.Context, docs []D) error
	CountDocs(ctx context.Context, query *types.Query) (int64, error)
}
