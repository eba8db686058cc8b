package model

import (
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// Document 可以写入Elasticsearch的文档
// GetTypeMapping 会在零值(nil指针)上调用,实现时不能解引用接收者
type Document interface {
	*SeatDoc
	GetID() string
	GetTypeMapping() *types.TypeMapping
}
