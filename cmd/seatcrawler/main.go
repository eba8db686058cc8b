package main

import (
	"context"
	_ "embed"
	"os"
	"os/signal"
	"syscall"

	"github.com/LouYuanbo1/seatcrawler/cmd/seatcrawler/commands"
)

//使用go:embed嵌入appconfig.json文件
//下方注释重要,不能删除
//没有指定--config时使用这份默认配置

//go:embed appconfig/appconfig.json
var appConfig []byte

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx, appConfig)
}
