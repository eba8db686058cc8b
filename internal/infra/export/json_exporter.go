package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/LouYuanbo1/seatcrawler/internal/domain/entity"
)

type jsonFileExporter struct {
	path string
}

// InitJsonFileExporter 输出为缩进两个空格的JSON数组,已存在的文件会被覆盖
func InitJsonFileExporter(path string) Exporter {
	return &jsonFileExporter{path: path}
}

func (je *jsonFileExporter) Export(ctx context.Context, eventUrl string, sections []entity.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sections == nil {
		sections = []entity.Section{}
	}
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化座位图失败: %w", err)
	}
	data = append(data, '\n')

	if err := WriteFileAtomic(je.path, data); err != nil {
		return err
	}
	slog.Info("座位图已保存", "path", je.path, "sections", len(sections))
	return nil
}

// WriteFileAtomic 先写同目录下的临时文件再重命名,失败时不会留下写了一半的文件
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("保存文件 %s 失败: %w", path, err)
	}
	return nil
}
