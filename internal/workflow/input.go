package workflow

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	perrors "medreport-probe/pkg/errors"
)

// LoadReportText 读取报告文本：.pdf 提取正文，其余（.txt/.md 等）按 UTF-8 文本读取
func LoadReportText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", perrors.Wrapf(err, "read report %s", path)
	}
	var text string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = extractPDFText(data)
		if err != nil {
			return "", perrors.Wrapf(err, "extract pdf %s", path)
		}
	} else {
		text = strings.TrimSpace(string(data))
	}
	if text == "" {
		return "", perrors.Wrapf(perrors.ErrInvalidArg, "report %s contains no text", path)
	}
	return text, nil
}

// extractPDFText 按页提取 PDF 正文，页间以空行分隔
func extractPDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("打开 PDF failed: %w", err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("获取页数failed: %w", err)
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", fmt.Errorf("获取第 %d 页failed: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", fmt.Errorf("创建第 %d 页提取器failed: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return "", fmt.Errorf("提取第 %d 页文本failed: %w", i, err)
		}
		if t := strings.TrimSpace(text); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// AnalyzeFile 读取本地报告并以指定解释级别走完整工作流
func (d *Demo) AnalyzeFile(ctx context.Context, path string, level ExplanationLevel) (bool, error) {
	text, err := LoadReportText(path)
	if err != nil {
		return false, err
	}
	return d.scenario(ctx, "analyze", func(ctx context.Context) (bool, error) {
		d.logger.Info(fmt.Sprintf("🩺 Analyzing %s (%s explanations)", filepath.Base(path), level))
		d.logger.Info(rule(60))
		return d.AnalyzeReport(ctx, text, level)
	})
}
