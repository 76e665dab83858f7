package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/papyrus-cv/engine"
	"github.com/ByLCY/papyrus-cv/layout"
	"github.com/ByLCY/papyrus-cv/resume"
	"github.com/ByLCY/papyrus-cv/theme"
)

func main() {
	input := flag.String("in", "examples/resume.json", "简历 JSON 文件路径")
	output := flag.String("out", "", "PDF 输出路径，为空时按候选人姓名生成文件名")
	previewPath := flag.String("preview", "", "预览 SVG 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	outlines := flag.Bool("outlines", false, "为每个排版单元绘制辅助边框")
	themePath := flag.String("theme", "", "主题文件路径，为空时使用内置主题")
	flag.Parse()

	th, err := theme.LoadFile(*themePath)
	if err != nil {
		log.Fatalf("加载主题失败: %v", err)
	}
	baseDir := ""
	if *themePath != "" {
		baseDir = filepath.Dir(*themePath)
	}
	eng, err := engine.New(engine.Options{
		Theme:   th,
		BaseDir: baseDir,
		Debug:   layout.DebugOptions{Outlines: *outlines},
	})
	if err != nil {
		log.Fatalf("初始化引擎失败: %v", err)
	}

	out, err := run(eng, *input, *output, *previewPath, *debug)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", out)
}

// run 读取文档，导出 PDF，并按需写出预览与调试文件。返回 PDF 的实际路径。
func run(eng *engine.Engine, inputPath, outputPath, previewPath, debugPath string) (string, error) {
	doc, err := readDocument(inputPath)
	if err != nil {
		return "", err
	}

	exp, err := eng.Export(doc)
	if err != nil {
		return "", err
	}
	for _, w := range exp.Layout.Warnings {
		log.Printf("警告 [%s]: %s", w.Code, w.Message)
	}

	if outputPath == "" {
		outputPath = filepath.Join("output", exp.FileName)
	}
	if err := writeFile(outputPath, exp.PDF); err != nil {
		return "", err
	}

	if debugPath != "" {
		if err := writeDebug(exp.Layout, debugPath); err != nil {
			return "", err
		}
	}

	if previewPath != "" {
		pv, err := eng.Preview(doc)
		if err != nil {
			return "", err
		}
		if err := writeFile(previewPath, pv.SVG); err != nil {
			return "", err
		}
	}
	return outputPath, nil
}

func readDocument(path string) (resume.Document, error) {
	var doc resume.Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("无法读取简历文件 %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("解析简历 JSON 失败: %w", err)
	}
	return doc, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
