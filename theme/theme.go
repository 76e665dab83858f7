// Package theme 解析主题文件并编译为布局阶段使用的固定版式常量。
package theme

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ByLCY/papyrus-cv/layout"
)

//go:embed default.theme
var defaultSource string

var (
	defaultOnce  sync.Once
	defaultTheme *layout.Theme
	defaultErr   error
)

// Default 返回内置主题的副本，调用方可自由修改。
func Default() (*layout.Theme, error) {
	defaultOnce.Do(func() {
		f, err := ParseString("default.theme", defaultSource)
		if err != nil {
			defaultErr = fmt.Errorf("解析内置主题失败: %w", err)
			return
		}
		defaultTheme, defaultErr = Compile(f, nil)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return clone(defaultTheme), nil
}

// MustDefault 与 Default 相同，失败时 panic，供初始化阶段使用。
func MustDefault() *layout.Theme {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// Load 解析主题源码并覆盖到内置主题之上。
func Load(name, src string) (*layout.Theme, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	f, err := ParseString(name, src)
	if err != nil {
		return nil, fmt.Errorf("解析主题 %s 失败: %w", name, err)
	}
	return Compile(f, base)
}

// LoadFile 读取主题文件；path 为空时返回内置主题。
func LoadFile(path string) (*layout.Theme, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取主题文件失败: %w", err)
	}
	return Load(filepath.Base(path), string(data))
}
