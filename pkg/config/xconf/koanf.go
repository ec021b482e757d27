package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Config 是一份已加载的配置。
type Config struct {
	mu     sync.RWMutex
	k      *koanf.Koanf
	path   string
	format Format
	opts   options
}

// New 从文件加载配置，根据扩展名检测格式（.yaml/.yml 或 .json）。
func New(path string, opts ...Option) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	c := newConfig(format, opts)
	c.path = path
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从字节数据加载配置。空数据得到空配置。
func NewFromBytes(data []byte, format Format, opts ...Option) (*Config, error) {
	if _, err := parserFor(format); err != nil {
		return nil, err
	}
	c := newConfig(format, opts)
	if len(data) > 0 {
		if err := loadData(c.k, data, format); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Empty 返回不含任何键的配置，Unmarshal 时目标保持默认值。
// 用于未指定配置文件的场景，仍可通过 Set 写入覆盖值。
func Empty(opts ...Option) *Config {
	return newConfig(FormatYAML, opts)
}

func newConfig(format Format, opts []Option) *Config {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Config{
		k:      koanf.New(o.delim),
		format: format,
		opts:   o,
	}
}

// Unmarshal 将 path 下的配置反序列化到 target，path 为空时反序列化整份配置。
// target 中已有的值在配置缺少对应键时保持不变。
func (c *Config) Unmarshal(path string, target any) error {
	if target == nil {
		return ErrNilTarget
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	conf := koanf.UnmarshalConf{Tag: c.opts.tag}
	if c.opts.strict {
		conf.DecoderConfig = &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			TagName:          c.opts.tag,
			Result:           target,
		}
	}
	if err := c.k.UnmarshalWithConf(path, target, conf); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnmarshalFailed, displayPath(path), err)
	}
	return nil
}

// MustUnmarshal 与 Unmarshal 相同，但失败时 panic。
func (c *Config) MustUnmarshal(path string, target any) {
	if err := c.Unmarshal(path, target); err != nil {
		panic(err)
	}
}

// Set 写入单个键，覆盖文件中的值。
func (c *Config) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.k.Set(key, value)
}

// Exists 报告键是否存在。
func (c *Config) Exists(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Exists(key)
}

// Keys 返回所有叶子键，按字典序排列。
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Keys()
}

// Reload 重新读取配置文件并原子替换。解析失败时保留旧配置。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	k := koanf.New(c.opts.delim)
	if err := loadData(k, data, c.format); err != nil {
		return err
	}

	c.mu.Lock()
	c.k = k
	c.mu.Unlock()
	return nil
}

// Path 返回配置文件路径，非文件来源时为空。
func (c *Config) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *Config) Format() Format {
	return c.format
}

// =============================================================================
// 内部辅助函数
// =============================================================================

func detectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func loadData(k *koanf.Koanf, data []byte, format Format) error {
	parser, err := parserFor(format)
	if err != nil {
		return err
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
