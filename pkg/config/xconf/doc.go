// Package xconf 加载 YAML/JSON 配置并反序列化到带 koanf 标签的结构体，基于 koanf 实现。
//
// # 用法
//
// 默认值由目标结构体预先填充，配置文件只覆盖出现的键：
//
//	cfg, err := xconf.New("xdispatch.yaml", xconf.WithStrict())
//	if err != nil {
//		return err
//	}
//	poolCfg := xpool.DefaultConfig()
//	if err := cfg.Unmarshal("pool", &poolCfg); err != nil {
//		return err
//	}
//
// 命令行参数通过 [Config.Set] 覆盖文件中的值，优先级：flag > 文件 > 结构体默认值。
//
// # 支持的格式
//
//   - YAML：.yaml, .yml
//   - JSON：.json
//
// # 严格模式
//
// [WithStrict] 开启后，配置中存在目标结构体没有的键时 Unmarshal 返回
// [ErrUnmarshalFailed]，用于发现拼写错误（如 worker 误写为 wokers）。
//
// # 并发安全
//
// 所有方法并发安全。Reload 原子替换整份配置，此前通过 Set 写入的覆盖值随之丢弃。
package xconf
