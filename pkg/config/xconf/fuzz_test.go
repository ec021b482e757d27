package xconf

import "testing"

func FuzzNewFromBytes(f *testing.F) {
	f.Add([]byte(testYAML), true)
	f.Add([]byte(testJSON), false)
	f.Add([]byte(""), true)
	f.Add([]byte("{"), false)

	f.Fuzz(func(t *testing.T, data []byte, isYAML bool) {
		format := FormatJSON
		if isYAML {
			format = FormatYAML
		}
		cfg, err := NewFromBytes(data, format)
		if err != nil {
			return
		}
		var v map[string]any
		_ = cfg.Unmarshal("", &v)
	})
}
