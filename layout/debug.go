package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局结果（*Result 或 *Preview）输出为 JSON，便于调试或可视化。
func WriteDebugJSON(v any, path string) error {
	if v == nil {
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
