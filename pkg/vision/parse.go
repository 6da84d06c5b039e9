package vision

import (
	"encoding/json"
	"strings"
)

const defaultItemConfidence = 0.5

// ParseDetections reads the model's reply. It prefers the outermost JSON array and
// falls back to one item per line when the reply is not JSON.
func ParseDetections(content string) []Detection {
	content = stripCodeFence(strings.TrimSpace(content))

	if start, end := strings.Index(content, "["), strings.LastIndex(content, "]"); start != -1 && end > start {
		if items, ok := parseArray(content[start : end+1]); ok {
			return items
		}
	}
	if items, ok := parseArray(content); ok {
		return items
	}
	return parseLines(content)
}

func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.Index(content, "\n"); nl != -1 {
		content = content[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(content), "```"))
}

func parseArray(raw string) ([]Detection, bool) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}

	items := make([]Detection, 0, len(entries))
	for _, entry := range entries {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			items = appendDetection(items, name, defaultItemConfidence)
			continue
		}

		var obj struct {
			Name       string   `json:"name"`
			Item       string   `json:"item"`
			Confidence *float64 `json:"confidence"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil {
			continue
		}
		if obj.Name == "" {
			obj.Name = obj.Item
		}
		confidence := defaultItemConfidence
		if obj.Confidence != nil {
			confidence = clamp(*obj.Confidence)
		}
		items = appendDetection(items, obj.Name, confidence)
	}
	return items, true
}

func parseLines(content string) []Detection {
	var items []Detection
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]") {
			continue
		}
		line = strings.TrimLeft(line, "-*• ")
		line = strings.Trim(line, `"',`)
		items = appendDetection(items, line, defaultItemConfidence)
	}
	return items
}

func appendDetection(items []Detection, name string, confidence float64) []Detection {
	name = strings.TrimSpace(name)
	if name == "" {
		return items
	}
	return append(items, Detection{Name: name, Confidence: confidence})
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
