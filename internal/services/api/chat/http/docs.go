package http

import "opendash/internal/modkit/swaggerkit"

// DocumentErrors replaces the envelope defaults on /chat with the bare {"error": "..."} body the exchange writes
func DocumentErrors(spec map[string]any) {
	swaggerkit.EachOperation(spec, func(path, _ string, op map[string]any) {
		if path != "/chat" && path != "/chat/" {
			return
		}
		resps, ok := op["responses"].(map[string]any)
		if !ok {
			resps = map[string]any{}
			op["responses"] = resps
		}
		resps["400"] = chatError("Bad Request", "메시지가 필요합니다.")
		resps["500"] = chatError("Internal Server Error", "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요.")
	})
}

func chatError(desc, example string) map[string]any {
	return map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{
					"type":       "object",
					"properties": map[string]any{"error": map[string]any{"type": "string"}},
				},
				"example": map[string]any{"error": example},
			},
		},
	}
}
