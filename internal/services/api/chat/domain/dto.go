// Package domain holds the chat exchange's wire types, the query descriptor and ports
package domain

// Fixed user-facing messages, the chat widget shows them as is
const (
	MsgNoKey          = "API 키가 설정되지 않았습니다."
	MsgMessageMissing = "메시지가 필요합니다."
	MsgNoAnswer       = "응답을 받지 못했습니다."
	MsgTemporary      = "일시적인 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
	Refusal           = "죄송하지만, 국토교통부 공공데이터포털 현황에 대한 질문만 답변드릴 수 있습니다"
)

// ChatRequest is the exchange input, SessionID is echoed back when persistence is on
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse carries the answer text verbatim
type ChatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id,omitempty"`
}

// ErrorResponse is the only error shape the exchange emits
type ErrorResponse struct {
	Error string `json:"error"`
}
