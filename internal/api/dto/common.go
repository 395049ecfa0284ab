package dto

// Response 统一响应封装
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	// TraceID 投递类错误会带上诊断标识，便于定位失败阶段
	TraceID string `json:"trace_id,omitempty"`
}
