package transport

// BizCode 表示业务码的强类型封装，用于在日志上下文中减少误传风险。
type BizCode int

// 通用业务码。0 成功；1~499 业务拒绝；>=500 系统错误。
const (
	OK           = 0
	InvalidParam = 400
	BizReject    = 409
	SystemError  = 500
)
