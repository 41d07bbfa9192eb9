package messages

// Reply 是 actor 对 RequestFuture 的直接应答，Name/Code/Msg 由
// 网关层原样写回请求方的响应帧。业务拒绝时 Name 为 "error"。
type Reply struct {
	Name string
	Code int
	Msg  any
}
