package errx

import (
	"errors"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("BIZ_X", "x").WithCause(errors.New("cause1"))
	e2 := NewBiz("BIZ_X", "x2").WithCause(errors.New("cause2"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true（只按 code 判断语义），e1=%v e2=%v", e1, e2)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("map seed failed")
	err := NewBiz("BIZ_GOLD_NOT_ENOUGH", "金币不足").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
	if !err.IsBiz() {
		t.Fatalf("期望 IsBiz()==true，err=%v", err)
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	cause := errors.New("io timeout")
	sys := NewSys("SYS_WS_WRITE", "系统不可用").WithCause(cause)
	if got := sys.Stack(); len(got) == 0 {
		t.Fatalf("期望系统错误捕获栈（发生/转换处），got=%v", got)
	}

	// 再包一层系统错误：如果下层已有栈，上层不应重复捕获
	sys2 := NewSys("SYS_GATEWAY_ERROR", "网关异常").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈（cause 链里已有栈），got=%v", got)
	}
}

func TestError_WithMsg_不影响原对象(t *testing.T) {
	base := NewBiz("BIZ_X", "原始文案")
	derived := base.WithMsg("新文案")
	if base.Msg() != "原始文案" {
		t.Fatalf("期望派生不改原对象，base.Msg()=%q", base.Msg())
	}
	if derived.Msg() != "新文案" {
		t.Fatalf("期望派生文案生效，derived.Msg()=%q", derived.Msg())
	}
	if !errors.Is(base, derived) {
		t.Fatalf("期望同码语义相同")
	}
}
