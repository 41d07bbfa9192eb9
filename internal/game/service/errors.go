package service

import "SixKingdoms/modules/kit/errx"

// 游戏域业务错误。msg 会作为 error 消息原样单播给请求方。
var (
	ErrUnknownUnitType  = errx.NewBiz("BIZ_UNKNOWN_UNIT_TYPE", "未知兵种")
	ErrInvalidCount     = errx.NewBiz("BIZ_INVALID_COUNT", "招募数量无效")
	ErrGoldNotEnough    = errx.NewBiz("BIZ_GOLD_NOT_ENOUGH", "金币不足")
	ErrTargetOutOfRange = errx.NewBiz("BIZ_TARGET_OUT_OF_RANGE", "目标超出交战距离")
	ErrCannotAttackSelf = errx.NewBiz("BIZ_CANNOT_ATTACK_SELF", "不能攻击自己")
)
