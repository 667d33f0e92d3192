package loan

import (
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrNoActiveLoan 副本没有未归还的借阅记录
	ErrNoActiveLoan = apperrors.New(apperrors.ErrCodeBadRequest, "未找到可归还的借阅记录")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeBadRequest, "借阅状态不允许此操作")

	// ErrInvalidDays 借阅天数必须为正数
	ErrInvalidDays = apperrors.New(apperrors.ErrCodeBadRequest, "借阅天数必须大于0")
)
