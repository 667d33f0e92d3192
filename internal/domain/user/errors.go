package user

import (
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrInvalidCredentials 登录失败（不区分用户不存在与密码错误）
	ErrInvalidCredentials = apperrors.New(apperrors.ErrCodeBadRequest, "用户名或密码错误")

	// ErrRegistrationIncomplete 注册缺少必填项
	ErrRegistrationIncomplete = apperrors.New(apperrors.ErrCodeBadRequest, "注册信息不完整")

	// ErrUserIncomplete 新增用户缺少必填项
	ErrUserIncomplete = apperrors.New(apperrors.ErrCodeBadRequest, "用户信息不完整")

	// ErrUsernameTaken 用户名已存在
	ErrUsernameTaken = apperrors.New(apperrors.ErrCodeBadRequest, "用户名已存在")

	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.ErrCodeNotFound, "用户不存在")

	// ErrPasswordRequired 重置密码时新密码为空
	ErrPasswordRequired = apperrors.New(apperrors.ErrCodeBadRequest, "新密码不能为空")

	// ErrInvalidStatus 状态值不合法
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeBadRequest, "无效的用户状态")
)
