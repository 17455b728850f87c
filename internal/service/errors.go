package service

import "errors"

// 对外的错误分类，handler 通过 errors.Is 映射为 HTTP 状态码
var (
	// ErrInvalidInput 请求参数格式错误，在访问数据库之前返回
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound 查询成功但结果为空
	ErrNotFound = errors.New("not found")
	// ErrBackend 数据库不可用或查询失败，细节只记日志
	ErrBackend = errors.New("backend unavailable")
)
