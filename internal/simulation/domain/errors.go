package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameters 参数组合非法。所有 *ConfigError 均可通过 errors.Is 匹配到它。
var ErrInvalidParameters = errors.New("invalid simulation parameters")

// ConfigError 配置错误，在分配任何路径矩阵之前同步返回，不可重试
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is 使 errors.Is(err, ErrInvalidParameters) 成立
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidParameters
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
