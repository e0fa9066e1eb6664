package kis

import (
	"errors"
	"fmt"
)

// 호출부에서 errors.Is/As로 분기하는 오류 분류.
var (
	ErrTokenFailure    = errors.New("kis: token refresh failed")
	ErrRateExceeded    = errors.New("kis: rate limit exceeded")
	ErrDecode          = errors.New("kis: response decode failed")
	ErrDataMissing     = errors.New("kis: expected data missing")
	ErrArgumentInvalid = errors.New("kis: invalid argument")
)

// HTTPStatusError는 2xx 외 응답
type HTTPStatusError struct {
	Status int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("kis: http status %d", e.Status)
}

func (e *HTTPStatusError) Retryable() bool {
	return e.Status >= 500
}

// BrokerError는 rt_cd != "0" 업무 거절. msg1을 그대로 보존함.
type BrokerError struct {
	RtCd string
	Msg  string
}

func (e *BrokerError) Error() string {
	return fmt.Sprintf("kis: broker reject rt_cd=%s msg=%s", e.RtCd, e.Msg)
}
