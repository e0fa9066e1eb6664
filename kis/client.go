package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	maxRetries    = 3
	retryInterval = time.Second
	callInterval  = time.Second
	httpTimeout   = 10 * time.Second
)

// 증권사 유량제한 거절 전문에 포함되는 식별 문자열
const rateExceededSentinel = "EGW00201"

// client는 모든 발신 호출을 단일 rate.Limiter로 직렬화하는 저수준 HTTP 계층.
// 워커 수와 무관하게 프로세스 전체 호출 간격이 1초 이상으로 유지됨.
type client struct {
	http      *http.Client
	limiter   *rate.Limiter
	tokens    *TokenManager
	appKey    string
	appSecret string
	lg        zerolog.Logger
}

func newClient(tokens *TokenManager, appKey, appSecret string) *client {
	return &client{
		http:      &http.Client{Timeout: httpTimeout},
		limiter:   rate.NewLimiter(rate.Every(callInterval), 1),
		tokens:    tokens,
		appKey:    appKey,
		appSecret: appSecret,
		lg:        zerolog.New(os.Stdout).With().Str("Module", "KisClient").Timestamp().Logger(),
	}
}

// call은 재시도/간격 제어를 포함한 단일 API 호출. GET이면 query를 경로에 붙이고
// POST면 body를 JSON으로 보냄. 응답은 out에 디코딩함.
func (c *client) call(ctx context.Context, method, url, query, trID string, body []byte, out any) error {

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retryable, err := c.do(ctx, method, url, query, trID, token, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
		c.lg.Warn().Err(err).Str("tr_id", trID).Int("attempt", attempt+1).Msg("request failed, retrying")
	}
	return lastErr
}

func (c *client) do(ctx context.Context, method, url, query, trID, token string, body []byte, out any) (retryable bool, err error) {

	var req *http.Request
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url+query, nil)
	}
	if err != nil {
		return false, err
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("authorization", "Bearer "+token)
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appsecret", c.appSecret)
	req.Header.Set("tr_id", trID)
	req.Header.Set("custtype", "P")

	resp, err := c.http.Do(req)
	if err != nil {
		return true, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("read response %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if strings.Contains(string(raw), rateExceededSentinel) {
			return true, fmt.Errorf("%w: %s", ErrRateExceeded, trID)
		}
		statusErr := &HTTPStatusError{Status: resp.StatusCode}
		return statusErr.Retryable(), statusErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return false, nil
}

// IsRetryable은 재시도 정책 판단 헬퍼. 네트워크/5xx/유량제한만 재시도 대상.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateExceeded) {
		return true
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return false
}
