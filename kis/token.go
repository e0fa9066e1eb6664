package kis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// 토큰 정책상 유효기간은 24시간. 시계 오차 흡수를 위해 23시간으로 관리함.
const tokenLifetime = 23 * time.Hour

// 만료 직전 토큰으로 호출이 나가지 않도록 하는 최소 잔여 유효시간
const tokenMargin = time.Minute

const expiryLayout = "2006-01-02T15:04:05"

type TokenManager struct {
	baseURL   string
	appKey    string
	appSecret string
	filePath  string

	mtx     sync.Mutex
	token   string
	expiry  time.Time
	group   singleflight.Group
	client  *http.Client
	nowFunc func() time.Time
	lg      zerolog.Logger
}

type TokenConfig struct {
	BaseURL   string
	AppKey    string
	AppSecret string
	FilePath  string
}

func NewTokenManager(conf *TokenConfig) *TokenManager {
	return &TokenManager{
		baseURL:   conf.BaseURL,
		appKey:    conf.AppKey,
		appSecret: conf.AppSecret,
		filePath:  conf.FilePath,
		client:    &http.Client{Timeout: 10 * time.Second},
		nowFunc:   time.Now,
		lg:        zerolog.New(os.Stdout).With().Str("Module", "TokenManager").Timestamp().Logger(),
	}
}

// GetToken은 1분 이상 유효한 토큰을 반환함. 캐시 → 파일 → 신규 발급 순서로 확보하고,
// 발급은 singleflight로 동시 호출 간 1회만 수행함.
func (t *TokenManager) GetToken(ctx context.Context) (string, error) {

	if tok, ok := t.cached(); ok {
		return tok, nil
	}

	v, err, _ := t.group.Do("refresh", func() (any, error) {
		// singleflight 대기 중 선행 호출이 채워놨을 수 있음
		if tok, ok := t.cached(); ok {
			return tok, nil
		}

		if tok, exp, ok := t.loadFile(); ok && t.nowFunc().Add(tokenMargin).Before(exp) {
			t.store(tok, exp)
			return tok, nil
		}

		var lastErr error
		for attempt := 0; attempt < 3; attempt++ {
			tok, err := t.issue(ctx)
			if err == nil {
				exp := t.nowFunc().Add(tokenLifetime)
				t.store(tok, exp)
				t.saveFile(tok, exp)
				return tok, nil
			}
			lastErr = err
			t.lg.Warn().Err(err).Int("attempt", attempt+1).Msg("token refresh failed")
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenFailure, lastErr)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *TokenManager) cached() (string, bool) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.token != "" && t.nowFunc().Add(tokenMargin).Before(t.expiry) {
		return t.token, true
	}
	return "", false
}

func (t *TokenManager) store(token string, expiry time.Time) {
	t.mtx.Lock()
	t.token = token
	t.expiry = expiry
	t.mtx.Unlock()
}

func (t *TokenManager) issue(ctx context.Context) (string, error) {

	reqBody, _ := json.Marshal(map[string]string{
		"grant_type": "client_credentials",
		"appkey":     t.appKey,
		"appsecret":  t.appSecret,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/oauth2/tokenP", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("empty access_token in response")
	}

	t.lg.Info().Msg("issued new access token")
	return parsed.AccessToken, nil
}

// 파일 포맷 : 1행 토큰, 2행 만료일시(ISO-8601 로컬). 읽기 실패/불완전은 미존재 취급.
func (t *TokenManager) loadFile() (string, time.Time, bool) {
	raw, err := os.ReadFile(t.filePath)
	if err != nil {
		return "", time.Time{}, false
	}

	lines := strings.SplitN(strings.TrimSpace(string(raw)), "\n", 2)
	if len(lines) < 2 {
		return "", time.Time{}, false
	}

	token := strings.TrimSpace(lines[0])
	exp, err := time.ParseInLocation(expiryLayout, strings.TrimSpace(lines[1]), time.Local)
	if err != nil || token == "" {
		return "", time.Time{}, false
	}
	return token, exp, true
}

func (t *TokenManager) saveFile(token string, expiry time.Time) {
	if err := os.MkdirAll(filepath.Dir(t.filePath), 0o755); err != nil {
		t.lg.Error().Err(err).Msg("token dir create failed")
		return
	}
	content := token + "\n" + expiry.Format(expiryLayout)
	if err := os.WriteFile(t.filePath, []byte(content), 0o600); err != nil {
		t.lg.Error().Err(err).Msg("token file write failed")
	}
}
