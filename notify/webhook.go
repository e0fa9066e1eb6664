// Package notify는 매매/수집 이벤트를 웹훅 채널로 내보낸다.
package notify

import (
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type Webhook struct {
	rest *resty.Client
	url  string
	lg   zerolog.Logger
}

func NewWebhook(url string) *Webhook {
	return &Webhook{
		rest: resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second),
		url: url,
		lg:  zerolog.New(os.Stdout).With().Str("Module", "Notify").Timestamp().Logger(),
	}
}

// Send는 한 건을 동기 전송함. 실패는 로그만 남김. 알림 실패가 매매 흐름을 막으면 안 됨.
func (w *Webhook) Send(msg string) {

	if w.url == "" {
		w.lg.Info().Str("msg", msg).Msg("webhook url not set, message dropped")
		return
	}

	resp, err := w.rest.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": msg}).
		Post(w.url)
	if err != nil {
		w.lg.Error().Err(err).Msg("webhook send failed")
		return
	}
	if resp.IsError() {
		w.lg.Error().Int("status", resp.StatusCode()).Msg("webhook rejected")
	}
}

// Relay는 채널이 닫힐 때까지 수신 메시지를 순서대로 전송함. 고루틴으로 띄워 사용.
func (w *Webhook) Relay(ch <-chan string) {
	for msg := range ch {
		w.Send(msg)
	}
}
