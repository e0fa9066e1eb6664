package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"swingbot"
	"swingbot/app/middleware"
	m "swingbot/internal/model"
	"swingbot/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendRequest(t *testing.T, app *fiber.App, path, method string, body any, out any) int {

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestJobHandler(t *testing.T) {

	app := fiber.New()
	middleware.SetupMiddleware(app)

	mock := &JobServiceMock{jobs: []*swingbot.EnrolledJob{
		{Id: 1, Name: "scoring", Title: "스윙 스코어링", Description: "매일 오전 5시 실행"},
		{Id: 2, Name: "buy", Title: "매수 점검", Description: "장중 30초 주기 실행"},
	}}
	NewJobHandler(mock, mock).InitRoute(app)

	t.Run("잡 목록 조회", func(t *testing.T) {
		var resp []JobResponse
		status := sendRequest(t, app, "/jobs/", "GET", nil, &resp)
		assert.Equal(t, fiber.StatusOK, status)
		require.Len(t, resp, 2)
		assert.Equal(t, "scoring", resp[0].Name)
	})

	t.Run("잡 수동 실행", func(t *testing.T) {
		status := sendRequest(t, app, "/jobs/launch", "POST", JobLaunchRequest{Name: "buy"}, nil)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, []string{"buy"}, mock.launched)
	})

	t.Run("잡 이름 누락", func(t *testing.T) {
		status := sendRequest(t, app, "/jobs/launch", "POST", JobLaunchRequest{}, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("미존재 잡", func(t *testing.T) {
		mock.err = fmt.Errorf("미존재 job : none")
		defer func() { mock.err = nil }()

		status := sendRequest(t, app, "/jobs/launch", "POST", JobLaunchRequest{Name: "none"}, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestScoreHandler(t *testing.T) {

	app := fiber.New()
	middleware.SetupMiddleware(app)

	mock := &StorageMock{
		cards: []m.ScoreCard{{Code: "005930", Date: util.Today(), SheetScore: 5, TotalScore: 35}},
		infos: []m.TradeInfo{{Code: "005930", Date: util.Today(), Candidate: m.Yes, Note: "swing target"}},
	}
	NewScoreHandler(mock, mock).InitRoute(app)

	t.Run("스코어 조회", func(t *testing.T) {
		var resp []ScoreResponse
		status := sendRequest(t, app, "/scores/"+util.Today(), "GET", nil, &resp)
		assert.Equal(t, fiber.StatusOK, status)
		require.Len(t, resp, 1)
		assert.Equal(t, 35, resp[0].TotalScore)
	})

	t.Run("후보 조회", func(t *testing.T) {
		var resp []CandidateResponse
		status := sendRequest(t, app, "/scores/candidates/"+util.Today(), "GET", nil, &resp)
		assert.Equal(t, fiber.StatusOK, status)
		require.Len(t, resp, 1)
		assert.Equal(t, "swing target", resp[0].Note)
	})

	t.Run("날짜 포맷 오류", func(t *testing.T) {
		status := sendRequest(t, app, "/scores/2025-08", "GET", nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestTradeHandler(t *testing.T) {

	app := fiber.New()
	middleware.SetupMiddleware(app)

	mock := &StorageMock{
		histories: []m.TradeHistory{{Code: "005930", Date: util.Today(), Time: "093000", Type: "B", Qty: 11, TradePrice: 9_000}},
		deleted:   120,
	}
	NewTradeHandler(mock, mock).InitRoute(app)

	t.Run("매매 이력 조회", func(t *testing.T) {
		var resp []TradeHistoryResponse
		status := sendRequest(t, app, "/trades/"+util.Today(), "GET", nil, &resp)
		assert.Equal(t, fiber.StatusOK, status)
		require.Len(t, resp, 1)
		assert.Equal(t, "B", resp[0].Type)
	})

	t.Run("일봉 삭제", func(t *testing.T) {
		status := sendRequest(t, app, "/prices/"+util.Today(), "DELETE", nil, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})
}

func TestAuthHandler(t *testing.T) {

	app := fiber.New()
	middleware.SetupMiddleware(app)

	NewAuthHandler("test-jwt-key", "test-passkey").InitRoute(app)
	mock := &JobServiceMock{}
	NewJobHandler(mock, mock).InitRoute(app)

	t.Run("로그인 성공", func(t *testing.T) {
		var resp JWTResponse
		status := sendRequest(t, app, "/auth/login", "POST", LoginRequest{Passkey: "test-passkey"}, &resp)
		assert.Equal(t, fiber.StatusOK, status)
		assert.NotEmpty(t, resp.Token)

		// 발급받은 토큰으로 보호 경로 접근
		req, err := http.NewRequest("GET", "/jobs/", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+resp.Token)

		r, err := app.Test(req)
		require.NoError(t, err)
		defer r.Body.Close()
		assert.Equal(t, fiber.StatusOK, r.StatusCode)
	})

	t.Run("잘못된 passkey", func(t *testing.T) {
		status := sendRequest(t, app, "/auth/login", "POST", LoginRequest{Passkey: "wrong"}, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("토큰 없이 보호 경로 접근", func(t *testing.T) {
		status := sendRequest(t, app, "/jobs/", "GET", nil, nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}
