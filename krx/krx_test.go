package krx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingBody = `{
  "OutBlock_1": [
    {"ISU_SRT_CD":"A005930","ISU_ABBRV":"삼성전자","ISU_ENG_NM":"SamsungElectronics","MKT_TP_NM":"KOSPI","SECT_TP_NM":"","KIND_STKCERT_TP_NM":"보통주"},
    {"ISU_SRT_CD":"A005935","ISU_ABBRV":"삼성전자우","ISU_ENG_NM":"SamsungElectronics(1P)","MKT_TP_NM":"KOSPI","SECT_TP_NM":"","KIND_STKCERT_TP_NM":"우선주"},
    {"ISU_SRT_CD":"A005930","ISU_ABBRV":"삼성전자(중복)","ISU_ENG_NM":"Dup","MKT_TP_NM":"KOSPI","SECT_TP_NM":"","KIND_STKCERT_TP_NM":"보통주"},
    {"ISU_SRT_CD":"000660","ISU_ABBRV":"SK하이닉스","ISU_ENG_NM":"SK hynix","MKT_TP_NM":"KOSPI","SECT_TP_NM":"","KIND_STKCERT_TP_NM":"보통주"}
  ]
}`

func TestListings(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stk_isu_base_info", r.URL.Path)
		assert.Equal(t, "test-auth", r.URL.Query().Get("AUTH_KEY"))
		assert.Len(t, r.URL.Query().Get("basDd"), 8)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	c := NewClient(&Config{KospiURL: srv.URL + "/stk_isu_base_info", AuthKey: "test-auth"})

	tickers, err := c.Listings(context.Background(), "KOSPI")
	require.NoError(t, err)

	// 우선주 제외, 중복은 선착 유지, "A" 접두 제거
	require.Len(t, tickers, 2)
	assert.Equal(t, "005930", tickers[0].Code)
	assert.Equal(t, "삼성전자", tickers[0].Name)
	assert.Equal(t, "000660", tickers[1].Code)
}

func TestListings_PerMarketEndpoints(t *testing.T) {

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"OutBlock_1":[]}`))
	}))
	defer srv.Close()

	// 시장별 URL이 각자 설정값으로 풀림
	c := NewClient(&Config{
		KospiURL:  srv.URL + "/kospi-base",
		KosdaqURL: srv.URL + "/kosdaq-base",
		AuthKey:   "x",
	})

	_, err := c.Listings(context.Background(), "KOSPI")
	require.NoError(t, err)
	_, err = c.Listings(context.Background(), "KOSDAQ")
	require.NoError(t, err)

	assert.Equal(t, []string{"/kospi-base", "/kosdaq-base"}, paths)
}

func TestNewClient_DefaultEndpoints(t *testing.T) {

	c := NewClient(&Config{AuthKey: "x"})

	assert.Equal(t, DefaultKospiURL, c.endpoints["KOSPI"])
	assert.Equal(t, DefaultKosdaqURL, c.endpoints["KOSDAQ"])
}

func TestListings_UnknownMarket(t *testing.T) {

	c := NewClient(&Config{AuthKey: "x"})

	_, err := c.Listings(context.Background(), "NASDAQ")
	assert.Error(t, err)
}

func TestListings_RetriesOnServerError(t *testing.T) {

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	c := NewClient(&Config{KospiURL: srv.URL + "/stk_isu_base_info", AuthKey: "x"})

	tickers, err := c.Listings(context.Background(), "KOSPI")
	require.NoError(t, err)
	assert.Len(t, tickers, 2)
	assert.Equal(t, int32(3), calls.Load())
}
