// Package krx는 KRX 정보데이터시스템 Open API에서 상장 종목 기본정보를 가져온다.
package krx

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"swingbot/internal/model"
	"swingbot/internal/util"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// 시장별 기본정보 엔드포인트 기본값. 설정으로 시장별 URL을 따로 줄 수 있음.
const (
	DefaultKospiURL  = "https://data-dbg.krx.co.kr/svc/apis/sto/stk_isu_base_info"
	DefaultKosdaqURL = "https://data-dbg.krx.co.kr/svc/apis/sto/ksq_isu_base_info"
)

// 보통주만 수집 대상. 우선주/전환주 등은 스윙 후보에서 제외됨.
const commonStockType = "보통주"

type Config struct {
	KospiURL  string
	KosdaqURL string
	AuthKey   string
}

type Client struct {
	rest      *resty.Client
	endpoints map[string]string // market -> full URL
	authKey   string
	lg        zerolog.Logger
}

type listingRow struct {
	IsuSrtCd    string `json:"ISU_SRT_CD"`
	IsuAbbrv    string `json:"ISU_ABBRV"`
	IsuEngNm    string `json:"ISU_ENG_NM"`
	MktTpNm     string `json:"MKT_TP_NM"`
	SectTpNm    string `json:"SECT_TP_NM"`
	KindStkCert string `json:"KIND_STKCERT_TP_NM"`
}

type listingResponse struct {
	OutBlock []listingRow `json:"OutBlock_1"`
}

func NewClient(conf *Config) *Client {

	kospiURL := conf.KospiURL
	if kospiURL == "" {
		kospiURL = DefaultKospiURL
	}
	kosdaqURL := conf.KosdaqURL
	if kosdaqURL == "" {
		kosdaqURL = DefaultKosdaqURL
	}

	rest := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500
		})

	return &Client{
		rest: rest,
		endpoints: map[string]string{
			"KOSPI":  kospiURL,
			"KOSDAQ": kosdaqURL,
		},
		authKey: conf.AuthKey,
		lg:      zerolog.New(os.Stdout).With().Str("Module", "Krx").Timestamp().Logger(),
	}
}

// Listings는 기준일(전일) 상장 종목을 조회해 보통주만 Ticker로 매핑함.
// 동일 종목코드가 중복 수신되면 먼저 온 행을 유지함.
func (c *Client) Listings(ctx context.Context, market string) ([]model.Ticker, error) {

	url, ok := c.endpoints[market]
	if !ok {
		return nil, fmt.Errorf("krx: unknown market %q", market)
	}

	var parsed listingResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("AUTH_KEY", c.authKey).
		SetQueryParam("basDd", util.Yesterday()).
		SetResult(&parsed).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("krx: listings %s: %w", market, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("krx: listings %s: status %d", market, resp.StatusCode())
	}

	seen := make(map[string]bool)
	tickers := make([]model.Ticker, 0, len(parsed.OutBlock))
	for _, row := range parsed.OutBlock {
		if row.KindStkCert != commonStockType {
			continue
		}
		code := strings.TrimPrefix(row.IsuSrtCd, "A")
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		tickers = append(tickers, model.Ticker{
			Code:     code,
			Market:   row.MktTpNm,
			Name:     row.IsuAbbrv,
			CorpName: row.IsuEngNm,
			Sector:   row.SectTpNm,
		})
	}

	c.lg.Info().Str("market", market).Int("count", len(tickers)).Msg("listings fetched")
	return tickers, nil
}
