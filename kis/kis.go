package kis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"swingbot/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	ProdBaseURL = "https://openapi.koreainvestment.com:9443"
	MockBaseURL = "https://openapivts.koreainvestment.com:29443"
)

const (
	spotQuotePath    = "/uapi/domestic-stock/v1/quotations/inquire-price"
	chartPricePath   = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"
	dailyPricePath   = "/uapi/domestic-stock/v1/quotations/inquire-daily-price"
	balanceSheetPath = "/uapi/domestic-stock/v1/finance/balance-sheet"
	incomeSheetPath  = "/uapi/domestic-stock/v1/finance/income-statement"
	ratioSheetPath   = "/uapi/domestic-stock/v1/finance/financial-ratio"
	profitSheetPath  = "/uapi/domestic-stock/v1/finance/profit-ratio"
	otherSheetPath   = "/uapi/domestic-stock/v1/finance/other-major-ratios"
	accountPath      = "/uapi/domestic-stock/v1/trading/inquire-balance"
	orderPath        = "/uapi/domestic-stock/v1/trading/order-cash"
)

// 기간별 시세는 1회 100건 한도. 400일치 백필은 4회로 나눠 당김.
const (
	chartEpochs    = 4
	chartBatchSize = 100
)

type sheetEndpoint struct {
	path string
	trID string
}

var sheetEndpoints = map[string]sheetEndpoint{
	"B": {balanceSheetPath, "FHKST66430100"},
	"I": {incomeSheetPath, "FHKST66430200"},
	"F": {ratioSheetPath, "FHKST66430300"},
	"P": {profitSheetPath, "FHKST66430400"},
	"E": {otherSheetPath, "FHKST66430500"},
}

// 거래 계열 TR은 실전/모의 값이 다름. 시세/재무 조회 TR은 공통.
type tradeTrIDs struct {
	balance string
	buy     string
	sell    string
}

var (
	realTrIDs = tradeTrIDs{balance: "TTTC8434R", buy: "TTTC0012U", sell: "TTTC0011U"}
	mockTrIDs = tradeTrIDs{balance: "VTTC8434R", buy: "VTTC0012U", sell: "VTTC0011U"}
)

type Config struct {
	AppKey    string
	AppSecret string
	Account   string // 종합계좌번호 8자리
	Product   string // 계좌상품코드 2자리
	IsMock    bool
	RealBase  string // 미지정 시 운영 기본값
	MockBase  string
	TokenFile string
}

// Kis는 증권사 REST 어댑터. 시세/재무는 운영 도메인, 거래 계열은 모드 선택 도메인으로 나감.
type Kis struct {
	cl         *client
	marketBase string
	tradeBase  string
	trIDs      tradeTrIDs
	account    string
	product    string
	lg         zerolog.Logger
}

func NewKis(conf *Config) *Kis {

	realBase := conf.RealBase
	if realBase == "" {
		realBase = ProdBaseURL
	}
	mockBase := conf.MockBase
	if mockBase == "" {
		mockBase = MockBaseURL
	}

	tradeBase, trIDs := realBase, realTrIDs
	if conf.IsMock {
		tradeBase, trIDs = mockBase, mockTrIDs
	}

	tokens := NewTokenManager(&TokenConfig{
		BaseURL:   tradeBase,
		AppKey:    conf.AppKey,
		AppSecret: conf.AppSecret,
		FilePath:  conf.TokenFile,
	})

	return &Kis{
		cl:         newClient(tokens, conf.AppKey, conf.AppSecret),
		marketBase: realBase,
		tradeBase:  tradeBase,
		trIDs:      trIDs,
		account:    conf.Account,
		product:    conf.Product,
		lg:         zerolog.New(os.Stdout).With().Str("Module", "Kis").Timestamp().Logger(),
	}
}

// SpotQuote는 현재가 시세 output 맵을 반환함. 시가 0 보정은 호출부 책임.
func (k *Kis) SpotQuote(ctx context.Context, code string) (map[string]any, error) {

	query := "?fid_cond_mrkt_div_code=J&fid_input_iscd=" + code

	var body Body
	err := k.cl.call(ctx, http.MethodGet, k.marketBase+spotQuotePath, query, "FHKST01010100", nil, &body)
	if err != nil {
		return nil, fmt.Errorf("spot quote %s: %w", code, err)
	}
	if body.Output == nil {
		return nil, fmt.Errorf("spot quote %s: %w", code, ErrDataMissing)
	}
	return body.Output, nil
}

// DailyChartPrice는 [from, to] 구간 일봉을 최대 100건 조회함
func (k *Kis) DailyChartPrice(ctx context.Context, code, from, to string) (*IndexData, error) {

	query := "?fid_cond_mrkt_div_code=J&fid_input_iscd=" + code +
		"&fid_input_date_1=" + from + "&fid_input_date_2=" + to +
		"&fid_period_div_code=D&fid_org_adj_prc=1"

	var data IndexData
	err := k.cl.call(ctx, http.MethodGet, k.marketBase+chartPricePath, query, "FHKST03010100", nil, &data)
	if err != nil {
		return nil, fmt.Errorf("chart price %s [%s-%s]: %w", code, from, to, err)
	}
	return &data, nil
}

// HistoryChart는 todayOnly면 당일 1회, 아니면 400일치를 100일 단위 4회로 조회함.
// 배치 간 호출은 동시에 나가되 client의 limiter가 간격을 보장함.
func (k *Kis) HistoryChart(ctx context.Context, code string, todayOnly bool) ([]*IndexData, error) {

	if todayOnly {
		data, err := k.DailyChartPrice(ctx, code, util.Today(), util.Today())
		if err != nil {
			return nil, err
		}
		return []*IndexData{data}, nil
	}

	results := make([]*IndexData, chartEpochs)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < chartEpochs; i++ {
		g.Go(func() error {
			from := util.DayAgo((i+1)*chartBatchSize - 1)
			to := util.DayAgo(i * chartBatchSize)
			data, err := k.DailyChartPrice(gctx, code, from, to)
			if err != nil {
				return err
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// FinancialSheet는 재무제표 5종 조회. kind B/I/F/P/E, cycle 0 연간 / 1 분기.
func (k *Kis) FinancialSheet(ctx context.Context, kind, code, cycle string) (*SheetData, error) {

	ep, ok := sheetEndpoints[kind]
	if !ok {
		return nil, fmt.Errorf("sheet kind %q: %w", kind, ErrArgumentInvalid)
	}

	query := "?fid_cond_mrkt_div_code=J&fid_input_iscd=" + code + "&FID_DIV_CLS_CODE=" + cycle

	var data SheetData
	err := k.cl.call(ctx, http.MethodGet, k.marketBase+ep.path, query, ep.trID, nil, &data)
	if err != nil {
		return nil, fmt.Errorf("sheet %s/%s %s: %w", kind, cycle, code, err)
	}
	return &data, nil
}

// DailyPriceSeries는 최근 일자별 시세 30건. 시가 0 보정용으로 사용됨.
func (k *Kis) DailyPriceSeries(ctx context.Context, code string) (*SheetData, error) {

	query := "?fid_cond_mrkt_div_code=J&fid_input_iscd=" + code + "&FID_PERIOD_DIV_CODE=D&FID_ORG_ADJ_PRC=0"

	var data SheetData
	err := k.cl.call(ctx, http.MethodGet, k.marketBase+dailyPricePath, query, "FHKST01010400", nil, &data)
	if err != nil {
		return nil, fmt.Errorf("daily price %s: %w", code, err)
	}
	return &data, nil
}

// AccountBalance는 잔고 조회. output1 보유 종목, output2 계좌 합계.
func (k *Kis) AccountBalance(ctx context.Context) (*TwoArrayData, error) {

	query := "?CANO=" + k.account +
		"&ACNT_PRDT_CD=" + k.product +
		"&AFHR_FLPR_YN=N" +
		"&OFL_YN=" +
		"&INQR_DVSN=01" +
		"&UNPR_DVSN=01" +
		"&FUND_STTL_ICLD_YN=N" +
		"&FNCG_AMT_AUTO_RDPT_YN=N" +
		"&PRCS_DVSN=01" +
		"&CTX_AREA_FK100=" +
		"&CTX_AREA_NK100="

	var data TwoArrayData
	err := k.cl.call(ctx, http.MethodGet, k.tradeBase+accountPath, query, k.trIDs.balance, nil, &data)
	if err != nil {
		return nil, fmt.Errorf("account balance: %w", err)
	}
	return &data, nil
}

// PlaceOrder는 지정가("00") 현금 주문. 성공 시 주문번호(ODNO)를 반환하고
// rt_cd != "0"이면 BrokerError로 거절 사유를 올림.
func (k *Kis) PlaceOrder(ctx context.Context, side, code string, qty, price int) (string, error) {

	var trID string
	switch side {
	case "B":
		trID = k.trIDs.buy
	case "S":
		trID = k.trIDs.sell
	default:
		return "", fmt.Errorf("order side %q: %w", side, ErrArgumentInvalid)
	}

	reqBody, _ := json.Marshal(map[string]string{
		"CANO":         k.account,
		"ACNT_PRDT_CD": k.product,
		"PDNO":         code,
		"ORD_DVSN":     "00",
		"ORD_QTY":      fmt.Sprintf("%d", qty),
		"ORD_UNPR":     fmt.Sprintf("%d", price),
	})

	var body Body
	err := k.cl.call(ctx, http.MethodPost, k.tradeBase+orderPath, "", trID, reqBody, &body)
	if err != nil {
		return "", fmt.Errorf("order %s %s: %w", side, code, err)
	}

	if body.RtCd != "0" {
		return "", &BrokerError{RtCd: body.RtCd, Msg: body.Msg1}
	}
	if body.Output == nil {
		return "", fmt.Errorf("order %s %s: %w", side, code, ErrDataMissing)
	}

	odno := fmt.Sprintf("%v", body.Output["ODNO"])
	k.lg.Info().Str("code", code).Str("side", side).Int("qty", qty).Int("price", price).Str("odno", odno).Msg("order accepted")
	return odno, nil
}
