package swingbot

import (
	"context"
	"os"
	"sync"

	"swingbot/internal/util"

	"github.com/rs/zerolog"
)

// TradeConfig는 매매 전략 파라미터. Y/N 플래그는 설정 파일 값을 그대로 보존함.
type TradeConfig struct {
	Markets       []string
	ContractRate  float64 // 1회 매수 시 예수금 대비 비율
	LimitPrice    int64   // 종목당 최대 매수 한도 금액
	LimitCnt      int     // 최대 보유 종목 수
	BuyUseYn      string  // 매수 로직 사용 여부
	TestForceBuy  string
	UpRate        float64 // 익절 기준 수익률
	DownRate      float64 // 손절 기준 수익률
	UseLossCut    string
	SellHoldRate  float64 // 매도 보류 비율
	TestForceSell string
}

type SwingBot struct {
	stg  Storage
	brk  Broker
	lst  Lister
	ch   chan<- string
	conf TradeConfig

	enrolledJobs []*EnrolledJob
	itemLocks    sync.Map // code -> *sync.Mutex, 매수/매도 간 동일 종목 동시 주문 방지
	lg           zerolog.Logger
}

type SwingBotConfig struct {
	Storage Storage
	Broker  Broker
	Lister  Lister
	Channel chan<- string
	Trade   TradeConfig
}

func NewSwingBot(conf SwingBotConfig) *SwingBot {

	b := &SwingBot{
		stg:  conf.Storage,
		brk:  conf.Broker,
		lst:  conf.Lister,
		ch:   conf.Channel,
		conf: conf.Trade,
		lg:   zerolog.New(os.Stdout).With().Str("Module", "SwingBot").Timestamp().Logger(),
	}
	b.registerJobs()
	return b
}

func (b *SwingBot) notify(msg string) {
	if b.ch == nil {
		return
	}
	select {
	case b.ch <- msg:
	default:
		b.lg.Warn().Str("msg", msg).Msg("notify channel full, message dropped")
	}
}

// lockItem은 종목 단위 주문 구간 잠금. 반환된 함수로 해제함.
func (b *SwingBot) lockItem(code string) func() {
	v, _ := b.itemLocks.LoadOrStore(code, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// currentPriceInfo는 현재가 조회 결과. 조회 실패 시 전부 0.
type currentPriceInfo struct {
	oprc int
	hgpr int
	lwpr int
	prpr int
}

// currentPrice는 현재가/시가/고가/저가를 조회함. 장전 등으로 시가가 0이면
// 일자별 시세의 최근 시가로 보정함.
func (b *SwingBot) currentPrice(ctx context.Context, code string) currentPriceInfo {

	output, err := b.brk.SpotQuote(ctx, code)
	if err != nil {
		b.lg.Error().Err(err).Str("code", code).Msg("spot quote failed")
		return currentPriceInfo{}
	}

	info := currentPriceInfo{
		oprc: util.ToInt(output["stck_oprc"]),
		hgpr: util.ToInt(output["stck_hgpr"]),
		lwpr: util.ToInt(output["stck_lwpr"]),
		prpr: util.ToInt(output["stck_prpr"]),
	}

	if info.oprc == 0 {
		info.oprc = b.fallbackOpenPrice(ctx, code)
	}
	return info
}

func (b *SwingBot) fallbackOpenPrice(ctx context.Context, code string) int {
	data, err := b.brk.DailyPriceSeries(ctx, code)
	if err != nil || len(data.Output) == 0 {
		return 0
	}
	return util.ToInt(data.Output[0]["stck_oprc"])
}
