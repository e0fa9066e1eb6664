package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

/*
memo. 복합키 컬럼은 전부 string으로 유지함. 증권사/거래소 전문 포맷(yyyyMMdd, 결산년월 yyyyMM)을
그대로 키로 쓰기 때문에 time.Time 변환 없이 저장하고 비교함.
*/

// 시장 구분 및 전문상 코드 값들. DB/API 호환을 위해 wire 값 그대로 보존함.
type TradeDirection string

const (
	DirectionBought TradeDirection = "BS" // 매수 후 보유
	DirectionSold   TradeDirection = "SS" // 매도 완료
)

type OrderSide string

const (
	SideBuy  OrderSide = "B"
	SideSell OrderSide = "S"
)

type SheetClass string

const (
	SheetAnnual  SheetClass = "0"
	SheetQuarter SheetClass = "1"
)

type SheetKind string

const (
	SheetBalance SheetKind = "B"
	SheetIncome  SheetKind = "I"
	SheetRatio   SheetKind = "F"
	SheetProfit  SheetKind = "P"
	SheetOther   SheetKind = "E"
)

const (
	StrategySwing = "SW"
	Yes           = "Y"
	No            = "N"
)

type Ticker struct {
	Code        string `gorm:"column:item_cd;primaryKey;size:6"`
	Market      string `gorm:"column:mrkt_ctg;size:10"`
	Name        string `gorm:"column:itms_nm;size:1000"`
	CorpName    string `gorm:"column:corp_nm;size:1000"`
	Sector      string `gorm:"column:sector;size:1000"`
	CreatedDate datatypes.Date
}

func (Ticker) TableName() string { return "item_mst" }

// 종목별 투자지표 스냅샷. 일 단위로 전체 덮어씀.
type EquitySnapshot struct {
	Code                 string          `gorm:"column:item_cd;primaryKey;size:6"`
	Industry             string          `gorm:"column:bstp_kor_isnm;size:100"`
	StatusCode           string          `gorm:"column:iscd_stat_cls_code;size:3"`
	StckSdpr             decimal.Decimal `gorm:"type:decimal(23,2)"` // 기준가
	WghnAvrgStckPrc      decimal.Decimal `gorm:"type:decimal(23,2)"`
	HtsFrgnEhrt          decimal.Decimal `gorm:"type:decimal(23,2)"` // 외국인 소진율
	FrgnNtbyQty          decimal.Decimal `gorm:"type:decimal(23,2)"` // 외국인 순매수
	PgtrNtbyQty          decimal.Decimal `gorm:"type:decimal(23,2)"` // 프로그램 순매수
	Cpfn                 decimal.Decimal `gorm:"type:decimal(23,2)"` // 자본금
	RstcWdthPrc          decimal.Decimal `gorm:"type:decimal(23,2)"` // 제한폭 가격
	StckFcam             decimal.Decimal `gorm:"type:decimal(23,2)"` // 액면가
	StckSspr             decimal.Decimal `gorm:"type:decimal(23,2)"` // 대용가
	AsprUnit             decimal.Decimal `gorm:"type:decimal(23,2)"` // 호가 단위
	HtsDealQtyUnitVal    decimal.Decimal `gorm:"type:decimal(23,2)"`
	LstnStcn             decimal.Decimal `gorm:"type:decimal(23,2)"` // 상장 주수
	HtsAvls              decimal.Decimal `gorm:"type:decimal(23,2)"` // 시가총액
	VolTnrt              decimal.Decimal `gorm:"type:decimal(23,2)"` // 거래량 회전율
	D250Hgpr             decimal.Decimal `gorm:"type:decimal(23,2)"`
	D250HgprDate         string          `gorm:"size:8"`
	D250HgprVrssPrprRate decimal.Decimal `gorm:"type:decimal(23,2)"`
	D250Lwpr             decimal.Decimal `gorm:"type:decimal(23,2)"`
	D250LwprDate         string          `gorm:"size:8"`
	D250LwprVrssPrprRate decimal.Decimal `gorm:"type:decimal(23,2)"`
	StckDryyHgpr         decimal.Decimal `gorm:"type:decimal(23,2)"` // 연중 최고가
	DryyHgprVrssPrprRate decimal.Decimal `gorm:"type:decimal(23,2)"`
	DryyHgprDate         string          `gorm:"size:8"`
	StckDryyLwpr         decimal.Decimal `gorm:"type:decimal(23,2)"` // 연중 최저가
	DryyLwprVrssPrprRate decimal.Decimal `gorm:"type:decimal(23,2)"`
	DryyLwprDate         string          `gorm:"size:8"`
	W52Hgpr              decimal.Decimal `gorm:"type:decimal(23,2)"`
	W52HgprVrssPrprCtrt  decimal.Decimal `gorm:"type:decimal(23,2)"`
	W52HgprDate          string          `gorm:"size:8"`
	W52Lwpr              decimal.Decimal `gorm:"type:decimal(23,2)"`
	W52LwprVrssPrprCtrt  decimal.Decimal `gorm:"type:decimal(23,2)"`
	W52LwprDate          string          `gorm:"size:8"`
	WholLoanRmndRate     decimal.Decimal `gorm:"type:decimal(23,2)"` // 융자 잔고 비율
	SstsYn               string          `gorm:"size:1"`             // 공매도 가능 여부
	FcamCnnm             string          `gorm:"size:20"`
	CpfnCnnm             string          `gorm:"size:20"`
	LastSstsCntgQty      decimal.Decimal `gorm:"type:decimal(23,2)"`
	FrgnHldnQty          decimal.Decimal `gorm:"type:decimal(23,2)"` // 외국인 보유 수량
	Per                  decimal.Decimal `gorm:"type:decimal(23,2)"`
	Eps                  decimal.Decimal `gorm:"type:decimal(23,2)"`
	Pbr                  decimal.Decimal `gorm:"type:decimal(23,2)"`
	Bps                  decimal.Decimal `gorm:"type:decimal(23,2)"`
	StckMxpr             decimal.Decimal `gorm:"type:decimal(23,2)"` // 상한가
	StckLlam             decimal.Decimal `gorm:"type:decimal(23,2)"` // 하한가
}

func (EquitySnapshot) TableName() string { return "item_equity" }

// 일봉. (종목, 영업일) 복합키. 조회는 항상 최신일 우선 정렬.
type PriceBar struct {
	Code         string          `gorm:"column:item_cd;primaryKey;size:6"`
	Date         string          `gorm:"column:stck_bsop_date;primaryKey;size:8"`
	StckClpr     int             // 종가
	StckOprc     int             // 시가
	StckHgpr     int             // 고가
	StckLwpr     int             // 저가
	AcmlVol      int             // 누적 거래량
	AcmlTrPbmn   decimal.Decimal `gorm:"type:decimal(23,2)"` // 누적 거래대금
	PrdyVrss     int             // 전일 대비
	PrdyVrssSign int
	Ma5          float64
	Ma10         float64
	Ma20         float64
	Ma30         float64
	Ma60         float64
	Ma120        float64
	Ma200        float64
	Ma240        float64
}

func (PriceBar) TableName() string { return "item_price" }

// SheetKey는 재무제표 5종 공통 복합키
type SheetKey struct {
	Code      string `gorm:"column:item_cd;primaryKey;size:6"`
	SheetCl   string `gorm:"column:sheet_cl;primaryKey;size:1"` // 0 연간 / 1 분기
	YearMonth string `gorm:"column:stac_yymm;primaryKey;size:6"`
}

type BalanceRow struct {
	SheetKey  `gorm:"embedded"`
	Cras      decimal.Decimal `gorm:"type:decimal(23,2)"`
	Fxas      decimal.Decimal `gorm:"type:decimal(23,2)"`
	TotalAset decimal.Decimal `gorm:"type:decimal(23,2)"`
	FlowLblt  decimal.Decimal `gorm:"type:decimal(23,2)"`
	FixLblt   decimal.Decimal `gorm:"type:decimal(23,2)"`
	TotalLblt decimal.Decimal `gorm:"type:decimal(23,2)"`
	Cpfn      decimal.Decimal `gorm:"type:decimal(23,2)"`
	CfpSurp   decimal.Decimal `gorm:"type:decimal(23,2)"`
	PrfiSurp  decimal.Decimal `gorm:"type:decimal(23,2)"`
	TotalCptl decimal.Decimal `gorm:"type:decimal(23,2)"`
}

func (BalanceRow) TableName() string { return "balance_sheet" }

type IncomeRow struct {
	SheetKey     `gorm:"embedded"`
	SaleAccount  decimal.Decimal `gorm:"type:decimal(23,2)"`
	SaleCost     decimal.Decimal `gorm:"type:decimal(23,2)"`
	SaleTotlPrfi decimal.Decimal `gorm:"type:decimal(23,2)"`
	DeprCost     decimal.Decimal `gorm:"type:decimal(23,2)"`
	SellMang     decimal.Decimal `gorm:"type:decimal(23,2)"`
	BsopPrti     decimal.Decimal `gorm:"type:decimal(23,2)"` // 영업이익
	BsopNonErnn  decimal.Decimal `gorm:"type:decimal(23,2)"`
	BsopNonExpn  decimal.Decimal `gorm:"type:decimal(23,2)"`
	OpPrfi       decimal.Decimal `gorm:"type:decimal(23,2)"`
	SpecPrfi     decimal.Decimal `gorm:"type:decimal(23,2)"`
	SpecLoss     decimal.Decimal `gorm:"type:decimal(23,2)"`
	ThtrNtin     decimal.Decimal `gorm:"type:decimal(23,2)"` // 당기순이익
}

func (IncomeRow) TableName() string { return "income_sheet" }

// 재무비율. 스코어링 조인의 축이 되는 시트.
type RatioRow struct {
	SheetKey     `gorm:"embedded"`
	Grs          decimal.Decimal `gorm:"type:decimal(23,2)"` // 매출액 증가율
	BsopPrfiInrt decimal.Decimal `gorm:"type:decimal(23,2)"` // 영업이익 증가율
	NtinInrt     decimal.Decimal `gorm:"type:decimal(23,2)"`
	RoeVal       decimal.Decimal `gorm:"type:decimal(23,2)"`
	Eps          decimal.Decimal `gorm:"type:decimal(23,2)"`
	Sps          decimal.Decimal `gorm:"type:decimal(23,2)"`
	Bps          decimal.Decimal `gorm:"type:decimal(23,2)"`
	RsrvRate     decimal.Decimal `gorm:"type:decimal(23,2)"` // 유보율
	LbltRate     decimal.Decimal `gorm:"type:decimal(23,2)"` // 부채비율
}

func (RatioRow) TableName() string { return "financial_sheet" }

type ProfitRow struct {
	SheetKey         `gorm:"embedded"`
	CptlNtinRate     decimal.Decimal `gorm:"type:decimal(23,2)"`
	SelfCptlNtinInrt decimal.Decimal `gorm:"type:decimal(23,2)"`
	SaleNtinRate     decimal.Decimal `gorm:"type:decimal(23,2)"`
	SaleTotlRate     decimal.Decimal `gorm:"type:decimal(23,2)"`
}

func (ProfitRow) TableName() string { return "profit_sheet" }

type OtherRow struct {
	SheetKey `gorm:"embedded"`
	Ebitda   decimal.Decimal `gorm:"type:decimal(23,2)"`
	EvEbitda decimal.Decimal `gorm:"type:decimal(23,2)"`
}

func (OtherRow) TableName() string { return "etc_sheet" }

type ScoreCard struct {
	Code       string `gorm:"column:item_cd;primaryKey;size:6"`
	Date       string `gorm:"column:stck_bsop_date;primaryKey;size:8"`
	SheetScore int
	TrendScore int
	PriceScore int
	KpiScore   int
	BuyScore   int
	CapScore   int `gorm:"column:avls_score"`
	PerScore   int
	PbrScore   int
	TotalScore int
}

func (ScoreCard) TableName() string { return "swing_score" }

// 일별 매매 전략 정보. candidate 플래그가 스코어링과 매수 루프를 잇는 다리 역할.
type TradeInfo struct {
	Code         string `gorm:"column:item_cd;primaryKey;size:6"`
	Date         string `gorm:"column:stck_bsop_date;primaryKey;size:8"`
	Pivot        int
	R1           int
	R2           int
	R3           int
	S1           int
	S2           int
	S3           int
	StckOprc     int    // 금일 시가
	StckPrdyClpr int    // 전일 종가
	StckPrpr     int    // 현재가
	Strategy     string `gorm:"column:cd_type;size:2"`
	Candidate    string `gorm:"column:yn_possibility;size:1"`
	Note         string `gorm:"column:rmk"`
}

func (TradeInfo) TableName() string { return "item_trade_info" }

// 당일 종목별 최종 매매 상태. (종목, 일자)당 0 또는 1건.
type TradeStatus struct {
	TradeID    uint           `gorm:"column:trade_id;primaryKey;autoIncrement"`
	Code       string         `gorm:"column:item_cd;size:6;not null"`
	Date       string         `gorm:"column:trade_date;size:8;not null"`
	Direction  TradeDirection `gorm:"column:trade_type;size:2;not null"`
	Odno       string         `gorm:"size:10"` // 주문번호
	Qty        int
	TradePrice int
	TradeTime  string `gorm:"size:6"`
}

func (TradeStatus) TableName() string { return "trade_status" }

// 매매 이력. append-only.
type TradeHistory struct {
	Code       string `gorm:"column:item_cd;primaryKey;size:6"`
	Date       string `gorm:"column:trade_date;primaryKey;size:8"`
	Time       string `gorm:"column:trade_hour;primaryKey;size:6"`
	Type       string `gorm:"column:trade_type;primaryKey;size:1"` // B 매수접수 / S 매도
	Qty        int    `gorm:"column:trade_count"`
	TradePrice int
	Note       string `gorm:"column:rmk"`
}

func (TradeHistory) TableName() string { return "trade_history" }

// ScoringRow는 스코어링 조인 결과 29개 컬럼의 스캔 대상. 테이블 아님.
type ScoringRow struct {
	Market               string  `gorm:"column:mrkt_ctg"`
	Industry             string  `gorm:"column:bstp_kor_isnm"`
	Code                 string  `gorm:"column:item_cd"`
	Name                 string  `gorm:"column:itms_nm"`
	Grs                  float64 `gorm:"column:grs"`
	BsopPrfiInrt         float64 `gorm:"column:bsop_prfi_inrt"`
	RsrvRate             float64 `gorm:"column:rsrv_rate"`
	LbltRate             float64 `gorm:"column:lblt_rate"`
	StckClpr             int     `gorm:"column:stck_clpr"`
	StckDryyHgpr         float64 `gorm:"column:stck_dryy_hgpr"`
	DryyHgprVrssPrprRate float64 `gorm:"column:dryy_hgpr_vrss_prpr_rate"`
	Ma5                  float64 `gorm:"column:ma5"`
	Ma10                 float64 `gorm:"column:ma10"`
	Ma20                 float64 `gorm:"column:ma20"`
	Ma30                 float64 `gorm:"column:ma30"`
	Ma60                 float64 `gorm:"column:ma60"`
	Ma120                float64 `gorm:"column:ma120"`
	Ma240                float64 `gorm:"column:ma240"`
	FrgnNtbyQty          float64 `gorm:"column:frgn_ntby_qty"`
	PgtrNtbyQty          float64 `gorm:"column:pgtr_ntby_qty"`
	AcmlVol              int     `gorm:"column:acml_vol"`
	FrgnHldnQty          float64 `gorm:"column:frgn_hldn_qty"`
	LstnStcn             float64 `gorm:"column:lstn_stcn"`
	Per                  float64 `gorm:"column:per"`
	Pbr                  float64 `gorm:"column:pbr"`
	StckDryyLwpr         float64 `gorm:"column:stck_dryy_lwpr"`
	DryyLwprVrssPrprRate float64 `gorm:"column:dryy_lwpr_vrss_prpr_rate"`
	Eps                  float64 `gorm:"column:eps"`
	Bps                  float64 `gorm:"column:bps"`
}
