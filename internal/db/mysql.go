// Package db는 MySQL 영속 계층. gorm 기반이며 조회 정렬은 항상 명시적으로 고정함.
package db

import (
	"errors"
	"fmt"
	"os"
	"time"

	"swingbot/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	glogger "gorm.io/gorm/logger"
)

type Storage struct {
	db *gorm.DB
	lg zerolog.Logger
}

func NewStorage(dsn string) (*Storage, error) {

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	err = db.AutoMigrate(
		&model.Ticker{},
		&model.EquitySnapshot{},
		&model.PriceBar{},
		&model.BalanceRow{},
		&model.IncomeRow{},
		&model.RatioRow{},
		&model.ProfitRow{},
		&model.OtherRow{},
		&model.ScoreCard{},
		&model.TradeInfo{},
		&model.TradeStatus{},
		&model.TradeHistory{},
	)
	if err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	return &Storage{
		db: db,
		lg: zerolog.New(os.Stdout).With().Str("Module", "Storage").Timestamp().Logger(),
	}, nil
}

// ───────────────────────── 종목 마스터 ─────────────────────────

// RetrieveTickers는 market이 비면 전체를 반환함
func (s *Storage) RetrieveTickers(market string) ([]model.Ticker, error) {
	var tickers []model.Ticker
	tx := s.db.Order("item_cd")
	if market != "" {
		tx = tx.Where("mrkt_ctg = ?", market)
	}
	if err := tx.Find(&tickers).Error; err != nil {
		return nil, err
	}
	return tickers, nil
}

// SaveNewTickers는 미등록 종목코드만 삽입하고 삽입 건수를 반환함
func (s *Storage) SaveNewTickers(tickers []model.Ticker) (int, error) {

	var existing []string
	if err := s.db.Model(&model.Ticker{}).Pluck("item_cd", &existing).Error; err != nil {
		return 0, err
	}
	known := make(map[string]bool, len(existing))
	for _, code := range existing {
		known[code] = true
	}

	registered := datatypes.Date(time.Now())
	fresh := make([]model.Ticker, 0)
	for _, t := range tickers {
		if !known[t.Code] {
			t.CreatedDate = registered
			fresh = append(fresh, t)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := s.db.Create(&fresh).Error; err != nil {
		return 0, err
	}
	s.lg.Info().Int("count", len(fresh)).Msg("new tickers saved")
	return len(fresh), nil
}

// ───────────────────────── 일봉 ─────────────────────────

func (s *Storage) HasPriceBar(code, date string) (bool, error) {
	var count int64
	err := s.db.Model(&model.PriceBar{}).
		Where("item_cd = ? AND stck_bsop_date = ?", code, date).
		Count(&count).Error
	return count > 0, err
}

func (s *Storage) SavePriceBars(bars []model.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&bars).Error
}

// RetrievePriceBars는 최신일 우선 정렬. limit 0이면 전체.
func (s *Storage) RetrievePriceBars(code string, limit int) ([]model.PriceBar, error) {
	var bars []model.PriceBar
	tx := s.db.Where("item_cd = ?", code).Order("stck_bsop_date DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

func (s *Storage) RetrieveLatestPriceBar(code string) (*model.PriceBar, error) {
	var bar model.PriceBar
	err := s.db.Where("item_cd = ?", code).
		Order("stck_bsop_date DESC").
		First(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

// HasBarsOn은 해당 영업일 일봉 존재 여부. 스코어링 사전 점검용.
func (s *Storage) HasBarsOn(date string) (bool, error) {
	var count int64
	err := s.db.Model(&model.PriceBar{}).
		Where("stck_bsop_date = ?", date).
		Count(&count).Error
	return count > 0, err
}

func (s *Storage) DeletePriceBars(date string) (int64, error) {
	res := s.db.Where("stck_bsop_date = ?", date).Delete(&model.PriceBar{})
	return res.RowsAffected, res.Error
}

// ───────────────────────── 투자지표 / 재무제표 ─────────────────────────

func (s *Storage) SaveEquitySnapshot(snap *model.EquitySnapshot) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(snap).Error
}

func (s *Storage) SaveBalanceRows(rows []model.BalanceRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

func (s *Storage) SaveIncomeRows(rows []model.IncomeRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

func (s *Storage) SaveRatioRows(rows []model.RatioRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

func (s *Storage) SaveProfitRows(rows []model.ProfitRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

func (s *Storage) SaveOtherRows(rows []model.OtherRow) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
}

// RetrieveLatestIncome은 연간 손익계산서 최신 결산분. 없으면 nil.
func (s *Storage) RetrieveLatestIncome(code string) (*model.IncomeRow, error) {
	var row model.IncomeRow
	err := s.db.Where("item_cd = ? AND sheet_cl = ?", code, model.SheetAnnual).
		Order("stac_yymm DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// 스코어링 입력 조인. 종목별 최신 연간 재무비율 + 투자지표 + asOf 이전 최신 일봉을 한 행으로 묶음.
// 스팩(SPAC) 합병법인은 펀더멘털 지표가 무의미해서 이름으로 걸러냄.
const scoringQuery = `
SELECT M.mrkt_ctg, E.bstp_kor_isnm, FS.item_cd, M.itms_nm,
       FS.grs, FS.bsop_prfi_inrt, FS.rsrv_rate, FS.lblt_rate,
       P.stck_clpr, E.stck_dryy_hgpr, E.dryy_hgpr_vrss_prpr_rate,
       P.ma5, P.ma10, P.ma20, P.ma30, P.ma60, P.ma120, P.ma200, P.ma240,
       E.frgn_ntby_qty, E.pgtr_ntby_qty, P.acml_vol, E.frgn_hldn_qty, E.lstn_stcn,
       E.per, E.pbr, E.stck_dryy_lwpr, E.dryy_lwpr_vrss_prpr_rate, E.eps, E.bps
FROM financial_sheet FS
JOIN (
    SELECT item_cd, MAX(stac_yymm) AS stac_yymm
    FROM financial_sheet
    WHERE sheet_cl = '0'
    GROUP BY item_cd
) LS ON FS.item_cd = LS.item_cd AND FS.stac_yymm = LS.stac_yymm
JOIN item_mst M ON M.item_cd = FS.item_cd
JOIN item_equity E ON E.item_cd = FS.item_cd
JOIN item_price P ON P.item_cd = FS.item_cd
JOIN (
    SELECT item_cd, MAX(stck_bsop_date) AS stck_bsop_date
    FROM item_price
    WHERE stck_bsop_date <= ?
    GROUP BY item_cd
) LP ON P.item_cd = LP.item_cd AND P.stck_bsop_date = LP.stck_bsop_date
WHERE FS.sheet_cl = '0'
  AND M.itms_nm NOT LIKE '%스팩%'
ORDER BY M.mrkt_ctg, E.bstp_kor_isnm, FS.item_cd`

func (s *Storage) RetrieveScoringRows(asOf string) ([]model.ScoringRow, error) {
	var rows []model.ScoringRow
	if err := s.db.Raw(scoringQuery, asOf).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("scoring join: %w", err)
	}
	return rows, nil
}

// ───────────────────────── 스코어 / 전략 정보 ─────────────────────────

func (s *Storage) SaveScoreCard(card *model.ScoreCard) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(card).Error
}

func (s *Storage) RetrieveScoreCards(date string) ([]model.ScoreCard, error) {
	var cards []model.ScoreCard
	err := s.db.Where("stck_bsop_date = ?", date).
		Order("total_score DESC, item_cd").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *Storage) RetrieveTradeInfo(code, date string) (*model.TradeInfo, error) {
	var info model.TradeInfo
	err := s.db.Where("item_cd = ? AND stck_bsop_date = ?", code, date).
		First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Storage) SaveTradeInfo(info *model.TradeInfo) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(info).Error
}

// RetrieveCandidates는 당일 스윙 전략 중 매수 제외(N)가 아닌 종목
func (s *Storage) RetrieveCandidates(date string) ([]model.TradeInfo, error) {
	var infos []model.TradeInfo
	err := s.db.Where("stck_bsop_date = ? AND cd_type = ? AND yn_possibility <> ?",
		date, model.StrategySwing, model.No).
		Order("item_cd").
		Find(&infos).Error
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// ───────────────────────── 매매 상태 / 이력 ─────────────────────────

func (s *Storage) RetrieveTradeStatus(code, date string) (*model.TradeStatus, error) {
	var st model.TradeStatus
	err := s.db.Where("item_cd = ? AND trade_date = ?", code, date).
		First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Storage) RetrieveTradeStatuses(date string, dir model.TradeDirection) ([]model.TradeStatus, error) {
	var sts []model.TradeStatus
	err := s.db.Where("trade_date = ? AND trade_type = ?", date, dir).
		Order("item_cd").
		Find(&sts).Error
	if err != nil {
		return nil, err
	}
	return sts, nil
}

// SaveTradeStatus는 (종목, 일자) 기준 단건 유지. 기존 행이 있으면 덮어씀.
func (s *Storage) SaveTradeStatus(st *model.TradeStatus) error {

	existing, err := s.RetrieveTradeStatus(st.Code, st.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		st.TradeID = existing.TradeID
	}
	return s.db.Save(st).Error
}

func (s *Storage) AppendTradeHistory(h *model.TradeHistory) error {
	return s.db.Create(h).Error
}

// HasBuySubmission은 당일 매수 접수 이력 존재 여부. 중복 주문 방지용.
func (s *Storage) HasBuySubmission(code, date string) (bool, error) {
	var count int64
	err := s.db.Model(&model.TradeHistory{}).
		Where("item_cd = ? AND trade_date = ? AND trade_type = ?", code, date, model.SideBuy).
		Count(&count).Error
	return count > 0, err
}

func (s *Storage) RetrieveTradeHistories(date string) ([]model.TradeHistory, error) {
	var hs []model.TradeHistory
	err := s.db.Where("trade_date = ?", date).
		Order("item_cd, trade_hour").
		Find(&hs).Error
	if err != nil {
		return nil, err
	}
	return hs, nil
}
