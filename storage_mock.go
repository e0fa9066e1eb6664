package swingbot

import (
	"sort"
	"time"

	m "swingbot/internal/model"

	"gorm.io/datatypes"
)

// StorageMock은 테스트용 인메모리 저장소
type StorageMock struct {
	tickers     []m.Ticker
	bars        map[string][]m.PriceBar // code -> 일봉 (임의 순서 보관, 조회 시 정렬)
	snaps       map[string]*m.EquitySnapshot
	incomes     map[string][]m.IncomeRow
	scoringRows []m.ScoringRow
	scoreCards  map[string]m.ScoreCard
	tradeInfos  map[string]*m.TradeInfo
	statuses    map[string]*m.TradeStatus
	histories   []m.TradeHistory
	balanceRows int
	ratioRows   int
	profitRows  int
	otherRows   int
	err         error
}

func NewStorageMock() *StorageMock {
	return &StorageMock{
		bars:       map[string][]m.PriceBar{},
		snaps:      map[string]*m.EquitySnapshot{},
		incomes:    map[string][]m.IncomeRow{},
		scoreCards: map[string]m.ScoreCard{},
		tradeInfos: map[string]*m.TradeInfo{},
		statuses:   map[string]*m.TradeStatus{},
	}
}

func key2(a, b string) string { return a + "|" + b }

func (s *StorageMock) RetrieveTickers(market string) ([]m.Ticker, error) {
	if s.err != nil {
		return nil, s.err
	}
	if market == "" {
		return s.tickers, nil
	}
	var out []m.Ticker
	for _, t := range s.tickers {
		if t.Market == market {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *StorageMock) SaveNewTickers(tickers []m.Ticker) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	known := map[string]bool{}
	for _, t := range s.tickers {
		known[t.Code] = true
	}
	added := 0
	for _, t := range tickers {
		if !known[t.Code] {
			t.CreatedDate = datatypes.Date(time.Now())
			s.tickers = append(s.tickers, t)
			known[t.Code] = true
			added++
		}
	}
	return added, nil
}

func (s *StorageMock) HasPriceBar(code, date string) (bool, error) {
	for _, bar := range s.bars[code] {
		if bar.Date == date {
			return true, nil
		}
	}
	return false, s.err
}

func (s *StorageMock) SavePriceBars(bars []m.PriceBar) error {
	if s.err != nil {
		return s.err
	}
	for _, bar := range bars {
		replaced := false
		for i, old := range s.bars[bar.Code] {
			if old.Date == bar.Date {
				s.bars[bar.Code][i] = bar
				replaced = true
				break
			}
		}
		if !replaced {
			s.bars[bar.Code] = append(s.bars[bar.Code], bar)
		}
	}
	return nil
}

func (s *StorageMock) RetrievePriceBars(code string, limit int) ([]m.PriceBar, error) {
	if s.err != nil {
		return nil, s.err
	}
	bars := append([]m.PriceBar(nil), s.bars[code]...)
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date > bars[j].Date })
	if limit > 0 && len(bars) > limit {
		bars = bars[:limit]
	}
	return bars, nil
}

func (s *StorageMock) RetrieveLatestPriceBar(code string) (*m.PriceBar, error) {
	bars, err := s.RetrievePriceBars(code, 1)
	if err != nil || len(bars) == 0 {
		return nil, err
	}
	return &bars[0], nil
}

func (s *StorageMock) HasBarsOn(date string) (bool, error) {
	for _, bars := range s.bars {
		for _, bar := range bars {
			if bar.Date == date {
				return true, nil
			}
		}
	}
	return false, s.err
}

func (s *StorageMock) DeletePriceBars(date string) (int64, error) {
	var deleted int64
	for code, bars := range s.bars {
		kept := bars[:0]
		for _, bar := range bars {
			if bar.Date == date {
				deleted++
				continue
			}
			kept = append(kept, bar)
		}
		s.bars[code] = kept
	}
	return deleted, s.err
}

func (s *StorageMock) SaveEquitySnapshot(snap *m.EquitySnapshot) error {
	if s.err != nil {
		return s.err
	}
	s.snaps[snap.Code] = snap
	return nil
}

func (s *StorageMock) SaveBalanceRows(rows []m.BalanceRow) error {
	s.balanceRows += len(rows)
	return s.err
}

func (s *StorageMock) SaveIncomeRows(rows []m.IncomeRow) error {
	if s.err != nil {
		return s.err
	}
	for _, row := range rows {
		s.incomes[row.Code] = append(s.incomes[row.Code], row)
	}
	return nil
}

func (s *StorageMock) SaveRatioRows(rows []m.RatioRow) error {
	s.ratioRows += len(rows)
	return s.err
}

func (s *StorageMock) SaveProfitRows(rows []m.ProfitRow) error {
	s.profitRows += len(rows)
	return s.err
}

func (s *StorageMock) SaveOtherRows(rows []m.OtherRow) error {
	s.otherRows += len(rows)
	return s.err
}

func (s *StorageMock) RetrieveLatestIncome(code string) (*m.IncomeRow, error) {
	if s.err != nil {
		return nil, s.err
	}
	rows := s.incomes[code]
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[0]
	for _, row := range rows[1:] {
		if row.YearMonth > latest.YearMonth {
			latest = row
		}
	}
	return &latest, nil
}

func (s *StorageMock) RetrieveScoringRows(asOf string) ([]m.ScoringRow, error) {
	return s.scoringRows, s.err
}

func (s *StorageMock) SaveScoreCard(card *m.ScoreCard) error {
	if s.err != nil {
		return s.err
	}
	s.scoreCards[key2(card.Code, card.Date)] = *card
	return nil
}

func (s *StorageMock) RetrieveScoreCards(date string) ([]m.ScoreCard, error) {
	var out []m.ScoreCard
	for _, card := range s.scoreCards {
		if card.Date == date {
			out = append(out, card)
		}
	}
	return out, s.err
}

func (s *StorageMock) RetrieveTradeInfo(code, date string) (*m.TradeInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	info, ok := s.tradeInfos[key2(code, date)]
	if !ok {
		return nil, nil
	}
	cp := *info
	return &cp, nil
}

func (s *StorageMock) SaveTradeInfo(info *m.TradeInfo) error {
	if s.err != nil {
		return s.err
	}
	cp := *info
	s.tradeInfos[key2(info.Code, info.Date)] = &cp
	return nil
}

func (s *StorageMock) RetrieveCandidates(date string) ([]m.TradeInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []m.TradeInfo
	for _, info := range s.tradeInfos {
		if info.Date == date && info.Strategy == m.StrategySwing && info.Candidate != m.No {
			out = append(out, *info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *StorageMock) RetrieveTradeStatus(code, date string) (*m.TradeStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	st, ok := s.statuses[key2(code, date)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (s *StorageMock) RetrieveTradeStatuses(date string, dir m.TradeDirection) ([]m.TradeStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []m.TradeStatus
	for _, st := range s.statuses {
		if st.Date == date && st.Direction == dir {
			out = append(out, *st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *StorageMock) SaveTradeStatus(st *m.TradeStatus) error {
	if s.err != nil {
		return s.err
	}
	cp := *st
	s.statuses[key2(st.Code, st.Date)] = &cp
	return nil
}

func (s *StorageMock) AppendTradeHistory(h *m.TradeHistory) error {
	if s.err != nil {
		return s.err
	}
	s.histories = append(s.histories, *h)
	return nil
}

func (s *StorageMock) HasBuySubmission(code, date string) (bool, error) {
	for _, h := range s.histories {
		if h.Code == code && h.Date == date && h.Type == string(m.SideBuy) {
			return true, nil
		}
	}
	return false, s.err
}

func (s *StorageMock) RetrieveTradeHistories(date string) ([]m.TradeHistory, error) {
	var out []m.TradeHistory
	for _, h := range s.histories {
		if h.Date == date {
			out = append(out, h)
		}
	}
	return out, s.err
}
