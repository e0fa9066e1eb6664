package swingbot

import (
	"context"
	"fmt"

	m "swingbot/internal/model"
	"swingbot/internal/util"
	"swingbot/kis"

	"golang.org/x/sync/errgroup"
)

// 시장별 수집 동시 종목 수. 호출 간격은 kis 클라이언트의 limiter가 잡아줌.
const collectWorkers = 4

// RunUniverseJob은 거래소에서 상장 종목 기본정보를 받아 신규 종목만 등록함
func (b *SwingBot) RunUniverseJob(ctx context.Context) error {
	b.lg.Info().Msg("universe refresh start")

	total := 0
	for _, market := range b.conf.Markets {
		tickers, err := b.lst.Listings(ctx, market)
		if err != nil {
			return fmt.Errorf("universe %s: %w", market, err)
		}
		added, err := b.stg.SaveNewTickers(tickers)
		if err != nil {
			return fmt.Errorf("universe %s: %w", market, err)
		}
		total += added
	}

	b.notify(fmt.Sprintf("[종목수집] 신규 %d종목이 등록되었습니다.", total))
	return nil
}

// RunCollectJob은 시장 전 종목의 일봉/투자지표/재무제표를 수집하고 이동평균을 갱신함
func (b *SwingBot) RunCollectJob(ctx context.Context, market string) error {
	b.lg.Info().Str("market", market).Msg("collect start")
	b.notify(fmt.Sprintf("[수집시작] %s 시세/재무 수집을 시작합니다.", market))

	tickers, err := b.stg.RetrieveTickers(market)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(collectWorkers)
	for _, ticker := range tickers {
		g.Go(func() error {
			if err := b.collectItem(gctx, ticker.Code); err != nil {
				// 종목 단위 실패는 전체 수집을 멈추지 않음
				b.lg.Error().Err(err).Str("code", ticker.Code).Msg("collect item failed")
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.lg.Info().Str("market", market).Int("count", len(tickers)).Msg("collect done")
	b.notify(fmt.Sprintf("[수집종료] %s %d종목 수집을 마쳤습니다.", market, len(tickers)))
	return nil
}

// collectItem은 단일 종목 수집. 당일 일봉이 이미 있으면 건너뜀.
// 일봉이 하나도 없는 신규 종목은 400일치를 백필함.
func (b *SwingBot) collectItem(ctx context.Context, code string) error {

	hasToday, err := b.stg.HasPriceBar(code, util.Today())
	if err != nil {
		return err
	}
	if hasToday {
		b.lg.Debug().Str("code", code).Msg("existing bars, skip")
		return nil
	}

	existing, err := b.stg.RetrievePriceBars(code, 1)
	if err != nil {
		return err
	}
	todayOnly := len(existing) > 0

	charts, err := b.brk.HistoryChart(ctx, code, todayOnly)
	if err != nil {
		return err
	}
	for _, chart := range charts {
		if err := b.stg.SavePriceBars(parsePriceBars(code, chart)); err != nil {
			return err
		}
	}

	// 투자지표와 재무제표 5종(연간/분기)은 병렬 수집
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.collectEquity(gctx, code) })
	for _, kind := range []m.SheetKind{m.SheetBalance, m.SheetIncome, m.SheetRatio, m.SheetProfit, m.SheetOther} {
		for _, cycle := range []m.SheetClass{m.SheetAnnual, m.SheetQuarter} {
			g.Go(func() error { return b.collectSheet(gctx, kind, code, cycle) })
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return b.refreshMovingAverages(code)
}

func (b *SwingBot) refreshMovingAverages(code string) error {
	bars, err := b.stg.RetrievePriceBars(code, 0)
	if err != nil {
		return err
	}
	applyMovingAverages(bars)
	return b.stg.SavePriceBars(bars)
}

func parsePriceBars(code string, chart *kis.IndexData) []m.PriceBar {

	bars := make([]m.PriceBar, 0, len(chart.Output2))
	for _, row := range chart.Output2 {
		date := fmt.Sprintf("%v", row["stck_bsop_date"])
		if len(date) != 8 {
			continue
		}
		bars = append(bars, m.PriceBar{
			Code:         code,
			Date:         date,
			StckClpr:     util.ToInt(row["stck_clpr"]),
			StckOprc:     util.ToInt(row["stck_oprc"]),
			StckHgpr:     util.ToInt(row["stck_hgpr"]),
			StckLwpr:     util.ToInt(row["stck_lwpr"]),
			AcmlVol:      util.ToInt(row["acml_vol"]),
			AcmlTrPbmn:   util.ToDecimal(row["acml_tr_pbmn"]),
			PrdyVrss:     util.ToInt(row["prdy_vrss"]),
			PrdyVrssSign: util.ToInt(row["prdy_vrss_sign"]),
		})
	}
	return bars
}

func (b *SwingBot) collectEquity(ctx context.Context, code string) error {

	output, err := b.brk.SpotQuote(ctx, code)
	if err != nil {
		return err
	}

	str := func(key string) string {
		if v, ok := output[key]; ok && v != nil {
			return fmt.Sprintf("%v", v)
		}
		return ""
	}

	snap := &m.EquitySnapshot{
		Code:                 code,
		Industry:             str("bstp_kor_isnm"),
		StatusCode:           str("iscd_stat_cls_code"),
		StckSdpr:             util.ToDecimal(output["stck_sdpr"]),
		WghnAvrgStckPrc:      util.ToDecimal(output["wghn_avrg_stck_prc"]),
		HtsFrgnEhrt:          util.ToDecimal(output["hts_frgn_ehrt"]),
		FrgnNtbyQty:          util.ToDecimal(output["frgn_ntby_qty"]),
		PgtrNtbyQty:          util.ToDecimal(output["pgtr_ntby_qty"]),
		Cpfn:                 util.ToDecimal(output["cpfn"]),
		RstcWdthPrc:          util.ToDecimal(output["rstc_wdth_prc"]),
		StckFcam:             util.ToDecimal(output["stck_fcam"]),
		StckSspr:             util.ToDecimal(output["stck_sspr"]),
		AsprUnit:             util.ToDecimal(output["aspr_unit"]),
		HtsDealQtyUnitVal:    util.ToDecimal(output["hts_deal_qty_unit_val"]),
		LstnStcn:             util.ToDecimal(output["lstn_stcn"]),
		HtsAvls:              util.ToDecimal(output["hts_avls"]),
		VolTnrt:              util.ToDecimal(output["vol_tnrt"]),
		D250Hgpr:             util.ToDecimal(output["d250_hgpr"]),
		D250HgprDate:         str("d250_hgpr_date"),
		D250HgprVrssPrprRate: util.ToDecimal(output["d250_hgpr_vrss_prpr_rate"]),
		D250Lwpr:             util.ToDecimal(output["d250_lwpr"]),
		D250LwprDate:         str("d250_lwpr_date"),
		D250LwprVrssPrprRate: util.ToDecimal(output["d250_lwpr_vrss_prpr_rate"]),
		StckDryyHgpr:         util.ToDecimal(output["stck_dryy_hgpr"]),
		DryyHgprVrssPrprRate: util.ToDecimal(output["dryy_hgpr_vrss_prpr_rate"]),
		DryyHgprDate:         str("dryy_hgpr_date"),
		StckDryyLwpr:         util.ToDecimal(output["stck_dryy_lwpr"]),
		DryyLwprVrssPrprRate: util.ToDecimal(output["dryy_lwpr_vrss_prpr_rate"]),
		DryyLwprDate:         str("dryy_lwpr_date"),
		W52Hgpr:              util.ToDecimal(output["w52_hgpr"]),
		W52HgprVrssPrprCtrt:  util.ToDecimal(output["w52_hgpr_vrss_prpr_ctrt"]),
		W52HgprDate:          str("w52_hgpr_date"),
		W52Lwpr:              util.ToDecimal(output["w52_lwpr"]),
		W52LwprVrssPrprCtrt:  util.ToDecimal(output["w52_lwpr_vrss_prpr_ctrt"]),
		W52LwprDate:          str("w52_lwpr_date"),
		WholLoanRmndRate:     util.ToDecimal(output["whol_loan_rmnd_rate"]),
		SstsYn:               str("ssts_yn"),
		FcamCnnm:             str("fcam_cnnm"),
		CpfnCnnm:             str("cpfn_cnnm"),
		LastSstsCntgQty:      util.ToDecimal(output["last_ssts_cntg_qty"]),
		FrgnHldnQty:          util.ToDecimal(output["frgn_hldn_qty"]),
		Per:                  util.ToDecimal(output["per"]),
		Eps:                  util.ToDecimal(output["eps"]),
		Pbr:                  util.ToDecimal(output["pbr"]),
		Bps:                  util.ToDecimal(output["bps"]),
		StckMxpr:             util.ToDecimal(output["stck_mxpr"]),
		StckLlam:             util.ToDecimal(output["stck_llam"]),
	}
	return b.stg.SaveEquitySnapshot(snap)
}

// collectSheet는 재무제표 1종을 수집해 종류별 테이블에 upsert함
func (b *SwingBot) collectSheet(ctx context.Context, kind m.SheetKind, code string, cycle m.SheetClass) error {

	data, err := b.brk.FinancialSheet(ctx, string(kind), code, string(cycle))
	if err != nil {
		return err
	}

	key := func(row map[string]any) m.SheetKey {
		return m.SheetKey{
			Code:      code,
			SheetCl:   string(cycle),
			YearMonth: fmt.Sprintf("%v", row["stac_yymm"]),
		}
	}

	switch kind {
	case m.SheetBalance:
		rows := make([]m.BalanceRow, 0, len(data.Output))
		for _, row := range data.Output {
			rows = append(rows, m.BalanceRow{
				SheetKey:  key(row),
				Cras:      util.ToDecimal(row["cras"]),
				Fxas:      util.ToDecimal(row["fxas"]),
				TotalAset: util.ToDecimal(row["total_aset"]),
				FlowLblt:  util.ToDecimal(row["flow_lblt"]),
				FixLblt:   util.ToDecimal(row["fix_lblt"]),
				TotalLblt: util.ToDecimal(row["total_lblt"]),
				Cpfn:      util.ToDecimal(row["cpfn"]),
				CfpSurp:   util.ToDecimal(row["cfp_surp"]),
				PrfiSurp:  util.ToDecimal(row["prfi_surp"]),
				TotalCptl: util.ToDecimal(row["total_cptl"]),
			})
		}
		return b.stg.SaveBalanceRows(rows)

	case m.SheetIncome:
		rows := make([]m.IncomeRow, 0, len(data.Output))
		for _, row := range data.Output {
			rows = append(rows, m.IncomeRow{
				SheetKey:     key(row),
				SaleAccount:  util.ToDecimal(row["sale_account"]),
				SaleCost:     util.ToDecimal(row["sale_cost"]),
				SaleTotlPrfi: util.ToDecimal(row["sale_totl_prfi"]),
				DeprCost:     util.ToDecimal(row["depr_cost"]),
				SellMang:     util.ToDecimal(row["sell_mang"]),
				BsopPrti:     util.ToDecimal(row["bsop_prti"]),
				BsopNonErnn:  util.ToDecimal(row["bsop_non_ernn"]),
				BsopNonExpn:  util.ToDecimal(row["bsop_non_expn"]),
				OpPrfi:       util.ToDecimal(row["op_prfi"]),
				SpecPrfi:     util.ToDecimal(row["spec_prfi"]),
				SpecLoss:     util.ToDecimal(row["spec_loss"]),
				ThtrNtin:     util.ToDecimal(row["thtr_ntin"]),
			})
		}
		return b.stg.SaveIncomeRows(rows)

	case m.SheetRatio:
		rows := make([]m.RatioRow, 0, len(data.Output))
		for _, row := range data.Output {
			rows = append(rows, m.RatioRow{
				SheetKey:     key(row),
				Grs:          util.ToDecimal(row["grs"]),
				BsopPrfiInrt: util.ToDecimal(row["bsop_prfi_inrt"]),
				NtinInrt:     util.ToDecimal(row["ntin_inrt"]),
				RoeVal:       util.ToDecimal(row["roe_val"]),
				Eps:          util.ToDecimal(row["eps"]),
				Sps:          util.ToDecimal(row["sps"]),
				Bps:          util.ToDecimal(row["bps"]),
				RsrvRate:     util.ToDecimal(row["rsrv_rate"]),
				LbltRate:     util.ToDecimal(row["lblt_rate"]),
			})
		}
		return b.stg.SaveRatioRows(rows)

	case m.SheetProfit:
		rows := make([]m.ProfitRow, 0, len(data.Output))
		for _, row := range data.Output {
			rows = append(rows, m.ProfitRow{
				SheetKey:         key(row),
				CptlNtinRate:     util.ToDecimal(row["cptl_ntin_rate"]),
				SelfCptlNtinInrt: util.ToDecimal(row["self_cptl_ntin_inrt"]),
				SaleNtinRate:     util.ToDecimal(row["sale_ntin_rate"]),
				SaleTotlRate:     util.ToDecimal(row["sale_totl_rate"]),
			})
		}
		return b.stg.SaveProfitRows(rows)

	case m.SheetOther:
		rows := make([]m.OtherRow, 0, len(data.Output))
		for _, row := range data.Output {
			rows = append(rows, m.OtherRow{
				SheetKey: key(row),
				Ebitda:   util.ToDecimal(row["ebitda"]),
				EvEbitda: util.ToDecimal(row["ev_ebitda"]),
			})
		}
		return b.stg.SaveOtherRows(rows)
	}
	return nil
}
