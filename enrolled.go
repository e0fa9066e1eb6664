package swingbot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"swingbot/internal/util"

	"github.com/robfig/cron"
)

const (
	UniverseSpec = "0 0 6 1 * *"       // 매월 1일 06:00 상장 종목 갱신
	ScoringSpec  = "0 0 5 * * *"       // 매일 05:00 전 종목 채점
	KosdaqSpec   = "0 0 16 * * *"      // 매일 16:00 KOSDAQ 수집
	KospiSpec    = "0 0 17 * * *"      // 매일 17:00 KOSPI 수집
	TradeSpec    = "*/30 * 9-15 * * *" // 장중 30초 주기 매매 점검
)

type EnrolledJob struct {
	Id          uint
	Name        string
	Title       string
	Description string
	schedule    string
	timeout     time.Duration
	Job         func(context.Context) error

	mu sync.Mutex
}

func (b *SwingBot) registerJobs() {
	b.enrolledJobs = []*EnrolledJob{
		{
			Id:          1,
			Name:        "universe",
			Title:       "상장 종목 갱신",
			Description: "거래소에서 보통주 상장 목록을 받아 신규 종목을 등록.\n매월 1일 오전 6시 실행",
			schedule:    UniverseSpec,
			timeout:     10 * time.Minute,
			Job:         b.RunUniverseJob,
		},
		{
			Id:          2,
			Name:        "scoring",
			Title:       "스윙 스코어링",
			Description: "전 종목 재무/추세/수급 채점 후 매수 후보 선정.\n매일 오전 5시 실행",
			schedule:    ScoringSpec,
			timeout:     30 * time.Minute,
			Job:         b.RunScoringJob,
		},
		{
			Id:          3,
			Name:        "collect-kosdaq",
			Title:       "KOSDAQ 수집",
			Description: "KOSDAQ 전 종목 시세/투자지표/재무제표 수집.\n매일 오후 4시 실행",
			schedule:    KosdaqSpec,
			timeout:     30 * time.Minute,
			Job: func(ctx context.Context) error {
				return b.RunCollectJob(ctx, "KOSDAQ")
			},
		},
		{
			Id:          4,
			Name:        "collect-kospi",
			Title:       "KOSPI 수집",
			Description: "KOSPI 전 종목 시세/투자지표/재무제표 수집.\n매일 오후 5시 실행",
			schedule:    KospiSpec,
			timeout:     30 * time.Minute,
			Job: func(ctx context.Context) error {
				return b.RunCollectJob(ctx, "KOSPI")
			},
		},
		{
			Id:          5,
			Name:        "buy",
			Title:       "매수 점검",
			Description: "예수금/보유 현행화 후 후보 종목 눌림목 매수.\n장중 30초 주기 실행",
			schedule:    TradeSpec,
			timeout:     5 * time.Minute,
			Job:         b.RunBuyJob,
		},
		{
			Id:          6,
			Name:        "sell",
			Title:       "매도 점검",
			Description: "보유 종목 익절/손절 조건 점검.\n장중 30초 주기 실행",
			schedule:    TradeSpec,
			timeout:     5 * time.Minute,
			Job:         b.RunSellJob,
		},
	}
}

func (b *SwingBot) Jobs() []*EnrolledJob {
	return b.enrolledJobs
}

// LaunchJob은 이름으로 잡을 즉시 1회 실행함. 실행은 비동기.
func (b *SwingBot) LaunchJob(name string) error {
	for _, job := range b.enrolledJobs {
		if job.Name == name {
			go b.launch(job)
			return nil
		}
	}
	return fmt.Errorf("미존재 job : %s", name)
}

// launch는 잡 1회 실행. 직전 실행이 아직 돌고 있으면 이번 회차는 건너뜀.
func (b *SwingBot) launch(job *EnrolledJob) {
	if !job.mu.TryLock() {
		b.lg.Debug().Str("job", job.Name).Msg("previous run still in progress, skip")
		return
	}
	defer job.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), job.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Job(ctx); err != nil {
		b.lg.Error().Err(err).Str("job", job.Name).Msg("job failed")
		b.notify(fmt.Sprintf("[잡실패] %s : %v", job.Title, err))
		return
	}
	b.lg.Info().Str("job", job.Name).Dur("elapsed", time.Since(start)).Msg("job done")
}

// Run은 전체 잡을 스케줄에 등록하고 크론을 기동함
func (b *SwingBot) Run() {
	b.lg.Info().Msg("starting scheduler")

	c := cron.NewWithLocation(util.MarketLocation())
	for _, job := range b.enrolledJobs {
		if job.schedule == "" {
			continue
		}
		c.AddFunc(job.schedule, func() { b.launch(job) })
	}
	c.Start()

	b.lg.Info().Int("jobs", len(b.enrolledJobs)).Msg("scheduler started")
}
