package handler

import (
	"swingbot"

	m "swingbot/internal/model"
)

type JobRetriever interface {
	Jobs() []*swingbot.EnrolledJob
}

type JobLauncher interface {
	LaunchJob(name string) error
}

type ScoreRetriever interface {
	RetrieveScoreCards(date string) ([]m.ScoreCard, error)
}

type CandidateRetriever interface {
	RetrieveCandidates(date string) ([]m.TradeInfo, error)
}

type TradeHistoryRetriever interface {
	RetrieveTradeHistories(date string) ([]m.TradeHistory, error)
}

type PriceMaintainer interface {
	DeletePriceBars(date string) (int64, error)
}
