package handler

import (
	"swingbot"

	m "swingbot/internal/model"
)

type JobServiceMock struct {
	jobs     []*swingbot.EnrolledJob
	launched []string
	err      error
}

func (j *JobServiceMock) Jobs() []*swingbot.EnrolledJob {
	return j.jobs
}

func (j *JobServiceMock) LaunchJob(name string) error {
	if j.err != nil {
		return j.err
	}
	j.launched = append(j.launched, name)
	return nil
}

type StorageMock struct {
	cards     []m.ScoreCard
	infos     []m.TradeInfo
	histories []m.TradeHistory
	deleted   int64
	err       error
}

func (s *StorageMock) RetrieveScoreCards(date string) ([]m.ScoreCard, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cards, nil
}

func (s *StorageMock) RetrieveCandidates(date string) ([]m.TradeInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.infos, nil
}

func (s *StorageMock) RetrieveTradeHistories(date string) ([]m.TradeHistory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.histories, nil
}

func (s *StorageMock) DeletePriceBars(date string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.deleted, nil
}
