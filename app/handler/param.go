package handler

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

/***************************************************************** request ****************************************************************/

type LoginRequest struct {
	Passkey string `json:"passkey" validate:"required"`
}

type JobLaunchRequest struct {
	Name string `json:"name" validate:"required"`
}

/***************************************************************** response ***************************************************************/

// JWTResponse is the response sent after successful authentication
type JWTResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"`
}

type JobResponse struct {
	Id          uint   `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ScoreResponse struct {
	Code       string `json:"code"`
	Date       string `json:"date"`
	SheetScore int    `json:"sheet"`
	TrendScore int    `json:"trend"`
	PriceScore int    `json:"price"`
	KpiScore   int    `json:"kpi"`
	BuyScore   int    `json:"buy"`
	CapScore   int    `json:"cap"`
	PerScore   int    `json:"per"`
	PbrScore   int    `json:"pbr"`
	TotalScore int    `json:"total"`
}

type CandidateResponse struct {
	Code      string `json:"code"`
	Date      string `json:"date"`
	Strategy  string `json:"strategy"`
	Candidate string `json:"candidate"`
	Note      string `json:"note"`
	Pivot     int    `json:"pivot"`
	S1        int    `json:"s1"`
	S2        int    `json:"s2"`
	S3        int    `json:"s3"`
	R1        int    `json:"r1"`
	StckPrpr  int    `json:"prpr"`
}

type TradeHistoryResponse struct {
	Code       string `json:"code"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Type       string `json:"type"`
	Qty        int    `json:"qty"`
	TradePrice int    `json:"price"`
	Note       string `json:"note"`
}

/***************************************************************** helpers ****************************************************************/

var validate = validator.New()

func validCheck(param any) error {
	return validate.Struct(param)
}

var dateFormat = regexp.MustCompile(`^\d{8}$`)

func dateCheck(date string) bool {
	return dateFormat.MatchString(date)
}
