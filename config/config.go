package config

import (
	_ "embed"
	"fmt"
	"os"

	"swingbot"
	"swingbot/kis"
	"swingbot/krx"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configByte []byte

type Config struct {
	Log string `yaml:"log"`
	App struct {
		Port    int    `yaml:"port" validate:"required"`
		JwtKey  string `yaml:"jwtkey"`
		Passkey string `yaml:"passkey"`
	} `yaml:"app"`

	Broker struct {
		Mode    string `yaml:"mode" validate:"oneof=real mock"`
		BaseUrl struct {
			Real string `yaml:"real"`
			Mock string `yaml:"mock"`
		} `yaml:"baseUrl"`
		AppKey    string `yaml:"appKey" validate:"required"`
		AppSecret string `yaml:"appSecret" validate:"required"`
		Account   struct {
			Number  string `yaml:"number" validate:"required"`
			Product string `yaml:"product" validate:"required"`
		} `yaml:"account"`
		TokenFile string `yaml:"tokenFile"`
	} `yaml:"broker"`

	Exchange struct {
		Ref struct {
			Kospi struct {
				Url string `yaml:"url"`
			} `yaml:"kospi"`
			Kosdaq struct {
				Url string `yaml:"url"`
			} `yaml:"kosdaq"`
			Key string `yaml:"key"`
		} `yaml:"ref"`
	} `yaml:"exchange"`

	Notify struct {
		WebhookUrl string `yaml:"webhookUrl"`
	} `yaml:"notify"`

	Db struct {
		User     string `yaml:"user"`
		Password string `yaml:"pwd"`
		IP       string `yaml:"ip"`
		Port     string `yaml:"port"`
		Scheme   string `yaml:"scheme"`
	} `yaml:"db"`

	Trading struct {
		Markets      []string `yaml:"markets" validate:"min=1"`
		ContractRate float64  `yaml:"contractRate" validate:"gt=0,lte=1"`
		LimitPrice   int64    `yaml:"limitPrice" validate:"gt=0"`
		LimitCnt     int      `yaml:"limitCnt" validate:"gt=0"`
		Buy          struct {
			UseYn        string `yaml:"useYN" validate:"oneof=Y N"`
			TestForceBuy string `yaml:"testForceBuy" validate:"omitempty,oneof=Y N"`
		} `yaml:"buy"`
		Sell struct {
			UpRate        float64 `yaml:"upRate"`
			DownRate      float64 `yaml:"downRate"`
			UseLossCut    string  `yaml:"useLossCut" validate:"oneof=Y N"`
			HoldRate      float64 `yaml:"holdRate" validate:"gte=0,lte=1"`
			TestForceSell string  `yaml:"testForceSell" validate:"omitempty,oneof=Y N"`
		} `yaml:"sell"`
	} `yaml:"trading"`
}

// NewConfig는 내장 config.yaml을 읽음. ${ENV} 자리는 환경변수로 치환됨.
func NewConfig() (*Config, error) {

	var ConfigInfo Config = Config{}

	err := yaml.Unmarshal([]byte(os.ExpandEnv(string(configByte))), &ConfigInfo)
	if err != nil {
		return nil, err
	}

	err = validator.New().Struct(&ConfigInfo)
	if err != nil {
		return nil, fmt.Errorf("config 유효성 검사 실패. %w", err)
	}

	return &ConfigInfo, nil
}

func (c Config) LogLevel() (zerolog.Level, error) {

	level, err := zerolog.ParseLevel(c.Log)
	if err != nil {
		return zerolog.InfoLevel, err // Default로는 Info 레벨 설정
	}

	return level, nil
}

func (c Config) KisConfig() *kis.Config {
	return &kis.Config{
		AppKey:    c.Broker.AppKey,
		AppSecret: c.Broker.AppSecret,
		Account:   c.Broker.Account.Number,
		Product:   c.Broker.Account.Product,
		IsMock:    c.Broker.Mode == "mock",
		RealBase:  c.Broker.BaseUrl.Real,
		MockBase:  c.Broker.BaseUrl.Mock,
		TokenFile: c.Broker.TokenFile,
	}
}

func (c Config) KrxConfig() *krx.Config {
	return &krx.Config{
		KospiURL:  c.Exchange.Ref.Kospi.Url,
		KosdaqURL: c.Exchange.Ref.Kosdaq.Url,
		AuthKey:   c.Exchange.Ref.Key,
	}
}

func (c Config) TradeConfig() swingbot.TradeConfig {
	return swingbot.TradeConfig{
		Markets:       c.Trading.Markets,
		ContractRate:  c.Trading.ContractRate,
		LimitPrice:    c.Trading.LimitPrice,
		LimitCnt:      c.Trading.LimitCnt,
		BuyUseYn:      c.Trading.Buy.UseYn,
		TestForceBuy:  c.Trading.Buy.TestForceBuy,
		UpRate:        c.Trading.Sell.UpRate,
		DownRate:      c.Trading.Sell.DownRate,
		UseLossCut:    c.Trading.Sell.UseLossCut,
		SellHoldRate:  c.Trading.Sell.HoldRate,
		TestForceSell: c.Trading.Sell.TestForceSell,
	}
}

func (c Config) Dsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", c.Db.User, c.Db.Password, c.Db.IP, c.Db.Port, c.Db.Scheme)
}
