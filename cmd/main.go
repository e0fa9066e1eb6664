package main

import (
	"swingbot"
	"swingbot/app"
	"swingbot/config"
	"swingbot/internal/db"
	"swingbot/kis"
	"swingbot/krx"
	"swingbot/notify"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {

	// .env는 없어도 됨. 배포 환경에서는 환경변수를 직접 주입함.
	godotenv.Load()

	conf, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	level, err := conf.LogLevel()
	if err != nil {
		panic(err)
	}
	/*
		memo.
		zerolog.SetGlobalLevel()는 이후에 생성되는 모든 zerolog.Logger의 로그 레벨을 설정함.
		단, mysql.go는 별도의 gorm logger를 사용하기 때문에 영향을 받지 않음.
	*/
	zerolog.SetGlobalLevel(level)

	ch := make(chan string, 100)

	webhook := notify.NewWebhook(conf.Notify.WebhookUrl)
	go webhook.Relay(ch)

	stg, err := db.NewStorage(conf.Dsn())
	if err != nil {
		panic(err)
	}

	bot := swingbot.NewSwingBot(swingbot.SwingBotConfig{
		Storage: stg,
		Broker:  kis.NewKis(conf.KisConfig()),
		Lister:  krx.NewClient(conf.KrxConfig()),
		Channel: ch,
		Trade:   conf.TradeConfig(),
	})
	bot.Run()

	app.Run(conf.App.Port, conf.App.JwtKey, conf.App.Passkey, stg, bot)
}
