package main

import (
	"flag"
	"log/slog"

	"GuestFlow/bot"
	"GuestFlow/bot/capture"
	"GuestFlow/bot/rsvp"
	"GuestFlow/bot/whatsapp"
	"GuestFlow/impl/core"
	"GuestFlow/internal/config"
	repository "GuestFlow/internal/database"
	"GuestFlow/internal/http-server/api"
	"GuestFlow/internal/lib/logger"
	"GuestFlow/internal/lib/sl"
	"GuestFlow/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	if conf.Telegram.Enabled {
		tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram ops alerts initialized")
		}
	}

	lg.Info("starting guestflow", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(sl.Err(err)).Error("mongo client")
	}
	if db == nil {
		lg.Error("mongo is required, enable it in the config")
		return
	}
	lg.With(
		slog.String("host", conf.Mongo.Host),
		slog.String("port", conf.Mongo.Port),
		slog.String("database", conf.Mongo.Database),
	).Info("mongo client initialized")

	gateway := whatsapp.NewClient(conf, lg)
	gateway.SetRecorder(db)
	lg.With(
		sl.Secret("access_token", conf.WhatsApp.AccessToken),
		slog.String("phone_number_id", conf.WhatsApp.PhoneNumberID),
	).Info("whatsapp client initialized")

	hub := ws.NewHub(lg)
	go hub.Run()

	orchestrator := capture.NewOrchestrator(db, gateway, lg)
	orchestrator.SetProgressListener(hub)

	rsvpService := rsvp.NewService(db, gateway, orchestrator, lg)
	rsvpService.SetListener(hub)

	handler := core.New(lg)
	handler.SetRepository(db)
	handler.SetCaptureFlow(orchestrator)
	handler.SetRSVPFlow(rsvpService)
	handler.SetGateway(gateway)
	handler.SetAuthKey(conf.Listen.ApiKey)

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.With(sl.Err(err)).Error("api server stopped")
	}
}
