package main

import (
	"context"
	"log"
	"os"

	"github.com/hibiken/asynq"

	ovi "github.com/Ambro17/slacker/clients/ovi"
	slackclient "github.com/Ambro17/slacker/clients/slack"
	"github.com/Ambro17/slacker/config"
	"github.com/Ambro17/slacker/notify"
	"github.com/Ambro17/slacker/tasks"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.BrokerConfig.BrokerURL)
	if err != nil {
		return err
	}

	bot := slackclient.NewClient(cfg.SlackConfig.BotToken)
	oviBot := bot
	if cfg.SlackConfig.OviBotToken != "" {
		oviBot = slackclient.NewClient(cfg.SlackConfig.OviBotToken)
	}
	vmClient := ovi.NewClient(cfg.OviConfig.BaseURL)
	admin := notify.NewAdmin(bot, cfg.SlackConfig.ErrorsChannel, cfg.SlackConfig.BotFather)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("❌ Task %s failed: %v", task.Type(), err)
		}),
	})

	mux := asynq.NewServeMux()
	tasks.NewWorker(bot, oviBot, vmClient, admin).Register(mux)

	// Run blocks until SIGTERM/SIGINT and drains in-flight tasks on its own.
	log.Printf("🚀 Worker started, consuming tasks")
	return server.Run(mux)
}
