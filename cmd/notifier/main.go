package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/memocorner/repair-desk/internal/config"
	"github.com/memocorner/repair-desk/internal/notify"
	"github.com/memocorner/repair-desk/internal/queue"
	"github.com/memocorner/repair-desk/internal/repository"
	"github.com/memocorner/repair-desk/pkg/logger"
	"github.com/memocorner/repair-desk/pkg/pg"
	"github.com/memocorner/repair-desk/pkg/prom"
	"github.com/memocorner/repair-desk/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	readConf := pg.Config{
		User:     config.Get().PostgresReadUser,
		Host:     config.Get().PostgresReadHost,
		Port:     config.Get().PostgresReadPort,
		Password: config.Get().PostgresReadPassword,
		Database: config.Get().PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}

	pgDebug := false
	if config.Get().AppEnv == "dev" {
		pgDebug = true
	}
	db, err := pg.CreateReadWrite(readConf, writeConf, pgDebug)
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", config.Get().RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{config.Get().RedisAddr},
		ClientName: "default",
		DB:         config.Get().RedisDatabase,
		Username:   config.Get().RedisUsername,
		Password:   config.Get().RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	q, err := queue.New(redisAdap, queue.Config{
		Name:              config.Get().QueueName,
		ConsumerGroup:     config.Get().QueueConsumerGroup,
		ConsumerName:      config.Get().QueueConsumerName,
		MaxRetries:        config.Get().QueueMaxRetries,
		VisibilityTimeout: config.Get().QueueVisibilityTimeout,
		PollInterval:      config.Get().QueuePollInterval,
		BatchSize:         config.Get().QueueBatchSize,
		MaxLen:            config.Get().QueueMaxLen,
		EnableDLQ:         config.Get().QueueEnableDLQ,
	})
	if err != nil {
		logger.Error("failed creating queue", "error", err)
		return
	}

	var hostname string
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	err = prom.Create(hostname, config.Get().AppEnv, config.Get().PromNamespace)
	if err != nil {
		logger.Error("failed to create prometheus metrics", "error", err)
		return
	}

	go func() {
		prom.ListenAndServer(":9100", "/metrics")
	}()

	activityRepo := repository.NewActivityRepository(db)

	channel := notify.NewOSChannel()
	dispatcher := notify.NewDispatcher(channel, channel, channel, activityRepo, notify.AssistConfig{
		Enabled:       config.Get().AssistEnabled,
		UseClipboard:  config.Get().AssistUseClipboard,
		PressConfirm:  config.Get().AssistPressConfirm,
		InitialDelay:  config.Get().AssistInitialDelay,
		FocusAttempts: config.Get().AssistFocusAttempts,
		PollInterval:  config.Get().AssistPollInterval,
		SettleDelay:   config.Get().AssistSettleDelay,
	})
	processor := notify.NewProcessor(q, dispatcher)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		err := processor.Start()
		if err != nil {
			logger.Error("failed to start notification processor", "error", err)
		}
	}()

	select {
	case <-c:
		if err := processor.Stop(time.Second * 30); err != nil {
			logger.Error("failed to stop notification processor cleanly", "error", err)
		}
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
