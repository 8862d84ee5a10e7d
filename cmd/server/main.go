package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/notify"
	"github.com/sevasetu/dhaja/internal/redis"
	"github.com/sevasetu/dhaja/internal/runner"
)

func main() {
	// .env is optional; real deployments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore(db.DB)

	if env.RedisAddress != "" {
		redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
	}

	files := InitStorage(env)

	notifier, err := notify.NewPublisher(env.MQTTBrokerURL, "dhaja-server")
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt init")
	}
	defer notifier.Close()

	runExecutor := runner.New(store, files, notifier)

	// set up gin router
	r := gin.Default()
	RegisterRoutes(r, env, store, files, runExecutor)

	// start
	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
