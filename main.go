package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := connectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	log.Info().Msg("connected to MongoDB")

	db := client.Database(cfg.DBName)
	users := NewMongoUserStore(db.Collection(userCollection))
	if err := users.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	tasks := NewMongoTaskStore(db.Collection(taskCollection))

	app := &App{
		cfg:   cfg,
		codec: NewTokenCodec(cfg.TokenSecret),
		users: users,
		tasks: tasks,
		log:   log.Logger,
	}

	log.Info().Str("port", cfg.Port).Msg("server started")
	if err := http.ListenAndServe(":"+cfg.Port, app.routes()); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
