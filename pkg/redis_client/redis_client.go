package redis_client

import (
	"context"
	"strconv"

	"github.com/buswatch/buswatch/pkg/util"
	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

const defaultConnectionAddress = "localhost:6379"
const defaultConnectionPassword = ""
const defaultDatabase = 0

func Connect() error {
	address := defaultConnectionAddress
	password := defaultConnectionPassword
	database := defaultDatabase

	env := util.GetEnvironmentVariables()

	if env["BUSWATCH_REDIS_ADDRESS"] != "" {
		address = env["BUSWATCH_REDIS_ADDRESS"]
	}

	if env["BUSWATCH_REDIS_PASSWORD"] != "" {
		password = env["BUSWATCH_REDIS_PASSWORD"]
	}

	if env["BUSWATCH_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["BUSWATCH_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	statusCmd := Client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		Client = nil
		return err
	}

	return nil
}
