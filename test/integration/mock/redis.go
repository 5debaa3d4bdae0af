package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var redisOnce sync.Once
var redisMock *Redis

// Redis wraps an in-process miniredis server and a client connected to it.
type Redis struct {
	Server *miniredis.Miniredis
	Client *redis.Client
}

func NewRedis() *Redis {
	redisOnce.Do(
		func() {
			redisMock = openRedis()
		},
	)
	return redisMock
}

func openRedis() *Redis {
	server, err := miniredis.Run()
	if err != nil {
		panic(err)
	}

	client := redis.NewClient(
		&redis.Options{
			Addr: server.Addr(),
		},
	)

	return &Redis{Server: server, Client: client}
}

func (r *Redis) Clear() error {
	return r.Client.FlushAll(context.TODO()).Err()
}
