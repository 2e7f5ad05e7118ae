package lock

import (
	"context"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// releaseScript borra la key solo si su valor coincide con el owner.
// GET + DEL por separado dejaría una ventana donde el lock expiró y otra
// instancia lo tomó; el script corre atómico en el servidor.
var releaseScript = rdb.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implementa Locker sobre Redis.
type RedisLocker struct {
	Client *rdb.Client
	Prefix string
}

func NewRedisLocker(client *rdb.Client, prefix string) *RedisLocker {
	return &RedisLocker{Client: client, Prefix: prefix}
}

func (l *RedisLocker) key(k string) string {
	if l.Prefix == "" {
		return k
	}
	return l.Prefix + ":" + k
}

func (l *RedisLocker) Acquire(ctx context.Context, key, owner string, lease time.Duration) (bool, error) {
	// SET key owner NX EX lease
	return l.Client.SetNX(ctx, l.key(key), owner, lease).Result()
}

func (l *RedisLocker) Release(ctx context.Context, key, owner string) (bool, error) {
	n, err := releaseScript.Run(ctx, l.Client, []string{l.key(key)}, owner).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
