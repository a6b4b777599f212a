// Package redis opens go-redis clients for the replay guard.
//
// [Open] validates the URL scheme, applies pool and timeout options and
// retries the initial PING with a growing delay:
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"),
//	    redis.WithRetry(5, time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// [Healthcheck] adapts a client to a readiness probe and [Shutdown] to a
// shutdown hook.
package redis
