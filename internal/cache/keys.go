package cache

import "fmt"

func JobStatusKey(jobID int64) string {
	return fmt.Sprintf("job:%d", jobID)
}

func GamePickKey(gameID int64) string {
	return fmt.Sprintf("pick:game:%d", gameID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
