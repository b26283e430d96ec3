package watch

import (
	"os"
	"time"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func timeout() <-chan time.Time {
	return time.After(2 * time.Second)
}
