// Package guard forces test mode before any application package reads it.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("PORTIVA_TEST_MODE") == "" {
			_ = os.Setenv("PORTIVA_TEST_MODE", "1")
		}
	})
}
