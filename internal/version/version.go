// Package version хранит сведения о сборке, заданные через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/ims/internal/version.version=v1.2.0 \
//	  -X github.com/vladislavdragonenkov/ims/internal/version.commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// GetVersion возвращает версию сборки.
func GetVersion() string { return version }

// String форматирует сведения для `ims version`.
func String() string {
	return fmt.Sprintf("ims version=%s commit=%s date=%s", version, commit, date)
}
