package version

import "fmt"

// Значения проставляются при сборке через -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает составляющие версии по отдельности.
func Info() (v, c, d string) { return version, commit, date }

// String возвращает версию одной строкой для логов и health-ответов.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
