package server

// ANSI colours for the development route log.
const (
	green   = "\033[32m"
	yellow  = "\033[33m"
	blue    = "\033[34m"
	magenta = "\033[35m"
	cyan    = "\033[36m"
	red     = "\033[31m"
	grey    = "\033[90m" // Bright black, often appears as grey

	resetColour = "\033[0m"
)

var methodColours = map[string]string{
	"GET":     green,
	"POST":    blue,
	"PUT":     cyan,
	"DELETE":  yellow,
	"PATCH":   magenta,
	"OPTIONS": grey,
}

// statusColour picks a colour for a response status in the development log.
func statusColour(status int) string {
	switch {
	case status >= 500:
		return red
	case status >= 400:
		return yellow
	case status >= 300:
		return cyan
	}
	return green
}
