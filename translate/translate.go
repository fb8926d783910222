// Package translate renders user-facing messages through an x/text printer
// selected from the process locale.
package translate

import (
	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/message"

	"github.com/ezrec/ansistream/logging"
)

// FALLBACK_LOCALE is used when the process locale cannot be determined.
const FALLBACK_LOCALE = "en-US"

var logger = logging.RootLogger.Sublogger("translate")

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		logger.Warn(err)
	}
	SetLocales(locales...)
}

// SetLocales replaces the active printer with one matched against locales,
// in preference order. With no locales the fallback locale is used.
func SetLocales(locales ...string) {
	if len(locales) == 0 {
		locales = []string{FALLBACK_LOCALE}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
