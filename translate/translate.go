// Package translate formats user visible messages for the stackvm tools.
//
// Messages are written as en-US Sprintf() formats and rendered through a
// message.Printer matched against the host locales.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("stackvm: locale: %v", err)
	}

	SetLocales(locales...)
}

// SetLocales selects the printer used by From. With no locales, en-US is used.
func SetLocales(locales ...string) {
	if len(locales) == 0 {
		locales = []string{language.AmericanEnglish.String()}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
