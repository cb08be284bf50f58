package browser

import (
	"github.com/rauenzi/bbdinstall/internal/log"
	"github.com/toqueteos/webbrowser"
)

// Opener hands a URL to the OS default handler.
type Opener interface {
	Open(url string) error
}

type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

type system struct{}

// System opens URLs with the platform's default browser.
func System() Opener {
	return system{}
}

func (system) Open(url string) error {
	log.Debugf("Opening %s", url)
	return webbrowser.Open(url)
}
