// Command sapphirewm runs the window manager: it loads configuration,
// connects to the X display, and blocks in the event loop until the
// connection is lost.
package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/heiytor/sapphire-wm/common"
	"github.com/heiytor/sapphire-wm/wm"
)

func main() {
	common.Config = common.NewConfig()

	level, err := log.ParseLevel(common.Config.LogLevel)
	if err != nil {
		log.WithFields(log.Fields{"value": common.Config.LogLevel, "err": err}).Warn("main.log_level.invalid")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		log.WithFields(log.Fields{"signal": sig}).Info("main.signal.exiting")
		os.Exit(0)
	}()

	manager := wm.New()
	manager.Run()
}
