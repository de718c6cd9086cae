package config

import (
	"github.com/MonkyMars/gecho"
)

var logger gecho.Logger

func InitializeLogger() *gecho.Logger {
	logger = *NewLogger(true)
	return &logger
}

func GetLogger() *gecho.Logger {
	return &logger
}

// NewLogger builds a logger at the environment's level. Request logging
// turns the caller off since every line comes from the same middleware.
func NewLogger(showCaller bool) *gecho.Logger {
	level := gecho.ParseLogLevel(GetLogLevel())
	return gecho.NewLogger(gecho.NewConfig(gecho.WithShowCaller(showCaller), gecho.WithLogLevel(level)))
}
