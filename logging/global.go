package logging

import "os"

// Global logger instance, configured from the environment at startup and
// replaceable via Configure once config is loaded.
var globalLogger = New(Config{
	Level:       os.Getenv("LOG_LEVEL"),
	Output:      os.Stdout,
	EnableColor: os.Getenv("LOG_COLOR") != "false",
})

// Configure replaces the global logger
func Configure(config Config) {
	globalLogger = New(config)
}

// WithPrefix returns a component-tagged logger derived from the global one
func WithPrefix(prefix string) *Logger {
	return globalLogger.WithPrefix(prefix)
}

// Debugf logs a formatted message at DEBUG level using the global logger
func Debugf(format string, args ...interface{}) { globalLogger.Debugf(format, args...) }

// Infof logs a formatted message at INFO level using the global logger
func Infof(format string, args ...interface{}) { globalLogger.Infof(format, args...) }

// Warnf logs a formatted message at WARN level using the global logger
func Warnf(format string, args ...interface{}) { globalLogger.Warnf(format, args...) }

// Errorf logs a formatted message at ERROR level using the global logger
func Errorf(format string, args ...interface{}) { globalLogger.Errorf(format, args...) }

// Fatalf logs a formatted message at FATAL level using the global logger and exits
func Fatalf(format string, args ...interface{}) { globalLogger.Fatalf(format, args...) }
