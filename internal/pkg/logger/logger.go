package logger

import (
	"fmt"
	"log"
	"os"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

type Logger struct {
	level Level
	log   *log.Logger
}

func New(level Level) *Logger {
	return &Logger{
		level: level,
		log:   log.New(os.Stdout, "", log.LstdFlags),
	}
}

func (l *Logger) write(level Level, format string, v ...interface{}) {
	if l.level > level {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if level == FATAL {
		l.log.Fatalf("[%s] %s", levelNames[level], msg)
		return
	}
	l.log.Printf("[%s] %s", levelNames[level], msg)
}

func (l *Logger) Debug(format string, v ...interface{}) { l.write(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.write(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.write(WARN, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.write(ERROR, format, v...) }
func (l *Logger) Fatal(format string, v ...interface{}) { l.write(FATAL, format, v...) }

func (l *Logger) SetLevel(level Level) { l.level = level }

var defaultLogger = New(INFO)

func Debug(format string, v ...interface{}) { defaultLogger.Debug(format, v...) }
func Info(format string, v ...interface{})  { defaultLogger.Info(format, v...) }
func Warn(format string, v ...interface{})  { defaultLogger.Warn(format, v...) }
func Error(format string, v ...interface{}) { defaultLogger.Error(format, v...) }
func Fatal(format string, v ...interface{}) { defaultLogger.Fatal(format, v...) }

func SetGlobalLevel(level Level) { defaultLogger.SetLevel(level) }
