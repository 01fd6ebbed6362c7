package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures file rotation for SetupLogging.
type LogOptions struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

var (
	debugLog *log.Logger
	infoLog  *log.Logger
	warnLog  *log.Logger
	errorLog *log.Logger
	logMutex sync.Mutex
	debugOn  bool
	closers  []io.Closer
)

func init() {
	debugLog = log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(os.Stdout, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime)
}

// SetupLogging sends each level to the console and to its own rotating file
// under opts.Dir. Until it is called, logs go to the console only.
func SetupLogging(opts LogOptions) error {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	infoFile := rotatingFile(opts, "info.log")
	warnFile := rotatingFile(opts, "warn.log")
	errorFile := rotatingFile(opts, "error.log")

	infoWriter := io.MultiWriter(os.Stdout, infoFile)
	warnWriter := io.MultiWriter(os.Stdout, warnFile)
	errorWriter := io.MultiWriter(os.Stderr, errorFile)

	logMutex.Lock()
	defer logMutex.Unlock()

	debugOn = opts.Debug
	debugLog = log.New(infoWriter, "DEBUG: ", log.Ldate|log.Ltime)
	infoLog = log.New(infoWriter, "INFO: ", log.Ldate|log.Ltime)
	warnLog = log.New(warnWriter, "WARNING: ", log.Ldate|log.Ltime)
	errorLog = log.New(errorWriter, "ERROR: ", log.Ldate|log.Ltime)
	closers = []io.Closer{infoFile, warnFile, errorFile}

	// Override Go's default log
	log.SetOutput(infoWriter)
	return nil
}

// CloseLogging flushes and closes the rotating files.
func CloseLogging() {
	logMutex.Lock()
	defer logMutex.Unlock()
	for _, c := range closers {
		_ = c.Close()
	}
	closers = nil
}

func rotatingFile(opts LogOptions, name string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, name),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
}

func getCallerInfo() string {
	pc, _, _, ok := runtime.Caller(3)
	if !ok {
		return "unknown"
	}
	name := runtime.FuncForPC(pc).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func Log(level string, format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	write(level, format, v...)
}

func write(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	logEntry := fmt.Sprintf("[%s] %s", getCallerInfo(), message)

	switch level {
	case "DEBUG":
		if debugOn {
			debugLog.Println(logEntry)
		}
	case "WARNING":
		warnLog.Println(logEntry)
	case "ERROR":
		errorLog.Println(logEntry)
	default:
		infoLog.Println(logEntry)
	}
}

func Debug(format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	write("DEBUG", format, v...)
}

func Info(format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	write("INFO", format, v...)
}

func Warn(format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	write("WARNING", format, v...)
}

func Error(format string, v ...interface{}) {
	logMutex.Lock()
	defer logMutex.Unlock()
	write("ERROR", format, v...)
}
