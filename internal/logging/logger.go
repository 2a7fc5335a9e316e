// Package logging provides config-driven categorized file-based logging.
// Logs are written to .adgen/logs/ with a separate file per category.
// Logging is controlled by debug_mode in .adgen/config.json - when false, no
// logs are written.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and wiring
	CategoryGenerator Category = "generator" // Provider API calls
	CategoryOrchestr  Category = "orchestrator"
	CategoryHistory   Category = "history" // History store operations
	CategoryExport    Category = "export"  // Bundle/JSON export
	CategoryScrape    Category = "scrape"  // URL page-fact extraction
	CategoryLive      Category = "live"    // Duplex audio session
)

// loggingConfig mirrors the logging section of .adgen/config.json.
type loggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories"`
	Level      string          `json:"level"`
}

type configFile struct {
	Logging loggingConfig `json:"logging"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	workspace string
	config    loggingConfig
	configMu  sync.RWMutex
	logLevel  int
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory and loads config.
// Should be called once at startup with the workspace path.
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}

	workspace = ws
	logsDir = filepath.Join(workspace, ".adgen", "logs")

	if err := loadConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not load config: %v\n", err)
		config.DebugMode = false
	}

	// Silent no-op in production mode.
	if !config.DebugMode {
		return nil
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== adgen logging initialized ===")
	boot.Info("Workspace: %s", workspace)
	boot.Info("Log level: %s", config.Level)
	return nil
}

func loadConfig() error {
	configMu.Lock()
	defer configMu.Unlock()

	configPath := filepath.Join(workspace, ".adgen", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config = production mode (no logging).
			config.DebugMode = false
			return nil
		}
		return err
	}

	var cf configFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return err
	}
	config = cf.Logging

	switch config.Level {
	case "debug":
		logLevel = LevelDebug
	case "warn":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	return nil
}

func categoryEnabled(cat Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	if !config.DebugMode {
		return false
	}
	if len(config.Categories) == 0 {
		return true
	}
	enabled, ok := config.Categories[string(cat)]
	return !ok || enabled
}

// Get returns (creating if needed) the logger for a category.
func Get(cat Category) *Logger {
	loggersMu.RLock()
	if l, ok := loggers[cat]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}

	l := &Logger{category: cat}
	if categoryEnabled(cat) && logsDir != "" {
		path := filepath.Join(logsDir, string(cat)+".log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			l.file = f
			l.logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
		}
	}
	loggers[cat] = l
	return l
}

// Close flushes and closes all category log files.
func Close() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] "+format, args...)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] "+format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] "+format, args...)
}

// Error logs at error level (always written when the file is open).
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] "+format, args...)
}

// =============================================================================
// CONVENIENCE FUNCTIONS - one set per category
// =============================================================================

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootError logs error to the boot category.
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

// Generator logs to the generator category.
func Generator(format string, args ...interface{}) { Get(CategoryGenerator).Info(format, args...) }

// GeneratorDebug logs debug to the generator category.
func GeneratorDebug(format string, args ...interface{}) {
	Get(CategoryGenerator).Debug(format, args...)
}

// GeneratorWarn logs warning to the generator category.
func GeneratorWarn(format string, args ...interface{}) { Get(CategoryGenerator).Warn(format, args...) }

// GeneratorError logs error to the generator category.
func GeneratorError(format string, args ...interface{}) {
	Get(CategoryGenerator).Error(format, args...)
}

// Orchestr logs to the orchestrator category.
func Orchestr(format string, args ...interface{}) { Get(CategoryOrchestr).Info(format, args...) }

// OrchestrDebug logs debug to the orchestrator category.
func OrchestrDebug(format string, args ...interface{}) { Get(CategoryOrchestr).Debug(format, args...) }

// OrchestrError logs error to the orchestrator category.
func OrchestrError(format string, args ...interface{}) { Get(CategoryOrchestr).Error(format, args...) }

// History logs to the history category.
func History(format string, args ...interface{}) { Get(CategoryHistory).Info(format, args...) }

// HistoryDebug logs debug to the history category.
func HistoryDebug(format string, args ...interface{}) { Get(CategoryHistory).Debug(format, args...) }

// HistoryWarn logs warning to the history category.
func HistoryWarn(format string, args ...interface{}) { Get(CategoryHistory).Warn(format, args...) }

// HistoryError logs error to the history category.
func HistoryError(format string, args ...interface{}) { Get(CategoryHistory).Error(format, args...) }

// Export logs to the export category.
func Export(format string, args ...interface{}) { Get(CategoryExport).Info(format, args...) }

// ExportWarn logs warning to the export category.
func ExportWarn(format string, args ...interface{}) { Get(CategoryExport).Warn(format, args...) }

// ExportError logs error to the export category.
func ExportError(format string, args ...interface{}) { Get(CategoryExport).Error(format, args...) }

// Scrape logs to the scrape category.
func Scrape(format string, args ...interface{}) { Get(CategoryScrape).Info(format, args...) }

// ScrapeWarn logs warning to the scrape category.
func ScrapeWarn(format string, args ...interface{}) { Get(CategoryScrape).Warn(format, args...) }

// Live logs to the live category.
func Live(format string, args ...interface{}) { Get(CategoryLive).Info(format, args...) }

// LiveDebug logs debug to the live category.
func LiveDebug(format string, args ...interface{}) { Get(CategoryLive).Debug(format, args...) }

// LiveError logs error to the live category.
func LiveError(format string, args ...interface{}) { Get(CategoryLive).Error(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithInfo ends the timer and logs at info level, with optional
// formatted detail appended.
func (t *Timer) StopWithInfo(format string, args ...interface{}) time.Duration {
	elapsed := time.Since(t.start)
	detail := ""
	if format != "" {
		detail = " " + fmt.Sprintf(format, args...)
	}
	Get(t.category).Info("%s completed in %v%s", t.op, elapsed, detail)
	return elapsed
}
