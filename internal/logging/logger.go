// Package logging provides config-driven categorized file-based logging
// for CareGuide. Logs are written to <workspace>/.careguide/logs/ with a
// separate file per category. When debug mode is off (the default), no
// files are created and every call is a no-op, so library code may log
// unconditionally.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Category represents a log category/system.
type Category string

const (
	CategoryPipeline   Category = "pipeline"   // Orchestrator stage transitions
	CategoryRedaction  Category = "redaction"  // De-identification pass
	CategoryReasoning  Category = "reasoning"  // LLM API calls
	CategoryAssessment Category = "assessment" // Draft/validate loop
	CategoryScoring    Category = "scoring"    // Engagement score computation
	CategoryGuidelines Category = "guidelines" // Guideline load and filtering
	CategoryStore      Category = "store"      // Report persistence
	CategoryIntake     Category = "intake"     // Record ingestion and watching
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Logger wraps a standard logger writing to one category file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	mu          sync.Mutex
	loggers     = make(map[Category]*Logger)
	logsDir     string
	enabled     bool
	minLevel    = LevelInfo
	initialized bool
)

// Initialize sets up the logging directory. debug=false leaves logging
// fully disabled. Safe to call once at startup; callers that never
// initialize get no-op logging.
func Initialize(workspace string, debug bool, level string) error {
	mu.Lock()
	defer mu.Unlock()

	if !debug {
		enabled = false
		initialized = true
		return nil
	}

	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	logsDir = filepath.Join(workspace, ".careguide", "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	enabled = true
	initialized = true
	minLevel = parseLevel(level)
	return nil
}

// Shutdown closes all open log files.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
	enabled = false
	initialized = false
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelTag(level int) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// get returns (lazily creating) the logger for a category. Returns nil
// when logging is disabled.
func get(cat Category) *Logger {
	mu.Lock()
	defer mu.Unlock()

	if !enabled {
		return nil
	}
	if l, ok := loggers[cat]; ok {
		return l
	}

	path := filepath.Join(logsDir, string(cat)+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil
	}
	l := &Logger{
		category: cat,
		logger:   log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		file:     f,
	}
	loggers[cat] = l
	return l
}

func write(cat Category, level int, format string, args ...interface{}) {
	if level < minLevel {
		return
	}
	l := get(cat)
	if l == nil {
		return
	}
	l.logger.Printf("[%s] %s", levelTag(level), fmt.Sprintf(format, args...))
}

// Convenience helpers per category, mirroring the call sites across the
// pipeline. Error variants always carry the ERROR tag.

func Pipeline(format string, args ...interface{})      { write(CategoryPipeline, LevelInfo, format, args...) }
func PipelineDebug(format string, args ...interface{}) { write(CategoryPipeline, LevelDebug, format, args...) }
func PipelineError(format string, args ...interface{}) { write(CategoryPipeline, LevelError, format, args...) }

func Redaction(format string, args ...interface{}) { write(CategoryRedaction, LevelInfo, format, args...) }

func Reasoning(format string, args ...interface{})      { write(CategoryReasoning, LevelInfo, format, args...) }
func ReasoningDebug(format string, args ...interface{}) { write(CategoryReasoning, LevelDebug, format, args...) }
func ReasoningWarn(format string, args ...interface{})  { write(CategoryReasoning, LevelWarn, format, args...) }
func ReasoningError(format string, args ...interface{}) { write(CategoryReasoning, LevelError, format, args...) }

func Assessment(format string, args ...interface{})      { write(CategoryAssessment, LevelInfo, format, args...) }
func AssessmentWarn(format string, args ...interface{})  { write(CategoryAssessment, LevelWarn, format, args...) }
func AssessmentError(format string, args ...interface{}) { write(CategoryAssessment, LevelError, format, args...) }

func Scoring(format string, args ...interface{}) { write(CategoryScoring, LevelInfo, format, args...) }

func Guidelines(format string, args ...interface{}) { write(CategoryGuidelines, LevelInfo, format, args...) }

func Store(format string, args ...interface{})      { write(CategoryStore, LevelInfo, format, args...) }
func StoreError(format string, args ...interface{}) { write(CategoryStore, LevelError, format, args...) }

func Intake(format string, args ...interface{})      { write(CategoryIntake, LevelInfo, format, args...) }
func IntakeError(format string, args ...interface{}) { write(CategoryIntake, LevelError, format, args...) }
