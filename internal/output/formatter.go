package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// Formatter renders a projection in one export format
type Formatter interface {
	Name() string
	Format(result *domain.ProjectionResult) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(result *domain.ProjectionResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(result *domain.ProjectionResult) ([]byte, error) {
	return f.F(result)
}

var formatters = map[string]Formatter{
	"csv":   CSVFormatter{},
	"json":  JSONFormatter{Pretty: true},
	"table": TableFormatter{},
}

var formatAliases = map[string]string{
	"console": "table",
	"text":    "table",
}

// AvailableFormatterNames lists the registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists alternative names accepted by GetFormatterByName
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// GetFormatterByName returns the formatter for name or an alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// WriteFormatted renders result with f and writes it to dir as
// sip_projection_<mode>.<ext>, returning the path written
func WriteFormatted(f Formatter, result *domain.ProjectionResult, dir, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	mode := result.Mode
	if mode == "" {
		mode = domain.ModeForward
	}
	filename := filepath.Join(dir, fmt.Sprintf("sip_projection_%s.%s", mode, ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// Extension returns the file extension used for a formatter's output
func Extension(f Formatter) string {
	switch f.Name() {
	case "json":
		return "json"
	case "csv":
		return "csv"
	default:
		return "txt"
	}
}
