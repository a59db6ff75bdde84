package caravel

import (
	"fmt"
	"strings"
	"sync"
)

// DisplayConfig controls how a Series is formatted when printed.
type DisplayConfig struct {
	// MaxRows is the maximum number of rows to display.
	// If the Series is longer, head and tail rows are shown with "…" between.
	// Default: 10 (5 head + 5 tail)
	MaxRows int

	// MaxColWidth is the maximum width for value content.
	// Values longer than this are truncated with "...".
	// Default: 25
	MaxColWidth int

	// MinColWidth is the minimum value column width for alignment.
	// Default: 8
	MinColWidth int

	// FloatPrecision is the number of decimal places for float values.
	// Default: 4
	FloatPrecision int

	// TableStyle controls the table border style.
	// Options: "rounded", "sharp", "ascii", "minimal"
	// Default: "rounded"
	TableStyle string
}

// Table style characters
type tableChars struct {
	topLeft, topRight, bottomLeft, bottomRight string
	horizontal, vertical                       string
	topT, bottomT                              string
}

var tableStyles = map[string]tableChars{
	"rounded": {
		topLeft: "╭", topRight: "╮", bottomLeft: "╰", bottomRight: "╯",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴",
	},
	"sharp": {
		topLeft: "┌", topRight: "┐", bottomLeft: "└", bottomRight: "┘",
		horizontal: "─", vertical: "│",
		topT: "┬", bottomT: "┴",
	},
	"ascii": {
		topLeft: "+", topRight: "+", bottomLeft: "+", bottomRight: "+",
		horizontal: "-", vertical: "|",
		topT: "+", bottomT: "+",
	},
	"minimal": {
		topLeft: " ", topRight: " ", bottomLeft: " ", bottomRight: " ",
		horizontal: "─", vertical: " ",
		topT: " ", bottomT: " ",
	},
}

// DefaultDisplayConfig returns the default display configuration.
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		MaxRows:        10,
		MaxColWidth:    25,
		MinColWidth:    8,
		FloatPrecision: 4,
		TableStyle:     "rounded",
	}
}

// Global display configuration with mutex for thread safety
var (
	globalDisplayConfig = DefaultDisplayConfig()
	displayConfigMu     sync.RWMutex
)

// SetDisplayConfig sets the global display configuration.
func SetDisplayConfig(cfg DisplayConfig) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig = cfg
}

// GetDisplayConfig returns the current global display configuration.
func GetDisplayConfig() DisplayConfig {
	displayConfigMu.RLock()
	defer displayConfigMu.RUnlock()
	return globalDisplayConfig
}

// SetMaxDisplayRows sets the maximum number of rows to display.
func SetMaxDisplayRows(n int) {
	displayConfigMu.Lock()
	defer displayConfigMu.Unlock()
	globalDisplayConfig.MaxRows = n
}

// formatDisplayValue formats a value for display with the given configuration.
func formatDisplayValue(val any, cfg DisplayConfig) string {
	var s string
	switch v := val.(type) {
	case nil:
		s = "null"
	case float64:
		format := fmt.Sprintf("%%.%df", cfg.FloatPrecision)
		s = fmt.Sprintf(format, v)
	case float32:
		format := fmt.Sprintf("%%.%df", cfg.FloatPrecision)
		s = fmt.Sprintf(format, v)
	case string:
		s = v
	case bool:
		if v {
			s = "true"
		} else {
			s = "false"
		}
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = formatDisplayValue(e, cfg)
		}
		s = "[" + strings.Join(parts, ", ") + "]"
	default:
		s = fmt.Sprintf("%v", v)
	}

	if len(s) > cfg.MaxColWidth {
		s = s[:cfg.MaxColWidth-3] + "..."
	}
	return s
}

// String formats the Series using the global display configuration.
func (s *Series) String() string {
	return SeriesStringWithConfig(s, GetDisplayConfig())
}

// SeriesStringWithConfig formats the Series using the provided configuration.
func SeriesStringWithConfig(s *Series, cfg DisplayConfig) string {
	if s.Len() == 0 {
		return fmt.Sprintf("Series: '%s' (%s)\nlength: 0\n[]", s.Name(), s.DType())
	}

	chars, ok := tableStyles[cfg.TableStyle]
	if !ok {
		chars = tableStyles["rounded"]
	}

	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("Series: '%s' (%s)\n", s.Name(), s.DType()))
	sb.WriteString(fmt.Sprintf("length: %d\n", s.Len()))

	// Determine which rows to show
	showAllRows := s.Len() <= cfg.MaxRows
	var rowIndices []int
	if showAllRows {
		rowIndices = make([]int, s.Len())
		for i := range rowIndices {
			rowIndices[i] = i
		}
	} else {
		headRows := cfg.MaxRows / 2
		tailRows := cfg.MaxRows - headRows
		rowIndices = make([]int, 0, cfg.MaxRows+1)
		for i := 0; i < headRows; i++ {
			rowIndices = append(rowIndices, i)
		}
		rowIndices = append(rowIndices, -1) // marker for "…"
		for i := s.Len() - tailRows; i < s.Len(); i++ {
			rowIndices = append(rowIndices, i)
		}
	}

	// Calculate column widths
	indexWidth := len(fmt.Sprintf("%d", s.Len()-1))
	if indexWidth < 3 {
		indexWidth = 3
	}

	valueWidth := cfg.MinColWidth
	for _, idx := range rowIndices {
		if idx >= 0 {
			v, _ := s.Get(idx)
			valStr := formatDisplayValue(v, cfg)
			if len(valStr) > valueWidth {
				valueWidth = len(valStr)
			}
		}
	}
	if valueWidth > cfg.MaxColWidth {
		valueWidth = cfg.MaxColWidth
	}

	// Top border
	sb.WriteString(chars.topLeft)
	sb.WriteString(strings.Repeat(chars.horizontal, indexWidth+2))
	sb.WriteString(chars.topT)
	sb.WriteString(strings.Repeat(chars.horizontal, valueWidth+2))
	sb.WriteString(chars.topRight)
	sb.WriteString("\n")

	// Data rows
	for _, idx := range rowIndices {
		sb.WriteString(chars.vertical)
		if idx == -1 {
			sb.WriteString(fmt.Sprintf(" %*s ", indexWidth, "…"))
			sb.WriteString(chars.vertical)
			sb.WriteString(fmt.Sprintf(" %*s ", valueWidth, "…"))
		} else {
			sb.WriteString(fmt.Sprintf(" %*d ", indexWidth, idx))
			sb.WriteString(chars.vertical)
			v, _ := s.Get(idx)
			valStr := formatDisplayValue(v, cfg)
			if len(valStr) > valueWidth {
				valStr = valStr[:valueWidth-3] + "..."
			}
			sb.WriteString(fmt.Sprintf(" %*s ", valueWidth, valStr))
		}
		sb.WriteString(chars.vertical)
		sb.WriteString("\n")
	}

	// Bottom border
	sb.WriteString(chars.bottomLeft)
	sb.WriteString(strings.Repeat(chars.horizontal, indexWidth+2))
	sb.WriteString(chars.bottomT)
	sb.WriteString(strings.Repeat(chars.horizontal, valueWidth+2))
	sb.WriteString(chars.bottomRight)

	return sb.String()
}
