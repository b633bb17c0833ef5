package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the stop-word list formats we can read
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // One word per line
	FormatTOML               // words = [...] array
)

// FormatInfo contains metadata about a stop-word file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MaxSize     int64 // Largest file we are willing to load, in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt", ".lst", ""},
		MaxSize:     16 << 20,
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Word List",
		Extensions:  []string{".toml"},
		MaxSize:     16 << 20,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() > formatInfo.MaxSize {
		return fmt.Errorf("file %s is too large (%d bytes) for format %s (maximum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MaxSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, validExtension := range formatInfo.Extensions {
		if ext == validExtension {
			log.Debugf("File %s validated as %s", filename, formatInfo.Description)
			return nil
		}
	}
	return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
		filename, ext, formatInfo.Description, formatInfo.Extensions)
}

// DetectFileFormat picks the format of a stop-word file from its extension
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == ".toml" {
		if err := ValidateFileFormat(filename, FormatTOML); err != nil {
			return FormatUnknown, err
		}
		return FormatTOML, nil
	}
	if err := ValidateFileFormat(filename, FormatText); err != nil {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s: %w", filename, err)
	}
	return FormatText, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
