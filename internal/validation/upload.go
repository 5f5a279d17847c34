package validation

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// xlsx files are ZIP containers and start with the PK signature.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

var allowedUploadExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// ValidateUpload checks an uploaded workbook before it reaches the
// parser: extension, size bound, and the ZIP container signature.
func ValidateUpload(filename string, data []byte, maxBytes int64) error {
	if filename == "" {
		return fmt.Errorf("upload has no filename")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExtensions[ext] {
		return fmt.Errorf("file %s has unsupported extension %q", filename, ext)
	}

	if len(data) == 0 {
		return fmt.Errorf("file %s is empty", filename)
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return fmt.Errorf("file %s payload too large: %d bytes exceeds limit of %d", filename, len(data), maxBytes)
	}

	if len(data) < len(zipMagic) || !bytes.Equal(data[:len(zipMagic)], zipMagic) {
		return fmt.Errorf("file %s is not a valid workbook", filename)
	}

	return nil
}
