package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validWorkbookBytes() []byte {
	return append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("rest of archive")...)
}

func TestValidateUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		maxBytes int64
		wantErr  string
	}{
		{
			name:     "valid xlsx",
			filename: "complaints.xlsx",
			data:     validWorkbookBytes(),
			maxBytes: 1024,
		},
		{
			name:     "valid xlsm",
			filename: "Complaints.XLSM",
			data:     validWorkbookBytes(),
			maxBytes: 1024,
		},
		{
			name:     "missing filename",
			filename: "",
			data:     validWorkbookBytes(),
			wantErr:  "no filename",
		},
		{
			name:     "wrong extension",
			filename: "complaints.csv",
			data:     validWorkbookBytes(),
			wantErr:  "unsupported extension",
		},
		{
			name:     "empty payload",
			filename: "complaints.xlsx",
			data:     nil,
			wantErr:  "is empty",
		},
		{
			name:     "too large",
			filename: "complaints.xlsx",
			data:     validWorkbookBytes(),
			maxBytes: 4,
			wantErr:  "payload too large",
		},
		{
			name:     "not a zip container",
			filename: "complaints.xlsx",
			data:     []byte("plain text pretending"),
			wantErr:  "not a valid workbook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpload(tt.filename, tt.data, tt.maxBytes)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func testValidator() *FileValidator {
	return NewFileValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestValidateInputDirectory(t *testing.T) {
	v := testValidator()
	dir := t.TempDir()

	require.NoError(t, v.ValidateInputDirectory(dir, ""))
	require.NoError(t, v.ValidateInputDirectory(dir, "*.xlsx"), "no matches is not an error")

	err := v.ValidateInputDirectory(filepath.Join(dir, "missing"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestValidateOutputDirectoryCreates(t *testing.T) {
	v := testValidator()
	dir := filepath.Join(t.TempDir(), "out", "nested")

	require.NoError(t, v.ValidateOutputDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestValidateExcelFile(t *testing.T) {
	v := testValidator()
	dir := t.TempDir()

	good := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(good, validWorkbookBytes(), 0o644))
	assert.NoError(t, v.ValidateExcelFile(good))

	wrongExt := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(wrongExt, []byte("x"), 0o644))
	assert.Error(t, v.ValidateExcelFile(wrongExt))

	lock := filepath.Join(dir, "~$report.xlsx")
	require.NoError(t, os.WriteFile(lock, []byte("x"), 0o644))
	assert.Error(t, v.ValidateExcelFile(lock))
}

func TestCountFiles(t *testing.T) {
	v := testValidator()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xlsx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.xlsx"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.csv"), []byte("x"), 0o644))

	n, err := v.CountFiles(dir, "*.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
