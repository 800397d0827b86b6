package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "portocli/internal/errors"
)

// CheckStatementFile verifies that path points at a readable statement of
// the expected format before any parsing starts: it must exist, be a
// regular non-empty file with the right extension, and not be an Office
// lock file ("~$...") left behind by an open workbook.
func CheckStatementFile(path string, format Format) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return apperrors.NewParsingError("statement is an Office lock file, is the workbook still open?", nil).
			WithContext("file", base)
	}

	ext := strings.ToLower(filepath.Ext(base))
	want := "." + string(format)
	if format == FormatCSV {
		if ext != ".csv" && ext != ".txt" {
			return apperrors.NewParsingError(
				fmt.Sprintf("unexpected file extension %q, want %s", ext, want), nil).
				WithContext("file", base)
		}
	} else if ext != want {
		return apperrors.NewParsingError(
			fmt.Sprintf("unexpected file extension %q, want %s", ext, want), nil).
			WithContext("file", base)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.NewNotFoundError(fmt.Sprintf("statement file %s", base))
		}
		return apperrors.NewParsingError("failed to stat statement file", err).
			WithContext("file", base)
	}
	if info.IsDir() {
		return apperrors.NewParsingError("statement path is a directory", nil).
			WithContext("file", base)
	}
	if info.Size() == 0 {
		return apperrors.NewParsingError("statement file is empty", nil).
			WithContext("file", base)
	}

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewParsingError("statement file is not readable", err).
			WithContext("file", base)
	}
	return f.Close()
}
