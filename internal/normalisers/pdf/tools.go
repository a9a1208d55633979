package pdf

import (
	"errors"
	"fmt"
	"os/exec"
)

// External tools used for the OCR fallback.
const (
	rendererTool   = "pdftoppm"
	recognizerTool = "tesseract"
)

// ErrOCRToolNotFound indicates a tool needed for OCR is not installed.
var ErrOCRToolNotFound = errors.New("OCR tools not found: install tesseract and poppler (pdftoppm)")

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// CheckOCRAvailable reports which OCR tools are missing, if any.
func CheckOCRAvailable() error {
	var missing []string
	for _, tool := range []string{rendererTool, recognizerTool} {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w (missing: %v)", ErrOCRToolNotFound, missing)
	}
	return nil
}

// InstallInstructions returns platform-specific installation instructions
// for the OCR tools.
func InstallInstructions() string {
	return `Scanned pages need OCR. Install tesseract and poppler:

  macOS:         brew install tesseract poppler
  Ubuntu/Debian: sudo apt install tesseract-ocr poppler-utils
  Fedora:        sudo dnf install tesseract poppler-utils
  Windows:       choco install tesseract poppler

Then reload the document.`
}
