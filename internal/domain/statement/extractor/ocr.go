package extractor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// extractImageText runs Tesseract over a raster image and returns the
// recognized text with the same line-per-newline contract as the PDF
// path. No confidence gate is applied here: the narrative parser owns
// robustness against noisy OCR output.
func (s *Service) extractImageText(ctx context.Context, data []byte, mime string) (string, error) {
	if _, err := exec.LookPath(s.tesseract); err != nil {
		return "", &ExtractionError{Stage: "ocr", Err: fmt.Errorf("tesseract not available: %w", err)}
	}

	tmpDir, err := os.MkdirTemp("", "stmt-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	imgPath := filepath.Join(tmpDir, "receipt"+imageExt(mime))
	if err := os.WriteFile(imgPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}

	// PSM 4 assumes a single column of variably sized text, which fits
	// wallet screenshots and photographed receipts.
	cmd := exec.CommandContext(ctx, s.tesseract, imgPath, "stdout", "-l", "eng", "--psm", "4")
	out, err := cmd.Output()
	if err != nil {
		return "", &ExtractionError{Stage: "ocr", Err: fmt.Errorf("tesseract: %w", err)}
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", &ExtractionError{Stage: "ocr", Err: fmt.Errorf("no text recognized in image")}
	}
	return text, nil
}

func imageExt(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/tiff":
		return ".tif"
	default:
		return ".jpg"
	}
}
