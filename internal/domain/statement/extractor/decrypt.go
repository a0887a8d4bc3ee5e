package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Decryptor removes password protection from PDF byte streams. It is a
// pure transform: unencrypted input passes through unchanged and no
// decryption state survives the call.
type Decryptor struct {
	qpdfPath string
}

// NewDecryptor creates a Decryptor. An empty path means "qpdf" on PATH.
func NewDecryptor(qpdfPath string) *Decryptor {
	if qpdfPath == "" {
		qpdfPath = "qpdf"
	}
	return &Decryptor{qpdfPath: qpdfPath}
}

// Decrypt returns a plain byte stream for data. If the PDF is encrypted
// and password (whitespace-trimmed) is missing or wrong, it fails with
// *DecryptionError carrying PasswordHint.
func (d *Decryptor) Decrypt(ctx context.Context, data []byte, password string) ([]byte, error) {
	password = strings.TrimSpace(password)

	if !isEncryptedPDF(data) {
		return data, nil
	}
	if password == "" {
		return nil, &DecryptionError{Hint: PasswordHint}
	}

	tmpDir, err := os.MkdirTemp("", "stmt-decrypt-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "in.pdf")
	outPath := filepath.Join(tmpDir, "out.pdf")
	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write temp pdf: %w", err)
	}

	cmd := exec.CommandContext(ctx, d.qpdfPath, "--password="+password, "--decrypt", inPath, outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, &DecryptionError{
			Hint: PasswordHint,
			Err:  fmt.Errorf("qpdf: %w: %s", err, strings.TrimSpace(string(out))),
		}
	}

	plain, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read decrypted pdf: %w", err)
	}
	return plain, nil
}

// isEncryptedPDF reports whether the stream carries an encryption
// dictionary. A readable file is never treated as encrypted even if the
// trailer mentions /Encrypt (qpdf leaves such markers behind sometimes).
func isEncryptedPDF(data []byte) bool {
	if _, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		return false
	}
	return bytes.Contains(data, []byte("/Encrypt"))
}
