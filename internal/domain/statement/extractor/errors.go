package extractor

import "fmt"

// PasswordHint is surfaced with every DecryptionError so the UI can tell
// the user what banks usually set as statement passwords.
const PasswordHint = "verify the password: banks usually use your customer ID, date of birth (DDMMYYYY) or account number"

// UnsupportedFormatError is returned when the declared MIME type is not
// one of the supported document kinds. Fatal per file.
type UnsupportedFormatError struct {
	MIMEType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: upload a PDF, CSV, XLSX or image file", e.MIMEType)
}

// DecryptionError is returned for an encrypted PDF with a missing or
// wrong password. Fatal per file, never retried here.
type DecryptionError struct {
	Hint string
	Err  error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not decrypt PDF (%s): %v", e.Hint, e.Err)
	}
	return fmt.Sprintf("could not decrypt PDF: %s", e.Hint)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// ExtractionError is returned when a document's structure cannot be read
// at all (corrupt PDF, unreadable sheet, OCR failure). Fatal per file;
// row-level problems are handled downstream instead.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed at %s: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
