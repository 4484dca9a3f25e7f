package extraction

import (
	"errors"
	"fmt"
)

// ImportErrorCode represents specific import error types.
type ImportErrorCode string

const (
	ErrFileParse         ImportErrorCode = "FILE_PARSE_ERROR"
	ErrEmptyFile         ImportErrorCode = "EMPTY_FILE"
	ErrUnsupportedFormat ImportErrorCode = "UNSUPPORTED_FILE_FORMAT"
	ErrFileSize          ImportErrorCode = "FILE_SIZE_ERROR"
	ErrValidation        ImportErrorCode = "VALIDATION_ERROR"
	ErrExport            ImportErrorCode = "EXPORT_ERROR"
)

// ImportError is a structured error for file-level import and export failures.
// Item-level problems never surface as an ImportError; they are skipped.
type ImportError struct {
	Code     ImportErrorCode
	Message  string
	FileName string
	Details  map[string]any
	Cause    error
}

func (e *ImportError) Error() string {
	prefix := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.FileName != "" {
		prefix = fmt.Sprintf("%s (%s)", prefix, e.FileName)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Cause)
	}
	return prefix
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

// UserMessage is the message shown to the person importing the file.
func (e *ImportError) UserMessage() string {
	switch e.Code {
	case ErrFileParse:
		return "No se pudo leer el archivo. Verifica que sea un archivo válido de MercadoPago."
	case ErrValidation:
		return "Los datos del archivo no son válidos. Verifica el formato."
	case ErrUnsupportedFormat:
		return "Formato de archivo no soportado. Usa archivos CSV, JSON o ZIP."
	case ErrEmptyFile:
		return "El archivo está vacío. Selecciona un archivo con datos."
	case ErrFileSize:
		return fmt.Sprintf("El archivo es muy grande. El tamaño máximo es %dMB.", maxSizeMB(e.Details))
	case ErrExport:
		return "No se pudo exportar los datos. Intenta nuevamente."
	default:
		return e.Message
	}
}

func maxSizeMB(details map[string]any) int64 {
	if v, ok := details["maxSize"].(int64); ok && v > 0 {
		return v / (1 << 20)
	}
	return DefaultMaxFileSize / (1 << 20)
}

func NewFileParseError(fileName, message string, cause error) *ImportError {
	return &ImportError{Code: ErrFileParse, Message: message, FileName: fileName, Cause: cause}
}

func NewEmptyFileError(fileName string) *ImportError {
	return &ImportError{Code: ErrEmptyFile, Message: "file is empty", FileName: fileName}
}

func NewUnsupportedFormatError(fileName, ext string) *ImportError {
	return &ImportError{
		Code:     ErrUnsupportedFormat,
		Message:  fmt.Sprintf("unsupported file format %q", ext),
		FileName: fileName,
		Details:  map[string]any{"fileExtension": ext},
	}
}

func NewFileSizeError(fileName string, size, maxSize int64) *ImportError {
	return &ImportError{
		Code:     ErrFileSize,
		Message:  fmt.Sprintf("file too large: %d bytes, max %d bytes", size, maxSize),
		FileName: fileName,
		Details:  map[string]any{"fileSize": size, "maxSize": maxSize},
	}
}

func NewValidationError(fileName, message string) *ImportError {
	return &ImportError{Code: ErrValidation, Message: message, FileName: fileName}
}

func NewExportError(format, message string) *ImportError {
	return &ImportError{Code: ErrExport, Message: message, Details: map[string]any{"format": format}}
}

// CodeOf returns the ImportErrorCode carried anywhere in err's chain, or "".
func CodeOf(err error) ImportErrorCode {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ImportErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// UserMessage returns a friendly message for any error.
func UserMessage(err error) string {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.UserMessage()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
