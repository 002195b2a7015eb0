package domain

// MIME types understood by the document readers.
const (
	MimeTypeGoogleDoc   = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	MimeTypeFolder      = "application/vnd.google-apps.folder"
	MimeTypePDF         = "application/pdf"
)

// FileType classifies a file by the reader that handles it.
type FileType string

// Supported file types.
const (
	FileTypeDoc     FileType = "gdoc"
	FileTypeSheet   FileType = "gsheet"
	FileTypePDF     FileType = "pdf"
	FileTypeUnknown FileType = ""
)

// FileTypeForMIME maps a MIME type to a FileType.
func FileTypeForMIME(mime string) FileType {
	switch mime {
	case MimeTypeGoogleDoc:
		return FileTypeDoc
	case MimeTypeGoogleSheet:
		return FileTypeSheet
	case MimeTypePDF:
		return FileTypePDF
	default:
		return FileTypeUnknown
	}
}

// FileDescriptor identifies a file in the document store.
// It is owned by the store and only held for the duration of a listing.
type FileDescriptor struct {
	ID       string
	Name     string
	MIMEType string
}

// Type returns the reader type for the file.
func (f FileDescriptor) Type() FileType {
	return FileTypeForMIME(f.MIMEType)
}

// Document is a file together with its reader output.
type Document struct {
	File FileDescriptor

	// Link is the base citation URL for the file.
	Link string

	// Passages is the reader output in document order.
	Passages []Passage

	// Partial is true when the reader recovered from a mid-file failure.
	Partial bool
}
