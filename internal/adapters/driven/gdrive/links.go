package gdrive

import "github.com/custodia-labs/conahgpt/internal/core/domain"

// Link returns the citation URL for a file.
// PDFs open in the preview viewer so a #page=N fragment can be appended.
func Link(f domain.FileDescriptor) string {
	switch f.Type() {
	case domain.FileTypeDoc:
		return "https://docs.google.com/document/d/" + f.ID + "/edit"
	case domain.FileTypeSheet:
		return "https://docs.google.com/spreadsheets/d/" + f.ID + "/edit"
	case domain.FileTypePDF:
		return "https://drive.google.com/file/d/" + f.ID + "/preview"
	default:
		return ""
	}
}
