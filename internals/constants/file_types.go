package constants

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type FileKind int

const (
	FileKindDOC     FileKind = 3
	FileKindPDF     FileKind = 4
	FileKindImage   FileKind = 6
	FileKindUnknown FileKind = 99
)

func DetectFileKindFromExt(filename string) FileKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".doc", ".docx":
		return FileKindDOC
	case ".pdf":
		return FileKindPDF
	case ".png", ".jpg", ".jpeg":
		return FileKindImage
	default:
		return FileKindUnknown
	}
}

// Sniffed content types accepted per kind. Old .doc files sniff as OLE
// storage; .docx sniffs as its OOXML type or, when truncated, plain zip.
var kindMIMEs = map[FileKind][]string{
	FileKindPDF: {"application/pdf"},
	FileKindDOC: {
		"application/msword",
		"application/x-ole-storage",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/zip",
	},
	FileKindImage: {"image/jpeg", "image/png"},
}

// ContentMatchesExt checks that the sniffed type of head agrees with the
// extension of filename. head should hold the first few KiB of the file.
func ContentMatchesExt(filename string, head []byte) (detected string, ok bool) {
	kind := DetectFileKindFromExt(filename)
	allowed := kindMIMEs[kind]
	mt := mimetype.Detect(head)
	detected = mt.String()
	for m := mt; m != nil; m = m.Parent() {
		for _, a := range allowed {
			if m.Is(a) {
				return detected, true
			}
		}
	}
	return detected, false
}

// ContentTypeFor is the Content-Type used when serving a stored file.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
