package domain

import (
	"path/filepath"
	"strings"
)

// ContentType is a host-defined identifier classifying a file's format.
type ContentType string

// Lisp source content types, in uniform type identifier form.
const (
	ContentTypePublicLisp  ContentType = "public.lisp-source"
	ContentTypeLisp        ContentType = "org.lisp.lisp-source"
	ContentTypeCommonLisp  ContentType = "org.lisp.common-lisp-source"
	ContentTypeASDF        ContentType = "org.lisp.asdf-system"
	ContentTypeEmacsLisp   ContentType = "org.gnu.emacs-lisp-source"
	ContentTypeScheme      ContentType = "org.scheme-lang.scheme-source"
	ContentTypeClojure     ContentType = "org.clojure.clojure-source"
	ContentTypeMIMELisp    ContentType = "text/x-lisp"
	ContentTypeMIMECL      ContentType = "text/x-common-lisp"
	ContentTypeMIMEElisp   ContentType = "text/x-emacs-lisp"
	ContentTypeMIMEScheme  ContentType = "text/x-scheme"
	ContentTypeMIMEClojure ContentType = "text/x-clojure"
)

// LispContentTypes returns every content type recognised as Lisp source.
func LispContentTypes() []ContentType {
	return []ContentType{
		ContentTypePublicLisp,
		ContentTypeLisp,
		ContentTypeCommonLisp,
		ContentTypeASDF,
		ContentTypeEmacsLisp,
		ContentTypeScheme,
		ContentTypeClojure,
		ContentTypeMIMELisp,
		ContentTypeMIMECL,
		ContentTypeMIMEElisp,
		ContentTypeMIMEScheme,
		ContentTypeMIMEClojure,
	}
}

// IsLisp returns true if the content type identifies Lisp source.
// Comparison is case-insensitive, matching how hosts report identifiers.
func (c ContentType) IsLisp() bool {
	for _, known := range LispContentTypes() {
		if strings.EqualFold(string(c), string(known)) {
			return true
		}
	}
	return false
}

// String returns the string representation.
func (c ContentType) String() string {
	return string(c)
}

// extensionTypes maps lower-case file extensions to content types.
var extensionTypes = map[string]ContentType{
	".lisp": ContentTypeLisp,
	".lsp":  ContentTypeLisp,
	".l":    ContentTypeLisp,
	".cl":   ContentTypeCommonLisp,
	".asd":  ContentTypeASDF,
	".el":   ContentTypeEmacsLisp,
	".scm":  ContentTypeScheme,
	".ss":   ContentTypeScheme,
	".clj":  ContentTypeClojure,
	".cljs": ContentTypeClojure,
	".cljc": ContentTypeClojure,
}

// ContentTypeForPath guesses the content type of a file from its extension.
// Returns the empty content type for files that are not Lisp source.
func ContentTypeForPath(path string) ContentType {
	return extensionTypes[strings.ToLower(filepath.Ext(path))]
}
