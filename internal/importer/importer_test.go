package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/fieldmatch"
)

const sampleHeader = `;;; -*- Mode: Lisp; Package: CL-USER -*-
;;;
;;; Title: Lisp Metadata Importer
;;; Author: John Wiseman
;;; Keywords: spotlight, metadata
;;; Description: Extracts header fields.
;;;

(in-package :cl-user)

(defun title () "Title: not a header")
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	imp := New()

	require.NotNil(t, imp)
	assert.Same(t, fieldmatch.DefaultTable(), imp.table)
	assert.Equal(t, domain.DefaultMaxFileSize, imp.maxSize)
	assert.Equal(t, domain.ScanAll, imp.scanMode)
	assert.False(t, imp.firstMatch)
	assert.Empty(t, imp.fallback)
}

func TestFromSettings(t *testing.T) {
	s := domain.ImportSettings{
		MaxFileSize:     42,
		ScanMode:        domain.ScanHeader,
		FirstMatchWins:  true,
		FallbackCharset: "iso-8859-1",
	}

	imp := New(FromSettings(s)...)

	assert.Equal(t, int64(42), imp.maxSize)
	assert.Equal(t, domain.ScanHeader, imp.scanMode)
	assert.True(t, imp.firstMatch)
	assert.Equal(t, "iso-8859-1", imp.fallback)
}

func TestSupportedContentTypes(t *testing.T) {
	assert.Equal(t, domain.LispContentTypes(), New().SupportedContentTypes())
}

func TestImport_AuthorOnFirstLine(t *testing.T) {
	path := writeFile(t, "a.lisp", "Author: Jane Doe\n(defun f () 1)\n")

	for _, ct := range domain.LispContentTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			attrs := domain.Attributes{}
			err := New().Import(context.Background(), path, ct, attrs)

			require.NoError(t, err)
			assert.Equal(t, domain.Attributes{domain.KeyAuthor: "Jane Doe"}, attrs)
		})
	}
}

func TestImport_UnsupportedContentType(t *testing.T) {
	t.Run("leaves empty map empty", func(t *testing.T) {
		path := writeFile(t, "a.lisp", "Author: Jane Doe\n")
		attrs := domain.Attributes{}

		err := New().Import(context.Background(), path, "public.plain-text", attrs)

		assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
		assert.Empty(t, attrs)
	})

	t.Run("leaves existing entries untouched", func(t *testing.T) {
		path := writeFile(t, "a.lisp", "Author: Jane Doe\n")
		attrs := domain.Attributes{domain.KeyAuthor: "existing"}

		err := New().Import(context.Background(), path, "", attrs)

		assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
		assert.Equal(t, domain.Attributes{domain.KeyAuthor: "existing"}, attrs)
	})

	t.Run("does not read the file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.lisp")

		err := New().Import(context.Background(), missing, "public.c-source", domain.Attributes{})

		assert.ErrorIs(t, err, domain.ErrUnsupportedContentType)
		assert.NotErrorIs(t, err, domain.ErrFileNotFound)
	})
}

func TestImport_FileTooLarge(t *testing.T) {
	path := writeFile(t, "big.lisp", "Author: Jane Doe\n"+strings.Repeat(";", 200))
	imp := New(WithMaxFileSize(64))

	t.Run("lisp content type", func(t *testing.T) {
		attrs := domain.Attributes{}
		err := imp.Import(context.Background(), path, domain.ContentTypeLisp, attrs)

		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
		assert.Empty(t, attrs)

		var ie *domain.ImportError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, domain.ContentTypeLisp, ie.ContentType)
	})

	t.Run("any content type fails", func(t *testing.T) {
		for _, ct := range []domain.ContentType{domain.ContentTypeEmacsLisp, "public.plain-text"} {
			assert.False(t, imp.ImportFile(path, ct.String(), domain.Attributes{}))
		}
	})
}

func TestImport_EmptyValue(t *testing.T) {
	path := writeFile(t, "a.lisp", ";;; Title:\n;;; Author: Jane Doe\n")
	attrs := domain.Attributes{}

	require.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, attrs))

	value, ok := attrs[domain.KeyTitle]
	assert.True(t, ok)
	assert.Equal(t, "", value)
	assert.Equal(t, "Jane Doe", attrs[domain.KeyAuthor])
}

func TestImport_LastMatchWins(t *testing.T) {
	path := writeFile(t, "a.lisp", ";;; Author: Jane Doe\n;;; Author: John Roe\n")
	attrs := domain.Attributes{}

	require.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, attrs))

	assert.Equal(t, "John Roe", attrs[domain.KeyAuthor])
}

func TestImport_FirstMatchWins(t *testing.T) {
	path := writeFile(t, "a.lisp", ";;; Author: Jane Doe\n;;; Author: John Roe\n;;; Title: T\n")
	attrs := domain.Attributes{domain.KeyAuthor: "caller value"}

	err := New(WithFirstMatchWins(true)).Import(context.Background(), path, domain.ContentTypeLisp, attrs)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", attrs[domain.KeyAuthor])
	assert.Equal(t, "T", attrs[domain.KeyTitle])
}

func TestImport_Idempotent(t *testing.T) {
	path := writeFile(t, "a.lisp", sampleHeader)
	imp := New()

	first := domain.Attributes{}
	second := domain.Attributes{}
	require.NoError(t, imp.Import(context.Background(), path, domain.ContentTypeLisp, first))
	require.NoError(t, imp.Import(context.Background(), path, domain.ContentTypeLisp, second))

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestImport_NoMatches(t *testing.T) {
	path := writeFile(t, "a.lisp", "(defun f (x) (* x x))\n")

	t.Run("empty map stays empty", func(t *testing.T) {
		attrs := domain.Attributes{}
		assert.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, attrs))
		assert.Empty(t, attrs)
	})

	t.Run("existing map unchanged", func(t *testing.T) {
		attrs := domain.Attributes{domain.KeyVersion: "1.0"}
		assert.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, attrs))
		assert.Equal(t, domain.Attributes{domain.KeyVersion: "1.0"}, attrs)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := writeFile(t, "empty.lisp", "")
		attrs := domain.Attributes{}
		assert.NoError(t, New().Import(context.Background(), empty, domain.ContentTypeLisp, attrs))
		assert.Empty(t, attrs)
	})
}

func TestImport_ScanAllReadsWholeFile(t *testing.T) {
	path := writeFile(t, "a.lisp", sampleHeader)
	attrs := domain.Attributes{}

	require.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, attrs))

	assert.Equal(t, "John Wiseman", attrs[domain.KeyAuthor])
	assert.Equal(t, "spotlight, metadata", attrs[domain.KeyKeywords])
	assert.Equal(t, "Extracts header fields.", attrs[domain.KeyAbstract])
	// The code line does not start with the label, so the header title stands.
	assert.Equal(t, "Lisp Metadata Importer", attrs[domain.KeyTitle])
}

func TestImport_ScanAllMatchesAfterCode(t *testing.T) {
	path := writeFile(t, "a.lisp", ";;; Title: Header\n(defun f () nil)\n;;; Title: Footer\n")

	all := domain.Attributes{}
	require.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, all))
	assert.Equal(t, "Footer", all[domain.KeyTitle])

	header := domain.Attributes{}
	require.NoError(t, New(WithScanMode(domain.ScanHeader)).Import(context.Background(), path, domain.ContentTypeLisp, header))
	assert.Equal(t, "Header", header[domain.KeyTitle])
}

func TestImport_HeaderModeBlockComment(t *testing.T) {
	content := "#!/usr/bin/env sbcl --script\n#|\nAuthor: Jane Doe\n|#\n\n;; Version: 2\n(print 1)\n;; License: MIT\n"
	path := writeFile(t, "a.lisp", content)
	attrs := domain.Attributes{}

	err := New(WithScanMode(domain.ScanHeader)).Import(context.Background(), path, domain.ContentTypeLisp, attrs)

	require.NoError(t, err)
	assert.Equal(t, domain.Attributes{domain.KeyAuthor: "Jane Doe", domain.KeyVersion: "2"}, attrs)
}

func TestImport_LineTerminators(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"lf", ";;; Author: Jane Doe\n;;; Title: T\n"},
		{"crlf", ";;; Author: Jane Doe\r\n;;; Title: T\r\n"},
		{"cr", ";;; Author: Jane Doe\r;;; Title: T\r"},
		{"no trailing newline", ";;; Author: Jane Doe\n;;; Title: T"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "a.lisp", tt.content)
			attrs := domain.Attributes{}

			require.NoError(t, New().Import(context.Background(), path, domain.ContentTypeLisp, attrs))

			assert.Equal(t, domain.Attributes{domain.KeyAuthor: "Jane Doe", domain.KeyTitle: "T"}, attrs)
		})
	}
}

func TestImport_ReadFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		attrs := domain.Attributes{}
		err := New().Import(context.Background(), filepath.Join(t.TempDir(), "nope.lisp"), domain.ContentTypeLisp, attrs)

		assert.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.Empty(t, attrs)
	})

	t.Run("invalid utf-8 without fallback", func(t *testing.T) {
		path := writeFile(t, "a.lisp", "Author: Ren\xe9\n")
		err := New().Import(context.Background(), path, domain.ContentTypeLisp, domain.Attributes{})

		assert.ErrorIs(t, err, domain.ErrDecoding)
	})

	t.Run("invalid utf-8 with fallback", func(t *testing.T) {
		path := writeFile(t, "a.lisp", "Author: Ren\xe9\n")
		attrs := domain.Attributes{}
		err := New(WithFallbackCharset("iso-8859-1")).Import(context.Background(), path, domain.ContentTypeLisp, attrs)

		require.NoError(t, err)
		assert.Equal(t, "René", attrs[domain.KeyAuthor])
	})
}

func TestImport_NilAttributes(t *testing.T) {
	path := writeFile(t, "a.lisp", "Author: Jane Doe\n")

	err := New().Import(context.Background(), path, domain.ContentTypeLisp, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImport_CancelledContext(t *testing.T) {
	path := writeFile(t, "a.lisp", sampleHeader)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Import(ctx, path, domain.ContentTypeLisp, domain.Attributes{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestImportFile(t *testing.T) {
	path := writeFile(t, "a.lisp", "Author: Jane Doe\n")

	attrs := domain.Attributes{}
	assert.True(t, New().ImportFile(path, "org.lisp.lisp-source", attrs))
	assert.Equal(t, "Jane Doe", attrs[domain.KeyAuthor])

	assert.False(t, New().ImportFile(path, "public.plain-text", domain.Attributes{}))
	assert.False(t, New().ImportFile(path+".missing", "org.lisp.lisp-source", domain.Attributes{}))
}

func TestScan(t *testing.T) {
	attrs := domain.Attributes{}

	err := New().Scan(context.Background(), "buffer", ";;; Keywords: a, b\n", attrs)

	require.NoError(t, err)
	assert.Equal(t, domain.Attributes{domain.KeyKeywords: "a, b"}, attrs)
	assert.ErrorIs(t, New().Scan(context.Background(), "buffer", "", nil), domain.ErrInvalidInput)
}

func TestWithTable(t *testing.T) {
	table := fieldmatch.NewTable(fieldmatch.MustCompile(domain.KeyTitle, "Name", false))
	path := writeFile(t, "a.lisp", ";;; Name: custom\n;;; Author: Jane Doe\n")
	attrs := domain.Attributes{}

	require.NoError(t, New(WithTable(table)).Import(context.Background(), path, domain.ContentTypeLisp, attrs))

	assert.Equal(t, domain.Attributes{domain.KeyTitle: "custom"}, attrs)
}

func TestWithTable_NilKeepsDefault(t *testing.T) {
	path := writeFile(t, "a.lisp", ";;; Author: Jane Doe\n")
	attrs := domain.Attributes{}

	require.NotPanics(t, func() {
		require.NoError(t, New(WithTable(nil)).Import(context.Background(), path, domain.ContentTypeLisp, attrs))
	})

	assert.Equal(t, domain.Attributes{domain.KeyAuthor: "Jane Doe"}, attrs)
}

func TestWithTable_GroupedLabel(t *testing.T) {
	table := fieldmatch.NewTable(fieldmatch.MustCompile(domain.KeyAuthor, "(Author|Writer)", true))
	path := writeFile(t, "a.lisp", ";; Writer: Jane Doe\n")
	attrs := domain.Attributes{}

	require.NoError(t, New(WithTable(table)).Import(context.Background(), path, domain.ContentTypeLisp, attrs))

	assert.Equal(t, domain.Attributes{domain.KeyAuthor: "Jane Doe"}, attrs)
}

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line    string
		inBlock bool
		header  bool
		after   bool
	}{
		{"", false, true, false},
		{"   ", false, true, false},
		{";;; comment", false, true, false},
		{"  ; indented", false, true, false},
		{"#!/usr/bin/sbcl", false, true, false},
		{"#| open", false, true, true},
		{"#| one line |#", false, true, false},
		{"inside block", true, true, true},
		{"close |#", true, true, false},
		{"(defun f ())", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			inBlock := tt.inBlock
			assert.Equal(t, tt.header, isHeaderLine(tt.line, &inBlock))
			assert.Equal(t, tt.after, inBlock)
		})
	}
}
