package cli

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(new(bytes.Buffer)))
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()

	assert.False(t, isTerminal(f))
}

func TestStyles_RenderPlainWhenDisabled(t *testing.T) {
	st := newStyles(new(bytes.Buffer))

	assert.False(t, st.enabled)
	assert.Equal(t, "text", st.render(st.title, "text"))
}

func TestPrintAttributes(t *testing.T) {
	buf := new(bytes.Buffer)

	printAttributes(buf, newStyles(buf), domain.Attributes{
		domain.KeyURL:    "https://example.org",
		domain.KeyAuthor: "Jane Doe",
	})

	assert.Equal(t,
		"  author:     Jane Doe\n"+
			"  url:        https://example.org\n",
		buf.String())
}

func TestPrintAttributes_Empty(t *testing.T) {
	buf := new(bytes.Buffer)

	printAttributes(buf, newStyles(buf), nil)

	assert.Equal(t, "  (no attributes)\n", buf.String())
}

func TestNewRecordView(t *testing.T) {
	now := time.Now()
	v := newRecordView(&domain.Record{
		ID:          "id",
		Path:        "/a.lisp",
		ContentType: domain.ContentTypeLisp,
		Attributes:  domain.Attributes{domain.KeyTitle: "A"},
		ImportedAt:  now,
	})

	assert.Equal(t, map[string]string{"title": "A"}, v.Attributes)
	assert.Nil(t, v.ModTime)
	if assert.NotNil(t, v.ImportedAt) {
		assert.True(t, now.Equal(*v.ImportedAt))
	}
}
