package state

import (
	"testing"

	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/pkg/extraction"
	"pdf-extractor/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newManager() *Manager {
	return NewManager(logger.NewNopLogger())
}

func pdf(name string) extraction.Document {
	return extraction.Document{Filename: name, MIMEType: extraction.MIMETypePDF, Content: []byte("%PDF")}
}

func TestSelectFile_RejectsNonPDF(t *testing.T) {
	types := []string{"", "image/png", "application/x-pdf", "application/pdf; charset=binary", "APPLICATION/PDF", "text/plain"}

	for _, mt := range types {
		m := newManager()
		s := store.NewSession("s1")
		m.SelectFile(s, pdf("old.pdf"))

		ok := m.SelectFile(s, extraction.Document{Filename: "x", MIMEType: mt})

		assert.False(t, ok, "mime %q", mt)
		assert.Nil(t, s.File, "mime %q must clear the selection", mt)
		assert.Equal(t, store.Failed{Message: MsgInvalidFile}, s.State)
	}
}

func TestSelectFile_AcceptsPDFAndClearsError(t *testing.T) {
	m := newManager()
	s := store.NewSession("s1")
	m.Fail(s, "previous failure")

	ok := m.SelectFile(s, pdf("resume.pdf"))

	assert.True(t, ok)
	if assert.NotNil(t, s.File) {
		assert.Equal(t, "resume.pdf", s.File.Filename)
	}
	assert.Equal(t, store.Idle{}, s.State)
}

func TestSelectFile_ReplacesPreviousFile(t *testing.T) {
	m := newManager()
	s := store.NewSession("s1")
	m.SelectFile(s, pdf("a.pdf"))
	m.SelectFile(s, pdf("b.pdf"))

	assert.Equal(t, "b.pdf", s.File.Filename)
}

func TestBeginSubmit_WithoutFile(t *testing.T) {
	m := newManager()
	s := store.NewSession("s1")

	_, ok := m.BeginSubmit(s)

	assert.False(t, ok)
	assert.Equal(t, store.Failed{Message: MsgNoFile}, s.State)
}

func TestBeginSubmit_ClearsPreviousOutcome(t *testing.T) {
	m := newManager()
	s := store.NewSession("s1")
	m.SelectFile(s, pdf("resume.pdf"))
	m.Succeed(s, extraction.Result{})

	doc, ok := m.BeginSubmit(s)

	assert.True(t, ok)
	assert.Equal(t, "resume.pdf", doc.Filename)
	assert.True(t, m.IsLoading(s))
}

func TestFail_FallsBackToGenericMessage(t *testing.T) {
	m := newManager()
	s := store.NewSession("s1")

	m.Fail(s, "")

	assert.Equal(t, store.Failed{Message: MsgGenericFailed}, s.State)
}
