package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConverter struct {
	perKind map[OutputKind][]byte
	err     error
	calls   []OutputKind
}

func (s *stubConverter) Convert(ctx context.Context, markup string, kind OutputKind) ([]byte, error) {
	s.calls = append(s.calls, kind)
	if s.err != nil {
		return nil, s.err
	}
	if data, ok := s.perKind[kind]; ok {
		return data, nil
	}
	return nil, ErrServiceRejected
}

func TestPreviewPrefersRaster(t *testing.T) {
	remote := &stubConverter{perKind: map[OutputKind][]byte{OutputPNG: []byte("png")}}
	p := &Pipeline{Remote: remote}

	art, err := p.Preview(context.Background(), "<html/>")
	require.NoError(t, err)
	assert.Equal(t, ArtifactPNG, art.Kind)
	assert.False(t, art.Degraded)
	assert.Equal(t, []OutputKind{OutputPNG}, remote.calls)
}

func TestPreviewFallsBackToPrint(t *testing.T) {
	remote := &stubConverter{perKind: map[OutputKind][]byte{OutputPDF: []byte("pdf")}}
	p := &Pipeline{Remote: remote}

	art, err := p.Preview(context.Background(), "<html/>")
	require.NoError(t, err)
	assert.Equal(t, ArtifactPDF, art.Kind)
	assert.True(t, art.Degraded)
	assert.Equal(t, []OutputKind{OutputPNG, OutputPDF}, remote.calls)
}

func TestPreviewSurfacesErrorWithoutDocumentFallback(t *testing.T) {
	remote := &stubConverter{err: ErrServiceRejected}
	p := &Pipeline{Remote: remote}

	_, err := p.Preview(context.Background(), "<html/>")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceRejected)
}

func TestExportPrintRemoteSuccess(t *testing.T) {
	remote := &stubConverter{perKind: map[OutputKind][]byte{OutputPDF: []byte("pdf")}}
	p := &Pipeline{Remote: remote}

	art, err := p.ExportPrint(context.Background(), "<html/>", func() ([]byte, error) {
		t.Fatal("document fallback invoked despite remote success")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, ArtifactPDF, art.Kind)
	assert.False(t, art.Degraded)
}

func TestExportPrintFallsBackToDocument(t *testing.T) {
	remote := &stubConverter{err: ErrTransport}
	p := &Pipeline{Remote: remote, Local: NewLocalRenderer(false)}

	art, err := p.ExportPrint(context.Background(), "<html/>", func() ([]byte, error) {
		return []byte("docx bytes"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, ArtifactDocx, art.Kind)
	assert.True(t, art.Degraded)
	assert.NotEmpty(t, art.Data)
}

func TestExportPrintDiscardsAfterCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := &stubConverter{err: ErrTransport}
	p := &Pipeline{Remote: remote}

	cancel()
	_, err := p.ExportPrint(ctx, "<html/>", func() ([]byte, error) {
		return []byte("docx"), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
