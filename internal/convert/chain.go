package convert

import (
	"context"
	"fmt"

	"github.com/Ferpoks/telegram-cv-bot/internal/shared/metrics"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/telemetry"
)

// ArtifactKind identifies what a pipeline attempt actually produced.
type ArtifactKind string

const (
	ArtifactPDF  ArtifactKind = "pdf"
	ArtifactPNG  ArtifactKind = "png"
	ArtifactDocx ArtifactKind = "docx"
)

// Artifact is the outcome of a fallback chain. Degraded marks artifacts
// produced by a fallback step rather than the preferred converter.
type Artifact struct {
	Data     []byte
	Kind     ArtifactKind
	Degraded bool
}

// Pipeline runs the ordered conversion attempts. Remote is tried first;
// Local is the optional best-effort print fallback.
type Pipeline struct {
	Remote Converter
	Local  *LocalRenderer
}

// Preview attempts a raster preview, falling back to print from the same
// markup. It never falls through to a document artifact: when both remote
// attempts fail the error reaches the user.
func (p *Pipeline) Preview(ctx context.Context, markup string) (Artifact, error) {
	start := metrics.NowMillis()
	defer func() { metrics.ObserveConversionDurationMs(metrics.NowMillis() - start) }()

	png, err := p.Remote.Convert(ctx, markup, OutputPNG)
	if err == nil {
		return Artifact{Data: png, Kind: ArtifactPNG}, nil
	}
	if ctx.Err() != nil {
		return Artifact{}, ctx.Err()
	}
	telemetry.Warn("png preview failed, falling back to pdf", map[string]any{"err": err.Error()})

	pdfBytes, pdfErr := p.Remote.Convert(ctx, markup, OutputPDF)
	if pdfErr == nil {
		return Artifact{Data: pdfBytes, Kind: ArtifactPDF, Degraded: true}, nil
	}
	if ctx.Err() != nil {
		return Artifact{}, ctx.Err()
	}
	return Artifact{}, fmt.Errorf("preview conversion failed: %w", pdfErr)
}

// ExportPrint attempts a print-quality export: remote conversion first, then
// the local renderer when enabled, and finally the caller-supplied document
// artifact. The document step cannot fail the chain short of its own error,
// so a dead remote service still yields a deliverable file.
func (p *Pipeline) ExportPrint(ctx context.Context, markup string, document func() ([]byte, error)) (Artifact, error) {
	start := metrics.NowMillis()
	defer func() { metrics.ObserveConversionDurationMs(metrics.NowMillis() - start) }()

	pdfBytes, err := p.Remote.Convert(ctx, markup, OutputPDF)
	if err == nil {
		return Artifact{Data: pdfBytes, Kind: ArtifactPDF}, nil
	}
	if ctx.Err() != nil {
		return Artifact{}, ctx.Err()
	}
	telemetry.Warn("remote print conversion failed", map[string]any{"err": err.Error()})

	if p.Local != nil && p.Local.Enabled() {
		localBytes, localErr := p.Local.Convert(ctx, markup)
		if localErr == nil {
			return Artifact{Data: localBytes, Kind: ArtifactPDF, Degraded: true}, nil
		}
		if ctx.Err() != nil {
			return Artifact{}, ctx.Err()
		}
		telemetry.Warn("local print conversion failed", map[string]any{"err": localErr.Error()})
	}

	docBytes, docErr := document()
	if docErr != nil {
		return Artifact{}, fmt.Errorf("document fallback failed: %w", docErr)
	}
	return Artifact{Data: docBytes, Kind: ArtifactDocx, Degraded: true}, nil
}
