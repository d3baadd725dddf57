package dialog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Ferpoks/telegram-cv-bot/internal/convert"
	"github.com/Ferpoks/telegram-cv-bot/internal/render"
	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/metrics"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/telemetry"
	"github.com/Ferpoks/telegram-cv-bot/internal/store"
	"github.com/Ferpoks/telegram-cv-bot/internal/telegram"
)

// exportJob snapshots everything a conversion goroutine needs so it never
// touches the live session after handoff.
type exportJob struct {
	chatID    int64
	userID    int64
	username  string
	lang      resume.Lang
	profileID int64
	ctx       context.Context
}

// onTemplatePreview renders a raster preview of one template (or all of
// them) without touching the conversation state. Before the profile exists
// the preview uses sample content in the session language.
func (b *Bot) onTemplatePreview(ctx context.Context, s *Session, tpl string) error {
	t := T(s.Lang)
	targets := []string{tpl}
	if tpl == "all" {
		targets = render.Catalog
	} else if !render.InCatalog(tpl) {
		b.send(ctx, s.ChatID, t.Reprompt, nil)
		return nil
	}

	rec, err := b.previewRecord(ctx, s)
	if err != nil {
		return err
	}

	b.send(ctx, s.ChatID, t.PreviewWorking, nil)
	job := b.beginExport(ctx, s)
	b.spawn(func() {
		for _, id := range targets {
			rec.Template = id
			markup := b.markup(rec)
			art, convErr := b.pipeline.Preview(job.ctx, markup)
			if job.ctx.Err() != nil {
				telemetry.Info("dialog: preview discarded", map[string]any{"chat_id": job.chatID, "template": id})
				return
			}
			if convErr != nil {
				telemetry.Warn("dialog: preview failed", map[string]any{"template": id, "error": convErr.Error()})
				b.send(job.ctx, job.chatID, t.PreviewFailed, nil)
				return
			}
			b.deliverPreview(job, art, render.CatalogNames[rec.Lang][id])
		}
	})
	return nil
}

// onExport dispatches one export choice through the entitlement gate and the
// conversion pipeline. Usage is recorded only after the artifact reached the
// user.
func (b *Bot) onExport(ctx context.Context, s *Session, kind string, pid int64) error {
	t := T(s.Lang)
	if s.ProfileID == 0 || s.ProfileID != pid {
		b.send(ctx, s.ChatID, t.RecordNotFound, nil)
		return nil
	}
	rec, err := b.repo.FetchFull(ctx, pid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			b.send(ctx, s.ChatID, t.RecordNotFound, nil)
			return nil
		}
		return fmt.Errorf("fetch record: %w", err)
	}

	switch kind {
	case "preview":
		return b.exportPreview(ctx, s, rec)
	case "cover":
		return b.exportCover(ctx, s, rec)
	case "docx", "pdf":
		allowed, err := b.gate.Allowed(ctx, s.UserID, s.Username)
		if err != nil {
			return fmt.Errorf("entitlement check: %w", err)
		}
		if !allowed {
			var rows [][]telegram.Button
			if b.opts.UpgradeURL != "" {
				rows = [][]telegram.Button{{{Text: t.BtnUpgrade, URL: b.opts.UpgradeURL}}}
			}
			b.send(ctx, s.ChatID, t.QuotaExhausted, rows)
			b.sendHub(ctx, s)
			return nil
		}
		if kind == "docx" {
			return b.exportDocx(ctx, s, rec)
		}
		return b.exportPrint(ctx, s, rec)
	}
	b.send(ctx, s.ChatID, t.Reprompt, nil)
	return nil
}

func (b *Bot) exportPreview(ctx context.Context, s *Session, rec resume.Record) error {
	t := T(s.Lang)
	metrics.IncPreview()
	b.send(ctx, s.ChatID, t.PreviewWorking, nil)
	markup := b.markup(rec)
	s.State = StateHub
	job := b.beginExport(ctx, s)
	b.spawn(func() {
		art, err := b.pipeline.Preview(job.ctx, markup)
		if job.ctx.Err() != nil {
			telemetry.Info("dialog: preview discarded", map[string]any{"chat_id": job.chatID})
			return
		}
		if err != nil {
			telemetry.Warn("dialog: preview failed", map[string]any{"error": err.Error()})
			b.send(job.ctx, job.chatID, t.PreviewFailed, nil)
			b.sendHubMenu(job.ctx, job.chatID, job.lang, job.profileID)
			return
		}
		b.deliverPreview(job, art, t.PreviewCaption)
		b.writeArtifact(art, fmt.Sprintf("preview_%d", rec.ID))
		b.sendHubMenu(job.ctx, job.chatID, job.lang, job.profileID)
	})
	return nil
}

func (b *Bot) exportDocx(ctx context.Context, s *Session, rec resume.Record) error {
	t := T(s.Lang)
	resolved := b.resolver.Resolve(rec.Template, rec.Lang, render.KindDocument)
	data, err := render.RenderDocument(rec, resolved)
	if err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	metrics.IncExportStarted()
	name := fmt.Sprintf("cv_%d_%s.docx", rec.ID, rec.Lang)
	if err := b.transport.SendDocument(ctx, s.ChatID, name, data, t.ExportDone); err != nil {
		metrics.IncExportFailed()
		return fmt.Errorf("send document: %w", err)
	}
	metrics.IncExportDelivered()
	b.writeArtifact(convert.Artifact{Data: data, Kind: convert.ArtifactDocx}, fmt.Sprintf("cv_%d_%s", rec.ID, rec.Lang))
	if err := b.gate.Record(ctx, s.UserID, s.Username); err != nil {
		telemetry.Error("dialog: record usage", map[string]any{"user_id": s.UserID, "error": err.Error()})
	}
	b.sendHub(ctx, s)
	return nil
}

// exportPrint runs the print-quality chain: remote PDF, local renderer,
// then the structured document as the degraded last resort.
func (b *Bot) exportPrint(ctx context.Context, s *Session, rec resume.Record) error {
	t := T(s.Lang)
	metrics.IncExportStarted()
	b.send(ctx, s.ChatID, t.ExportWorking, nil)
	markup := b.markup(rec)
	s.State = StateHub
	job := b.beginExport(ctx, s)
	b.spawn(func() {
		art, err := b.pipeline.ExportPrint(job.ctx, markup, func() ([]byte, error) {
			resolved := b.resolver.Resolve(rec.Template, rec.Lang, render.KindDocument)
			return render.RenderDocument(rec, resolved)
		})
		if job.ctx.Err() != nil {
			telemetry.Info("dialog: export discarded", map[string]any{"chat_id": job.chatID})
			return
		}
		if err != nil {
			metrics.IncExportFailed()
			telemetry.Error("dialog: export failed", map[string]any{"error": err.Error()})
			b.send(job.ctx, job.chatID, t.GenericError, nil)
			b.sendHubMenu(job.ctx, job.chatID, job.lang, job.profileID)
			return
		}
		caption := t.ExportDone
		name := fmt.Sprintf("cv_%d.pdf", rec.ID)
		if art.Kind == convert.ArtifactDocx {
			caption = t.ExportDegraded
			name = fmt.Sprintf("cv_%d_%s.docx", rec.ID, rec.Lang)
		}
		if sendErr := b.transport.SendDocument(job.ctx, job.chatID, name, art.Data, caption); sendErr != nil {
			metrics.IncExportFailed()
			telemetry.Error("dialog: send export", map[string]any{"error": sendErr.Error()})
			return
		}
		metrics.IncExportDelivered()
		if art.Degraded {
			metrics.IncExportDegraded()
		}
		b.writeArtifact(art, fmt.Sprintf("cv_%d", rec.ID))
		// Charge on a detached context: a follow-up update cancelling the
		// job must not void the charge for an already-delivered artifact.
		if recErr := b.gate.Record(context.WithoutCancel(job.ctx), job.userID, job.username); recErr != nil {
			telemetry.Error("dialog: record usage", map[string]any{"user_id": job.userID, "error": recErr.Error()})
		}
		b.sendHubMenu(job.ctx, job.chatID, job.lang, job.profileID)
	})
	return nil
}

// exportCover is available to privileged users only.
func (b *Bot) exportCover(ctx context.Context, s *Session, rec resume.Record) error {
	t := T(s.Lang)
	privileged, err := b.gate.Privileged(ctx, s.UserID, s.Username)
	if err != nil {
		return fmt.Errorf("privilege check: %w", err)
	}
	if !privileged {
		b.send(ctx, s.ChatID, t.VIPOnly, nil)
		b.sendHub(ctx, s)
		return nil
	}
	letter := render.CoverLetter(rec)
	name := fmt.Sprintf("cover_%d.txt", rec.ID)
	if err := b.transport.SendDocument(ctx, s.ChatID, name, []byte(letter), t.CoverCaption); err != nil {
		return fmt.Errorf("send cover letter: %w", err)
	}
	b.writeArtifact(convert.Artifact{Data: []byte(letter), Kind: "txt"}, fmt.Sprintf("cover_%d", rec.ID))
	b.sendHub(ctx, s)
	return nil
}

// beginExport installs a fresh cancel scope for the chat's outstanding
// conversion and snapshots the identity fields the goroutine may use.
func (b *Bot) beginExport(ctx context.Context, s *Session) exportJob {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelExport = cancel
	return exportJob{
		chatID:    s.ChatID,
		userID:    s.UserID,
		username:  s.Username,
		lang:      s.Lang,
		profileID: s.ProfileID,
		ctx:       runCtx,
	}
}

func (b *Bot) spawn(fn func()) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		fn()
	}()
}

// Drain blocks until every outstanding conversion goroutine has finished.
func (b *Bot) Drain() {
	b.inflight.Wait()
}

func (b *Bot) deliverPreview(job exportJob, art convert.Artifact, caption string) {
	var err error
	switch art.Kind {
	case convert.ArtifactPNG:
		err = b.transport.SendPhoto(job.ctx, job.chatID, art.Data, caption)
	default:
		err = b.transport.SendDocument(job.ctx, job.chatID, "preview.pdf", art.Data, caption+" • "+T(job.lang).PreviewPDFNote)
	}
	if err != nil {
		telemetry.Warn("dialog: deliver preview", map[string]any{"chat_id": job.chatID, "error": err.Error()})
	}
}

// previewRecord returns the persisted record when one exists, otherwise a
// sample record so templates can be previewed before any data is entered.
func (b *Bot) previewRecord(ctx context.Context, s *Session) (resume.Record, error) {
	if s.ProfileID != 0 {
		rec, err := b.repo.FetchFull(ctx, s.ProfileID)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return resume.Record{}, fmt.Errorf("fetch record: %w", err)
		}
	}
	return sampleRecord(s.Lang), nil
}

func sampleRecord(lang resume.Lang) resume.Record {
	if lang == resume.LangEnglish {
		return resume.Record{
			Lang: lang,
			Header: resume.Header{
				FullName: "Sara Ali",
				Title:    "Data Analyst",
				Phone:    "+966500000000",
				Email:    "sara@example.com",
				City:     "Riyadh",
				Summary:  "Analyst with four years of dashboarding and reporting experience.",
			},
			Experiences: []resume.Experience{{
				Company: "Acme", Role: "Analyst", Start: "01/2021", End: "Present",
				Bullets: []string{"Built reporting pipeline", "Cut monthly close by 3 days"},
			}},
			Educations: []resume.Education{{Degree: "BSc", Major: "Statistics", School: "KSU", Year: "2020"}},
			Skills:     "SQL, Python, Excel",
		}
	}
	return resume.Record{
		Lang: lang,
		Header: resume.Header{
			FullName: "سارة علي",
			Title:    "محللة بيانات",
			Phone:    "+966500000000",
			Email:    "sara@example.com",
			City:     "الرياض",
			Summary:  "محللة بيانات بخبرة أربع سنوات في لوحات المعلومات والتقارير.",
		},
		Experiences: []resume.Experience{{
			Company: "أكمي", Role: "محللة", Start: "01/2021", End: "Present",
			Bullets: []string{"بناء خط تقارير آلي", "تقليص الإغلاق الشهري ثلاثة أيام"},
		}},
		Educations: []resume.Education{{Degree: "بكالوريوس", Major: "إحصاء", School: "جامعة الملك سعود", Year: "2020"}},
		Skills:     "SQL, Python, Excel",
	}
}

func (b *Bot) markup(rec resume.Record) string {
	resolved := b.resolver.Resolve(rec.Template, rec.Lang, render.KindMarkup)
	return render.RenderMarkup(rec, resolved)
}

// writeArtifact keeps a copy of every delivered artifact under the exports
// directory. Failures are logged, never surfaced to the user.
func (b *Bot) writeArtifact(art convert.Artifact, stem string) {
	if b.opts.ExportsDir == "" || len(art.Data) == 0 {
		return
	}
	if err := os.MkdirAll(b.opts.ExportsDir, 0o755); err != nil {
		telemetry.Warn("dialog: exports dir", map[string]any{"error": err.Error()})
		return
	}
	name := fmt.Sprintf("%s_%s.%s", stem, uuid.NewString()[:8], art.Kind)
	if err := os.WriteFile(filepath.Join(b.opts.ExportsDir, name), art.Data, 0o644); err != nil {
		telemetry.Warn("dialog: write artifact", map[string]any{"name": name, "error": err.Error()})
	}
}
