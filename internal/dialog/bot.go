package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Ferpoks/telegram-cv-bot/internal/convert"
	"github.com/Ferpoks/telegram-cv-bot/internal/entitlement"
	"github.com/Ferpoks/telegram-cv-bot/internal/render"
	"github.com/Ferpoks/telegram-cv-bot/internal/resume"
	"github.com/Ferpoks/telegram-cv-bot/internal/shared/telemetry"
	"github.com/Ferpoks/telegram-cv-bot/internal/store"
	"github.com/Ferpoks/telegram-cv-bot/internal/telegram"
)

// Transport is the outbound messaging surface the bot needs. The Telegram
// client satisfies it; tests provide a recording fake.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, buttons [][]telegram.Button) (int, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, buttons [][]telegram.Button) error
	AnswerCallback(ctx context.Context, callbackID string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
	SendPhoto(ctx context.Context, chatID int64, data []byte, caption string) error
}

// Options carries the bootstrap-level knobs the dialog layer needs.
type Options struct {
	OwnerID       int64
	OwnerUsername string
	UpgradeURL    string
	ExportsDir    string
}

// Bot drives the guided resume conversation for every chat.
type Bot struct {
	transport Transport
	repo      store.Repo
	gate      *entitlement.Gate
	resolver  *render.Resolver
	pipeline  *convert.Pipeline
	opts      Options
	sessions  *sessions
	inflight  sync.WaitGroup
}

func NewBot(transport Transport, repo store.Repo, gate *entitlement.Gate, resolver *render.Resolver, pipeline *convert.Pipeline, opts Options) *Bot {
	return &Bot{
		transport: transport,
		repo:      repo,
		gate:      gate,
		resolver:  resolver,
		pipeline:  pipeline,
		opts:      opts,
		sessions:  newSessions(),
	}
}

// Commands returns the command menu registered via setMyCommands.
func Commands() []telegram.BotCommand {
	return []telegram.BotCommand{
		{Command: "cv", Description: "إنشاء سيرة جديدة"},
		{Command: "help", Description: "مساعدة"},
		{Command: "upgrade", Description: "ترقية VIP"},
	}
}

// HandleUpdate is the poller entry point. Updates for the same chat arrive
// serialized; any export still running for the chat is cancelled first so a
// stale result can never land in a changed conversation.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) {
	chatID := u.ChatID()
	if chatID == 0 {
		return
	}
	s := b.sessions.get(chatID)
	if s.cancelExport != nil {
		s.cancelExport()
		s.cancelExport = nil
	}

	var err error
	switch {
	case u.CallbackQuery != nil:
		err = b.handleCallback(ctx, s, u.CallbackQuery)
	case u.Message != nil && strings.HasPrefix(u.Message.Text, "/"):
		err = b.handleCommand(ctx, s, u.Message)
	case u.Message != nil:
		err = b.handleText(ctx, s, u.Message)
	}
	if err != nil {
		telemetry.Error("dialog: update failed", map[string]any{"chat_id": chatID, "state": int(s.State), "error": err.Error()})
		b.send(ctx, chatID, T(s.Lang).GenericError, nil)
	}
}

func (b *Bot) handleCommand(ctx context.Context, s *Session, msg *telegram.Message) error {
	cmd := strings.ToLower(strings.TrimSpace(msg.Text))
	if i := strings.IndexAny(cmd, " @"); i > 0 {
		cmd = cmd[:i]
	}
	if msg.From != nil {
		s.UserID = msg.From.ID
		s.Username = msg.From.Username
	}

	switch cmd {
	case "/start":
		if err := b.repo.EnsureUser(ctx, s.UserID, s.Lang); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}
		// The configured owner is always VIP.
		if b.isOwner(s.UserID, s.Username) {
			if err := b.repo.SetVIP(ctx, s.UserID, true); err != nil {
				return fmt.Errorf("set owner vip: %w", err)
			}
		}
		b.send(ctx, s.ChatID, T(s.Lang).Welcome, nil)
		return nil
	case "/help":
		b.send(ctx, s.ChatID, T(s.Lang).Help, nil)
		return nil
	case "/upgrade":
		t := T(s.Lang)
		if b.opts.UpgradeURL == "" {
			b.send(ctx, s.ChatID, t.UpgradeMissing, nil)
			return nil
		}
		b.send(ctx, s.ChatID, t.UpgradeHint+b.opts.UpgradeURL, [][]telegram.Button{
			{{Text: t.BtnUpgrade, URL: b.opts.UpgradeURL}},
		})
		return nil
	case "/cv":
		fresh := b.sessions.reset(s.ChatID)
		fresh.UserID = s.UserID
		fresh.Username = s.Username
		if err := b.repo.EnsureUser(ctx, fresh.UserID, fresh.Lang); err != nil {
			return fmt.Errorf("ensure user: %w", err)
		}
		fresh.State = StateChooseLanguage
		b.send(ctx, s.ChatID, T(fresh.Lang).ChooseLang, langKeyboard())
		return nil
	default:
		b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
		return nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, s *Session, cb *telegram.CallbackQuery) error {
	if err := b.transport.AnswerCallback(ctx, cb.ID); err != nil {
		telemetry.Warn("dialog: answer callback", map[string]any{"error": err.Error()})
	}
	s.UserID = cb.From.ID
	s.Username = cb.From.Username

	parts := strings.Split(cb.Data, ":")
	if len(parts) < 3 || parts[0] != "cv" {
		b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
		return nil
	}
	messageID := 0
	if cb.Message != nil {
		messageID = cb.Message.MessageID
	}

	switch parts[1] {
	case "lang":
		return b.onLanguageChosen(ctx, s, messageID, parts[2])
	case "tpl":
		return b.onTemplateChosen(ctx, s, messageID, parts[2])
	case "prev":
		// Preview detour: the conversation state is left untouched.
		return b.onTemplatePreview(ctx, s, parts[2])
	case "menu":
		if len(parts) < 4 {
			b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
			return nil
		}
		pid, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
			return nil
		}
		return b.onMenuAction(ctx, s, messageID, parts[2], pid)
	case "export":
		if len(parts) < 4 {
			b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
			return nil
		}
		pid, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
			return nil
		}
		return b.onExport(ctx, s, parts[2], pid)
	}
	b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
	return nil
}

func (b *Bot) onLanguageChosen(ctx context.Context, s *Session, messageID int, raw string) error {
	if s.State != StateChooseLanguage {
		b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
		return nil
	}
	s.Lang = resume.ParseLang(raw)
	s.State = StateChooseTemplate
	t := T(s.Lang)
	if messageID != 0 {
		if err := b.transport.EditMessageText(ctx, s.ChatID, messageID, t.ChooseTemplate, templateKeyboard(s.Lang, "cv:tpl:")); err == nil {
			return nil
		}
	}
	b.send(ctx, s.ChatID, t.ChooseTemplate, templateKeyboard(s.Lang, "cv:tpl:"))
	return nil
}

func (b *Bot) onTemplateChosen(ctx context.Context, s *Session, messageID int, tpl string) error {
	if !render.InCatalog(tpl) {
		b.send(ctx, s.ChatID, T(s.Lang).Reprompt, nil)
		return nil
	}
	t := T(s.Lang)
	switch s.State {
	case StateChooseTemplate:
		s.Template = tpl
		s.State = StateName
		b.edit(ctx, s.ChatID, messageID, t.TemplateSet+render.CatalogNames[s.Lang][tpl], nil)
		b.send(ctx, s.ChatID, t.AskName, nil)
		return nil
	case StateHub, StateExportChoice:
		// Template change after the profile exists persists immediately.
		if s.ProfileID == 0 {
			b.send(ctx, s.ChatID, t.Reprompt, nil)
			return nil
		}
		if err := b.repo.SetTemplate(ctx, s.ProfileID, tpl); err != nil {
			return fmt.Errorf("set template: %w", err)
		}
		s.Template = tpl
		s.State = StateHub
		b.edit(ctx, s.ChatID, messageID, t.TemplateSet+render.CatalogNames[s.Lang][tpl], nil)
		b.sendHub(ctx, s)
		return nil
	}
	b.send(ctx, s.ChatID, t.Reprompt, nil)
	return nil
}

func (b *Bot) onMenuAction(ctx context.Context, s *Session, messageID int, action string, pid int64) error {
	if s.ProfileID == 0 || s.ProfileID != pid {
		b.send(ctx, s.ChatID, T(s.Lang).RecordNotFound, nil)
		return nil
	}
	t := T(s.Lang)
	switch action {
	case "addexp":
		s.exp = resume.Experience{}
		s.State = StateExpRole
		b.send(ctx, s.ChatID, t.AskExpRole, nil)
	case "addedu":
		s.edu = resume.Education{}
		s.State = StateEduDegree
		b.send(ctx, s.ChatID, t.AskEduDegree, nil)
	case "skills":
		s.State = StateSkills
		b.send(ctx, s.ChatID, t.AskSkills, nil)
	case "tpl":
		b.edit(ctx, s.ChatID, messageID, t.ChooseTemplate, templateKeyboard(s.Lang, "cv:tpl:"))
	case "export":
		s.State = StateExportChoice
		privileged, err := b.gate.Privileged(ctx, s.UserID, s.Username)
		if err != nil {
			return fmt.Errorf("privilege check: %w", err)
		}
		b.edit(ctx, s.ChatID, messageID, t.ChooseExport, b.exportKeyboard(s, privileged))
	default:
		b.send(ctx, s.ChatID, t.Reprompt, nil)
	}
	return nil
}

func (b *Bot) isOwner(userID int64, username string) bool {
	if b.opts.OwnerID != 0 && userID == b.opts.OwnerID {
		return true
	}
	return b.opts.OwnerUsername != "" && strings.EqualFold(username, b.opts.OwnerUsername)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, buttons [][]telegram.Button) {
	if _, err := b.transport.SendText(ctx, chatID, text, buttons); err != nil {
		telemetry.Warn("dialog: send failed", map[string]any{"chat_id": chatID, "error": err.Error()})
	}
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, text string, buttons [][]telegram.Button) {
	if messageID == 0 {
		b.send(ctx, chatID, text, buttons)
		return
	}
	if err := b.transport.EditMessageText(ctx, chatID, messageID, text, buttons); err != nil {
		b.send(ctx, chatID, text, buttons)
	}
}

func (b *Bot) sendHub(ctx context.Context, s *Session) {
	s.State = StateHub
	b.sendHubMenu(ctx, s.ChatID, s.Lang, s.ProfileID)
}

// sendHubMenu sends the hub keyboard from plain values, so conversion
// goroutines can re-surface the menu without touching the live session.
func (b *Bot) sendHubMenu(ctx context.Context, chatID int64, lang resume.Lang, profileID int64) {
	t := T(lang)
	pid := strconv.FormatInt(profileID, 10)
	b.send(ctx, chatID, t.MenuTitle, [][]telegram.Button{
		{{Text: t.BtnAddExp, Data: "cv:menu:addexp:" + pid}},
		{{Text: t.BtnAddEdu, Data: "cv:menu:addedu:" + pid}},
		{{Text: t.BtnSkills, Data: "cv:menu:skills:" + pid}},
		{{Text: t.BtnTemplate, Data: "cv:menu:tpl:" + pid}},
		{{Text: t.BtnExport, Data: "cv:menu:export:" + pid}},
	})
}

func langKeyboard() [][]telegram.Button {
	return [][]telegram.Button{{
		{Text: "العربية", Data: "cv:lang:ar"},
		{Text: "English", Data: "cv:lang:en"},
	}}
}

// templateKeyboard lists the catalog with a preview shortcut per template
// plus a preview-all row.
func templateKeyboard(lang resume.Lang, prefix string) [][]telegram.Button {
	names := render.CatalogNames[lang]
	rows := make([][]telegram.Button, 0, len(render.Catalog)+1)
	for _, id := range render.Catalog {
		rows = append(rows, []telegram.Button{
			{Text: names[id], Data: prefix + id},
			{Text: "👀", Data: "cv:prev:" + id},
		})
	}
	rows = append(rows, []telegram.Button{{Text: T(lang).BtnPreviewAll, Data: "cv:prev:all"}})
	return rows
}

func (b *Bot) exportKeyboard(s *Session, privileged bool) [][]telegram.Button {
	t := T(s.Lang)
	pid := strconv.FormatInt(s.ProfileID, 10)
	rows := [][]telegram.Button{
		{{Text: t.BtnPreview, Data: "cv:export:preview:" + pid}},
		{{Text: t.BtnDocx, Data: "cv:export:docx:" + pid}},
		{{Text: t.BtnPDF, Data: "cv:export:pdf:" + pid}},
	}
	if privileged {
		rows = append(rows, []telegram.Button{{Text: t.BtnCover, Data: "cv:export:cover:" + pid}})
	} else if b.opts.UpgradeURL != "" {
		rows = append(rows, []telegram.Button{{Text: t.BtnUpgrade, URL: b.opts.UpgradeURL}})
	}
	return rows
}
