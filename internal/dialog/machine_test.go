package dialog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ferpoks/telegram-cv-bot/internal/convert"
	"github.com/Ferpoks/telegram-cv-bot/internal/entitlement"
	"github.com/Ferpoks/telegram-cv-bot/internal/render"
	"github.com/Ferpoks/telegram-cv-bot/internal/store"
	"github.com/Ferpoks/telegram-cv-bot/internal/telegram"
)

type sentMessage struct {
	ChatID  int64
	Text    string
	Buttons [][]telegram.Button
}

type sentFile struct {
	ChatID   int64
	Filename string
	Data     []byte
	Caption  string
}

type fakeTransport struct {
	mu     sync.Mutex
	nextID int
	Texts  []sentMessage
	Edits  []sentMessage
	Docs   []sentFile
	Photos []sentFile
}

func (f *fakeTransport) SendText(_ context.Context, chatID int64, text string, buttons [][]telegram.Button) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.Texts = append(f.Texts, sentMessage{ChatID: chatID, Text: text, Buttons: buttons})
	return f.nextID, nil
}

func (f *fakeTransport) EditMessageText(_ context.Context, chatID int64, _ int, text string, buttons [][]telegram.Button) error {
	f.mu.Lock()

	defer f.mu.Unlock()
	f.Edits = append(f.Edits, sentMessage{ChatID: chatID, Text: text, Buttons: buttons})
	return nil
}

func (f *fakeTransport) AnswerCallback(context.Context, string) error { return nil }

func (f *fakeTransport) SendDocument(_ context.Context, chatID int64, filename string, data []byte, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Docs = append(f.Docs, sentFile{ChatID: chatID, Filename: filename, Data: data, Caption: caption})
	return nil
}

func (f *fakeTransport) SendPhoto(_ context.Context, chatID int64, data []byte, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Photos = append(f.Photos, sentFile{ChatID: chatID, Data: data, Caption: caption})
	return nil
}

func (f *fakeTransport) lastText() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Texts) == 0 {
		return sentMessage{}
	}
	return f.Texts[len(f.Texts)-1]
}

// findText returns the most recent sent message with the given text.
func (f *fakeTransport) findText(text string) (sentMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Texts) - 1; i >= 0; i-- {
		if f.Texts[i].Text == text {
			return f.Texts[i], true
		}
	}
	return sentMessage{}, false
}

// exportMenuData digs the export menu callback payload out of the most
// recent hub keyboard.
func (f *fakeTransport) exportMenuData(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.Texts) - 1; i >= 0; i-- {
		for _, row := range f.Texts[i].Buttons {
			for _, btn := range row {
				if strings.HasPrefix(btn.Data, "cv:menu:export:") {
					return btn.Data
				}
			}
		}
	}
	t.Fatal("no export menu button sent")
	return ""
}

type stubConverter struct {
	png    []byte
	pngErr error
	pdf    []byte
	pdfErr error
}

func (s *stubConverter) Convert(_ context.Context, _ string, kind convert.OutputKind) ([]byte, error) {
	if kind == convert.OutputPNG {
		return s.png, s.pngErr
	}
	return s.pdf, s.pdfErr
}

type fixture struct {
	bot  *Bot
	tr   *fakeTransport
	repo *store.MemoryRepo
	gate *entitlement.Gate
}

func newFixture(t *testing.T, conv convert.Converter, opts Options) *fixture {
	t.Helper()
	tr := &fakeTransport{}
	repo := store.NewMemoryRepo()
	gate := entitlement.NewGate(
		&entitlement.LifetimeOnce{Store: entitlement.NewMemoryOnceStore()},
		repo,
		opts.OwnerID,
		opts.OwnerUsername,
	)
	pipeline := &convert.Pipeline{Remote: conv, Local: convert.NewLocalRenderer(false)}
	bot := NewBot(tr, repo, gate, render.NewResolver(t.TempDir()), pipeline, opts)
	return &fixture{bot: bot, tr: tr, repo: repo, gate: gate}
}

func message(chatID, userID int64, username, text string) telegram.Update {
	return telegram.Update{Message: &telegram.Message{
		MessageID: 1,
		From:      &telegram.User{ID: userID, Username: username},
		Chat:      telegram.Chat{ID: chatID},
		Text:      text,
	}}
}

func callback(chatID, userID int64, username, data string) telegram.Update {
	return telegram.Update{CallbackQuery: &telegram.CallbackQuery{
		ID:      "cb",
		From:    telegram.User{ID: userID, Username: username},
		Message: &telegram.Message{MessageID: 2, Chat: telegram.Chat{ID: chatID}},
		Data:    data,
	}}
}

func drive(fx *fixture, updates ...telegram.Update) {
	ctx := context.Background()
	for _, u := range updates {
		fx.bot.HandleUpdate(ctx, u)
	}
	fx.bot.Drain()
}

// runHeaderFlow walks a chat through language, template, and the header
// prompts up to the hub, returning the export menu callback payload.
func runHeaderFlow(t *testing.T, fx *fixture, chatID, userID int64) string {
	t.Helper()
	drive(fx,
		message(chatID, userID, "sara", "/cv"),
		callback(chatID, userID, "sara", "cv:lang:en"),
		callback(chatID, userID, "sara", "cv:tpl:Navy"),
		message(chatID, userID, "sara", "Sara Ali"),
		message(chatID, userID, "sara", "Data Analyst"),
		message(chatID, userID, "sara", "+966500000000"),
		message(chatID, userID, "sara", "sara@example.com"),
		message(chatID, userID, "sara", "Riyadh"),
		message(chatID, userID, "sara", "-"),
		message(chatID, userID, "sara", "Analyst with four years of experience."),
	)
	return fx.tr.exportMenuData(t)
}

func TestHeaderFlowReachesHub(t *testing.T) {
	fx := newFixture(t, &stubConverter{png: []byte("png")}, Options{})
	exportData := runHeaderFlow(t, fx, 10, 100)

	assert.Equal(t, "cv:menu:export:1", exportData)
	last := fx.tr.lastText()
	assert.Contains(t, last.Text, "Main menu")

	rec, err := fx.repo.FetchFull(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Sara Ali", rec.Header.FullName)
	assert.Equal(t, "Navy", rec.Template)
	assert.Equal(t, "-", rec.Header.Links, "links round-trip verbatim, placeholder included")
	assert.Empty(t, rec.Experiences)
}

func TestExperienceAndSkillsPersist(t *testing.T) {
	fx := newFixture(t, &stubConverter{png: []byte("png")}, Options{})
	runHeaderFlow(t, fx, 10, 100)

	drive(fx,
		callback(10, 100, "sara", "cv:menu:addexp:1"),
		message(10, 100, "sara", "Analyst"),
		message(10, 100, "sara", "Acme"),
		message(10, 100, "sara", "01/2021"),
		message(10, 100, "sara", "Present"),
		message(10, 100, "sara", "• built pipeline\n- cut latency"),
		callback(10, 100, "sara", "cv:menu:skills:1"),
		message(10, 100, "sara", "SQL, Python ؛ Excel"),
	)

	rec, err := fx.repo.FetchFull(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rec.Experiences, 1)
	assert.Equal(t, []string{"built pipeline", "cut latency"}, rec.Experiences[0].Bullets)
	assert.Equal(t, "SQL, Python, Excel", rec.Skills)
}

func TestEmptyInputRepeatsPrompt(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{})
	drive(fx,
		message(10, 100, "sara", "/cv"),
		callback(10, 100, "sara", "cv:lang:en"),
		callback(10, 100, "sara", "cv:tpl:Navy"),
		message(10, 100, "sara", "   "),
	)
	assert.Equal(t, T("en").AskName, fx.tr.lastText().Text)

	drive(fx, message(10, 100, "sara", "Sara Ali"))
	assert.Equal(t, T("en").AskTitle, fx.tr.lastText().Text)
}

func TestTextOutsidePromptStatesReprompts(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{})
	runHeaderFlow(t, fx, 10, 100)

	drive(fx, message(10, 100, "sara", "random text at the hub"))
	assert.Equal(t, T("en").Reprompt, fx.tr.lastText().Text)
}

func TestCVResetDiscardsPreviousConversation(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{})
	runHeaderFlow(t, fx, 10, 100)

	drive(fx, message(10, 100, "sara", "/cv"))
	s := fx.bot.sessions.get(10)
	assert.Equal(t, StateChooseLanguage, s.State)
	assert.Zero(t, s.ProfileID)
}

func TestTemplateChangeFromHubPersists(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{})
	runHeaderFlow(t, fx, 10, 100)

	drive(fx,
		callback(10, 100, "sara", "cv:menu:tpl:1"),
		callback(10, 100, "sara", "cv:tpl:ATS"),
	)

	rec, err := fx.repo.FetchFull(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ATS", rec.Template)
	assert.Equal(t, "Main menu:\n• Add experience\n• Add education\n• Set skills\n• Preview/export", fx.tr.lastText().Text)
}

func TestStartRegistersUserAndOwnerBecomesVIP(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{OwnerID: 100})
	drive(fx, message(10, 100, "boss", "/start"))

	vip, err := fx.repo.IsVIP(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, vip)

	fx2 := newFixture(t, &stubConverter{}, Options{OwnerID: 999})
	drive(fx2, message(10, 100, "sara", "/start"))
	vip, err = fx2.repo.IsVIP(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, vip)
}

func TestUpgradeCommand(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{UpgradeURL: "https://pay.example/vip"})
	drive(fx, message(10, 100, "sara", "/upgrade"))
	last := fx.tr.lastText()
	assert.Contains(t, last.Text, "https://pay.example/vip")
	require.NotEmpty(t, last.Buttons)
	assert.Equal(t, "https://pay.example/vip", last.Buttons[0][0].URL)

	fx2 := newFixture(t, &stubConverter{}, Options{})
	drive(fx2, message(10, 100, "sara", "/upgrade"))
	assert.Equal(t, T("ar").UpgradeMissing, fx2.tr.lastText().Text)
}

func TestStaleMenuCallbackReportsMissingRecord(t *testing.T) {
	fx := newFixture(t, &stubConverter{}, Options{})
	runHeaderFlow(t, fx, 10, 100)

	drive(fx, callback(10, 100, "sara", "cv:menu:addexp:99"))
	assert.Equal(t, T("en").RecordNotFound, fx.tr.lastText().Text)
}

func TestCommandsMenu(t *testing.T) {
	cmds := Commands()
	require.Len(t, cmds, 3)
	assert.Equal(t, "cv", cmds[0].Command)
	for _, c := range cmds {
		assert.NotEmpty(t, c.Description, fmt.Sprintf("command %s", c.Command))
	}
}
