// Package bot implements the Telegram side of the file organizer: commands,
// upload flows and the inline button menus.
package bot

import (
	"io"
	"log"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/dricdias/telegram-bot/internal/organizer"
	"github.com/dricdias/telegram-bot/internal/ws"
)

// Bot wraps the telebot instance together with the organizer service.
type Bot struct {
	tb       *tele.Bot
	svc      *organizer.Service
	hub      *ws.Hub
	sessions *sessionStore
}

// New builds the bot and registers every handler. The hub may be nil when the
// dashboard feed is disabled.
func New(token string, svc *organizer.Service, hub *ws.Hub) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Printf("telegram handler error: %v", err)
		},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:       tb,
		svc:      svc,
		hub:      hub,
		sessions: newSessionStore(),
	}

	tb.Handle("/start", b.handleStart)
	tb.Handle("/menu", b.handleMenu)
	tb.Handle("/categoria", b.handleSetCategory)
	tb.Handle("/listar", b.handleList)

	tb.Handle(tele.OnDocument, b.handleDocument)
	tb.Handle(tele.OnPhoto, b.handlePhoto)
	tb.Handle(tele.OnVideo, b.handleVideo)
	tb.Handle(tele.OnAudio, b.handleAudio)
	tb.Handle(tele.OnVoice, b.handleVoice)

	tb.Handle(tele.OnText, b.handleText)
	tb.Handle(tele.OnCallback, b.handleCallback)

	return b, nil
}

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() {
	log.Println("🤖 Bot is now running!")
	b.tb.Start()
}

// Stop halts the poller.
func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) notify(msgType, category, file string) {
	if b.hub != nil {
		b.hub.Notify(msgType, category, file)
	}
}

// download fetches the payload of a Telegram file.
func (b *Bot) download(file *tele.File) ([]byte, error) {
	rc, err := b.tb.File(file)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
