// Package bot is the Telegram front end over the trade journal. It translates
// chat commands into ledger and stats calls; every business rule lives in the
// core packages.
package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/internal/ledger"
	"trade-journal/internal/reset"
	"trade-journal/internal/stats"
)

const leaderboardLimit = 10

// Bot wires Telegram updates to the journal core.
type Bot struct {
	bot   *tele.Bot
	cfg   *config.Config
	store *ledger.Store
	guard *reset.Guard
	log   zerolog.Logger
	nowFn func() time.Time
}

// New builds the bot and registers its handlers. It does not start polling.
func New(cfg *config.Config, store *ledger.Store, guard *reset.Guard, logger zerolog.Logger) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:   tb,
		cfg:   cfg,
		store: store,
		guard: guard,
		log:   logger,
		nowFn: time.Now,
	}
	b.registerHandlers()
	return b, nil
}

// Start begins long-polling for updates. Blocks until Stop is called.
func (b *Bot) Start() {
	b.log.Info().Msg("Bot starting")
	b.bot.Start()
}

// Stop terminates the update loop.
func (b *Bot) Stop() {
	b.log.Info().Msg("Bot stopping")
	b.bot.Stop()
}

func (b *Bot) registerHandlers() {
	// Log every command before dispatch.
	b.bot.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Message() != nil && c.Sender() != nil {
				b.log.Debug().
					Int64("sender", c.Sender().ID).
					Str("text", c.Message().Text).
					Msg("Update received")
			}
			return next(c)
		}
	})

	b.bot.Handle("/start", b.handleHelp)
	b.bot.Handle("/help", b.handleHelp)
	b.bot.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.bot.Handle("/trade", b.handleTrade)
	b.bot.Handle("/stats", b.handleStats)
	b.bot.Handle("/best", b.handleBest)
	b.bot.Handle("/worst", b.handleWorst)
	b.bot.Handle("/streak", b.handleStreak)
	b.bot.Handle("/leaderboard", b.handleLeaderboard)
	b.bot.Handle("/calendar", b.handleCalendar)

	b.bot.Handle("/reset", b.handleResetSelf)
	b.bot.Handle("/resetall", b.handleResetAll)
	b.bot.Handle("/confirmreset", b.handleConfirmReset)
	b.bot.Handle("/cancelreset", b.handleCancelReset)
}

func (b *Bot) userID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

func (b *Bot) isAdmin(c tele.Context) bool {
	return b.cfg.IsAdmin(c.Sender().ID)
}

// reply sends err to the user as a readable message, hiding internals behind
// the error taxonomy.
func (b *Bot) replyError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, errors.ErrInvalidTradeInput):
		return c.Send("Invalid input: " + err.Error())
	case errors.Is(err, errors.ErrPermissionDenied):
		return c.Send("You are not allowed to do that.")
	case errors.Is(err, errors.ErrNoResetPending):
		return c.Send("No reset is pending. Use /resetall first.")
	case errors.Is(err, errors.ErrPersistence):
		b.log.Error().Err(err).Msg("Persistence failure")
		return c.Send("Could not save your data, nothing was changed. Try again.")
	default:
		b.log.Error().Err(err).Msg("Command failed")
		return c.Send("Something went wrong.")
	}
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(helpText, tele.ModeMarkdown)
}

func (b *Bot) handleTrade(c tele.Context) error {
	in, err := ParseTradeArgs(c.Message().Payload)
	if err != nil {
		return b.replyError(c, err)
	}

	trade, err := ledger.NewTrade(in, b.nowFn())
	if err != nil {
		return b.replyError(c, err)
	}
	if err := b.store.RecordTrade(b.userID(c), trade); err != nil {
		return b.replyError(c, err)
	}
	return c.Send(renderTradeAdded(trade))
}

func (b *Bot) handleStats(c tele.Context) error {
	window, ok := stats.ParseWindow(c.Message().Payload)
	if !ok {
		return c.Send("Unknown window. Use day, week, month or all.")
	}

	trades := b.store.Trades(b.userID(c))
	scoped := stats.FilterByWindow(trades, window, b.nowFn())
	return c.Send(renderSummary(string(window), stats.Summarize(scoped)), tele.ModeMarkdown)
}

func (b *Bot) handleBest(c tele.Context) error {
	return c.Send(renderTrade("Best trade", stats.BestTrade(b.store.Trades(b.userID(c)))), tele.ModeMarkdown)
}

func (b *Bot) handleWorst(c tele.Context) error {
	return c.Send(renderTrade("Worst trade", stats.WorstTrade(b.store.Trades(b.userID(c)))), tele.ModeMarkdown)
}

func (b *Bot) handleStreak(c tele.Context) error {
	return c.Send(renderStreak(stats.CurrentStreak(b.store.Trades(b.userID(c)))))
}

func (b *Bot) handleLeaderboard(c tele.Context) error {
	standings := stats.Leaderboard(b.store.Snapshot(), leaderboardLimit)
	return c.Send(renderLeaderboard(standings, b.displayName(c)), tele.ModeMarkdown)
}

// displayName resolves a ledger user id to something readable in chat. Only
// the sender's own name is known without extra API calls, so other entries
// keep their numeric id.
func (b *Bot) displayName(c tele.Context) func(string) string {
	self := b.userID(c)
	name := strings.TrimSpace(c.Sender().FirstName)
	if name == "" {
		name = c.Sender().Username
	}
	return func(uid string) string {
		if uid == self && name != "" {
			return name
		}
		return uid
	}
}

func (b *Bot) handleCalendar(c tele.Context) error {
	return c.Send(renderCalendar(stats.Calendar(b.store.Trades(b.userID(c)))), tele.ModeMarkdown)
}

func (b *Bot) handleResetSelf(c tele.Context) error {
	if err := b.guard.RequestUserReset(b.userID(c)); err != nil {
		return b.replyError(c, err)
	}
	return c.Send("Your journal has been cleared.")
}

func (b *Bot) handleResetAll(c tele.Context) error {
	prompt, err := b.guard.RequestGlobalReset(b.isAdmin(c))
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(prompt + " (/confirmreset or /cancelreset)")
}

func (b *Bot) handleConfirmReset(c tele.Context) error {
	if err := b.guard.ConfirmGlobalReset(b.isAdmin(c)); err != nil {
		return b.replyError(c, err)
	}
	return c.Send("All journals have been cleared.")
}

func (b *Bot) handleCancelReset(c tele.Context) error {
	if !b.isAdmin(c) {
		return b.replyError(c, errors.ErrPermissionDenied)
	}
	b.guard.CancelGlobalReset()
	return c.Send("Global reset cancelled.")
}
