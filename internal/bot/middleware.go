package bot

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/chartak/orderbot/internal/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// recoverMiddleware catches panics in handlers so one malformed event can
// never take the poller down.
func recoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.TG.Error("panic recovered",
					slog.String("event", "tg.panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// loggerMiddleware logs one receipt line per update and stores the rid on
// the context for downstream handlers.
func loggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID, userID := int64(0), int64(0)
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		start := time.Now()
		err := next(c)

		attrs := []slog.Attr{
			slog.String("status", logger.Status(err)),
			slog.String("rid", rid),
			slog.Int64("user_id", userID),
			slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
		}
		if upd.Callback != nil {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 128)))
		} else if t := c.Text(); t != "" {
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 128)))
		}
		if err != nil {
			attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		}
		logger.TG.LogAttrs(context.Background(), levelFor(err), "update handled", attrs...)
		return err
	}
}

func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelError
	}
	return slog.LevelDebug
}

// serializeMiddleware handles updates from one user strictly one at a
// time: handlers read-modify-write the session, and two events for the
// same user must never interleave. Different users proceed concurrently.
func serializeMiddleware() tele.MiddlewareFunc {
	var (
		locksMu sync.Mutex
		locks   = make(map[int64]*sync.Mutex)
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			locksMu.Lock()
			l, ok := locks[user.ID]
			if !ok {
				l = &sync.Mutex{}
				locks[user.ID] = l
			}
			locksMu.Unlock()

			l.Lock()
			defer l.Unlock()
			return next(c)
		}
	}
}

// rateLimitOptions configures the per-user rate limit middleware.
type rateLimitOptions struct {
	Interval time.Duration
	Exclude  map[string]struct{}
}

// rateLimitMiddleware enforces a minimum interval between updates from the
// same user. Update kinds listed in Exclude bypass the limit.
func rateLimitMiddleware(opts rateLimitOptions) tele.MiddlewareFunc {
	var (
		lastSeen   = make(map[int64]time.Time)
		lastSeenMu sync.Mutex
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			kind := "other"
			switch upd := c.Update(); {
			case upd.Callback != nil:
				kind = "callback"
			case upd.Message != nil:
				kind = "message"
			}
			if _, skip := opts.Exclude[kind]; skip {
				return next(c)
			}

			now := time.Now()
			lastSeenMu.Lock()
			if last, ok := lastSeen[user.ID]; ok && now.Sub(last) < opts.Interval {
				lastSeenMu.Unlock()
				logger.TG.Warn("rate limit",
					slog.String("event", "tg.rate_limit"),
					slog.Int64("user_id", user.ID),
				)
				return nil
			}
			lastSeen[user.ID] = now
			lastSeenMu.Unlock()
			return next(c)
		}
	}
}
