package middleware

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Registrar creates progress records for new users
type Registrar interface {
	Register(ctx context.Context, username string) error
}

// EnsureUser creates the sender's progress record before any handler runs
func EnsureUser(registrar Registrar, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := registrar.Register(ctx, strconv.FormatInt(sender.ID, 10)); err != nil {
				logger.Error("Failed to ensure user exists in middleware",
					zap.Int64("user_id", sender.ID),
					zap.Error(err),
				)
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			return next(c)
		}
	}
}
