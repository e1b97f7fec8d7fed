package whatsapp

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
	"github.com/codegiant07/habit-tracker-bot/internal/habit"
	"github.com/codegiant07/habit-tracker-bot/internal/intent"
	"github.com/codegiant07/habit-tracker-bot/internal/stats"
)

// Webhook handles the Meta verification handshake and inbound messages,
// translating them through the intent parser into habit/stats calls.
type Webhook struct {
	verifyToken string
	habits      *habit.Service
	stats       *stats.Service
	sender      Sender
	log         *zap.Logger
}

func NewWebhook(verifyToken string, habits *habit.Service, statsSvc *stats.Service, sender Sender, log *zap.Logger) *Webhook {
	return &Webhook{
		verifyToken: verifyToken,
		habits:      habits,
		stats:       statsSvc,
		sender:      sender,
		log:         log,
	}
}

// Register mounts the webhook routes on the given echo instance.
func (w *Webhook) Register(e *echo.Echo) {
	e.GET("/webhook", w.handleVerify)
	e.POST("/webhook", w.handleInbound)
}

// handleVerify serves the Meta webhook verification handshake; without
// hub.* params it doubles as a readiness probe.
func (w *Webhook) handleVerify(c echo.Context) error {
	mode := c.QueryParam("hub.mode")
	token := c.QueryParam("hub.verify_token")
	challenge := c.QueryParam("hub.challenge")

	if mode == "subscribe" && token != "" && challenge != "" {
		if token == w.verifyToken {
			w.log.Info("whatsapp webhook verified")
			return c.String(http.StatusOK, challenge)
		}
		w.log.Warn("invalid webhook verification attempt", zap.String("mode", mode))
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid verify token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":                "webhook-ready",
		"verifyTokenConfigured": w.verifyToken != "",
	})
}

// inboundPayload mirrors the slice of the Cloud API webhook body this bot
// consumes (first text message and contact of the first change).
type inboundPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
				Contacts []struct {
					WaID    string `json:"wa_id"`
					Profile *struct {
						Name string `json:"name"`
					} `json:"profile"`
				} `json:"contacts"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

func (w *Webhook) handleInbound(c echo.Context) error {
	var payload inboundPayload
	if err := c.Bind(&payload); err != nil {
		w.log.Warn("invalid webhook payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}
	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 || value.Messages[0].Text == nil || value.Messages[0].From == "" {
		w.log.Info("non-text or empty message; ignoring")
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	phone := value.Messages[0].From
	text := value.Messages[0].Text.Body
	var name *string
	if len(value.Contacts) > 0 && value.Contacts[0].Profile != nil && value.Contacts[0].Profile.Name != "" {
		name = &value.Contacts[0].Profile.Name
	}

	w.log.Info("incoming message", zap.String("phone", phone))
	w.dispatch(c, phone, name, text)
	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// dispatch runs the parsed intent and replies. Reply/send failures are logged
// and swallowed; the webhook always acknowledges handled payloads.
func (w *Webhook) dispatch(c echo.Context, phone string, name *string, text string) {
	ctx := c.Request().Context()

	switch in := intent.Parse(text); in.Kind {
	case intent.LogHabit:
		res, err := w.habits.Log(ctx, habit.LogRequest{
			Phone:  phone,
			Name:   name,
			Habit:  in.Habit,
			Count:  in.Count,
			Source: domain.SourceWhatsApp,
		})
		if err != nil {
			w.log.Error("log habit failed", zap.Error(err), zap.String("phone", phone))
			w.reply(c, phone, "Sorry, we could not log that right now.")
			return
		}
		w.reply(c, phone, fmt.Sprintf("Logged %d %s. Today total: %d.",
			in.Count, res.Log.Habit, res.TodayTotal))

	case intent.GetStats:
		user, err := w.habits.Upsert(ctx, phone, name)
		if err != nil {
			w.log.Error("upsert user failed", zap.Error(err), zap.String("phone", phone))
			return
		}
		var (
			total       int64
			periodLabel string
		)
		if in.Period == intent.PeriodWeek {
			total, err = w.stats.TotalForWeek(ctx, user.ID, in.Habit, time.Now(), user.TZ)
			periodLabel = "this week"
		} else {
			total, err = w.stats.TotalForDay(ctx, user.ID, in.Habit, time.Now(), user.TZ)
			periodLabel = "today"
		}
		if err != nil {
			w.log.Error("stats query failed", zap.Error(err), zap.String("phone", phone))
			if errors.Is(err, domain.ErrUnknownTimezone) {
				w.reply(c, phone, "Your timezone looks invalid; please contact support.")
			}
			return
		}
		w.reply(c, phone, fmt.Sprintf("You have logged %d %s %s.", total, in.Habit, periodLabel))

	case intent.SetReminder:
		w.reply(c, phone, "Reminders are set up for you by our team; chat setup is not available yet.")

	default:
		w.reply(c, phone, `Please send a number to log your habit (e.g., "30").`)
	}
}

func (w *Webhook) reply(c echo.Context, to, body string) {
	if err := w.sender.SendText(c.Request().Context(), to, body); err != nil {
		w.log.Error("reply send failed", zap.Error(err), zap.String("to", to))
	}
}
