// Package app wires the payment-approval workflow to the Telegram runtime:
// the submission store, the conversation flow, the moderation protocol and
// all user/admin handlers.
package app

import (
	"context"
	"fmt"

	"github.com/abjtutorial/accessbot/internal/access"
	"github.com/abjtutorial/accessbot/internal/access/moderation"
	"github.com/abjtutorial/accessbot/internal/config"
	"github.com/abjtutorial/accessbot/internal/logger"
	"github.com/abjtutorial/accessbot/internal/telegram"
	"github.com/abjtutorial/accessbot/internal/telegram/commands"
	"github.com/abjtutorial/accessbot/internal/telegram/middleware"
	"github.com/abjtutorial/accessbot/internal/telegram/router"
	"github.com/abjtutorial/accessbot/internal/telegram/state"
	"log/slog"
)

// App aggregates the bot's runtime components.
type App struct {
	cfg        *config.Config
	store      *access.Store
	fsm        state.Manager
	messenger  *botMessenger
	moderation *moderation.Service
}

// New builds the application from configuration.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	a := &App{
		cfg:       cfg,
		store:     access.NewStore(),
		fsm:       state.NewMemoryManager(),
		messenger: newBotMessenger(nil),
	}
	a.moderation = moderation.NewService(a.store, a.messenger, moderation.Config{
		AdminID:         cfg.Telegram.AdminID,
		ChannelID:       cfg.Access.ChannelID,
		AuditChannelID:  cfg.Access.AuditChannelID,
		JoinRequestLink: cfg.Access.JoinRequestLink,
	})

	state.RegisterHandler(statePaymentName, a.conversationHandler)
	state.RegisterHandler(statePaymentSex, a.conversationHandler)
	state.RegisterHandler(statePaymentPhoto, a.conversationHandler)

	return a, nil
}

// moderationCallbackKeys are the four decision buttons the admin can press.
var moderationCallbackKeys = []string{
	"approve_manual",
	"reject_manual",
	"approve_auto",
	"reject_auto",
}

func (a *App) buildRegistry() (*telegram.Registry, error) {
	reg := telegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Open the main menu",
	})

	reg.SetTextFallback(a.handleMenu)

	sexGuard := middleware.State(fsmStates{a.fsm}, string(statePaymentSex))
	if err := reg.RegisterCallback("sex", sexGuard(a.handleSexChoice)); err != nil {
		return nil, err
	}

	adminOnly := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	for _, key := range moderationCallbackKeys {
		if err := reg.RegisterCallback(key, adminOnly(a.handleDecision)); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// TelegramRunOptions assembles everything RunTelegram needs.
func (a *App) TelegramRunOptions() (telegram.RunOptions, error) {
	reg, err := a.buildRegistry()
	if err != nil {
		return telegram.RunOptions{}, fmt.Errorf("app: registry: %w", err)
	}

	routes := router.TextRoutes(a.fsm, reg, router.TextOptions{})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})...)

	return telegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: telegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			// The moderation service can reach Telegram from here on.
			a.messenger.setBot(rt.Bot)
			logger.Info(ctx, "app", "wired",
				slog.String("status", "ok"),
				slog.Bool("messenger_ready", rt.Bot != nil),
			)
			return nil
		},
	}, nil
}

// Store exposes the submission store, mainly for tests.
func (a *App) Store() *access.Store { return a.store }

// fsmStates adapts the session manager to the state-guard middleware.
type fsmStates struct{ m state.Manager }

func (f fsmStates) GetState(userID int64) string { return string(f.m.GetState(userID)) }
