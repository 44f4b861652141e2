// Package console routes operator commands to the admin services and reports typed results.
package console

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domainerrors "github.com/unifiedui/admin-console/internal/domain/errors"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/services/features"
	"github.com/unifiedui/admin-console/internal/services/session"
)

// UserResolver loads users from operator search input.
type UserResolver interface {
	Resolve(ctx context.Context, idInput, emailInput string, lastEdited models.SearchField) (*models.UserRecord, error)
}

// Result is the outcome of one command.
type Result struct {
	Action    string                    `json:"action"`
	OK        bool                      `json:"ok"`
	Indicator string                    `json:"indicator,omitempty"`
	Message   string                    `json:"message,omitempty"`
	Value     *models.FeatureValue      `json:"value,omitempty"`
	Options   []Option                  `json:"options,omitempty"`
	Error     *domainerrors.DomainError `json:"error,omitempty"`
	View      View                      `json:"view"`
}

// Err returns the command's error, or nil when it succeeded.
func (r Result) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// TokenInvalidator drops the cached admin token.
type TokenInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Config holds the configuration for the console.
type Config struct {
	Resolver UserResolver
	Engine   *features.Engine
	Session  *session.Context
	// Tokens, when set, has its cached token dropped after the admin API answers 401.
	Tokens TokenInvalidator
	Logger *zerolog.Logger
}

// Console dispatches operator commands against the session context.
type Console struct {
	resolver UserResolver
	engine   *features.Engine
	session  *session.Context
	tokens   TokenInvalidator
	logger   zerolog.Logger

	busyMu sync.Mutex
	busy   map[string]struct{}
}

// New creates a console.
func New(cfg *Config) (*Console, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("feature engine is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("session is required")
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &Console{
		resolver: cfg.Resolver,
		engine:   cfg.Engine,
		session:  cfg.Session,
		tokens:   cfg.Tokens,
		logger:   logger.With().Str("component", "console").Logger(),
		busy:     make(map[string]struct{}),
	}, nil
}

// Dispatch runs cmd. A command arriving while the same control is still busy is rejected
// without side effects.
func (c *Console) Dispatch(ctx context.Context, cmd Command) Result {
	if key, guarded := controlKey(cmd); guarded {
		if !c.acquire(key) {
			c.logger.Debug().Str("control", key).Msg("control busy")
			res := Result{
				Action:    cmd.Action(),
				Indicator: IndicatorBusy,
				Error:     domainerrors.NewBusyError(key),
			}
			res.Message = res.Error.Message
			res.View = c.view(ctx, "", "")
			return res
		}
		defer c.release(key)
	}

	var (
		res        Result
		idInput    string
		emailInput string
	)

	switch cmd := cmd.(type) {
	case EditSearch:
		idInput, emailInput = strings.TrimSpace(cmd.IDInput), strings.TrimSpace(cmd.EmailInput)
		if cmd.Field != models.SearchFieldNone {
			c.session.SetLastEdited(cmd.Field)
		}
		res = Result{OK: true}
	case FindUser:
		idInput, emailInput = strings.TrimSpace(cmd.IDInput), strings.TrimSpace(cmd.EmailInput)
		res = c.findUser(ctx, cmd)
	case Show:
		res = Result{OK: true}
	case Reset:
		res = c.outcome(c.session.Reset(ctx), "")
	case Close:
		res = c.outcome(c.session.Close(ctx), "")
	case RestoreSession:
		res = c.restore(ctx)
	case GrantSubscription:
		res = c.outcome(c.engine.GrantSubscription(ctx, c.currentUserID()), "Activated!")
	case UpdateTokens:
		res = c.updateTokens(ctx, cmd)
	case ToggleFeature:
		res = c.featureOutcome(c.engine.ToggleFeature(ctx, c.currentUserID(), cmd.Key))
	case SetFeature:
		res = c.featureOutcome(c.engine.SetFeature(ctx, c.currentUserID(), cmd.Key, cmd.Value))
	case SetFeatureFromOption:
		res = c.featureOutcome(c.engine.SetFeatureFromOption(ctx, c.currentUserID(), cmd.Key, cmd.Option))
	case ListOptions:
		res = c.listOptions(cmd)
	case ToggleCollapse:
		res = c.toggleCollapse(ctx)
	case SetCollapsed:
		res = c.outcome(c.session.SetCollapsed(ctx, cmd.Collapsed), "")
	case MovePanel:
		res = c.outcome(c.session.SetPosition(ctx, cmd.Position), "")
	default:
		res = c.failure(domainerrors.NewInternalError("unknown command", fmt.Errorf("%T", cmd)))
	}

	if res.Error != nil && res.Error.Status == http.StatusUnauthorized {
		c.dropToken(ctx)
	}

	res.Action = cmd.Action()
	res.View = c.view(ctx, idInput, emailInput)
	return res
}

// dropToken forgets an admin token the API no longer accepts so the next action logs in again.
func (c *Console) dropToken(ctx context.Context) {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Invalidate(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to drop rejected admin token")
		return
	}
	c.logger.Info().Msg("admin token rejected, cached token dropped")
}

func (c *Console) findUser(ctx context.Context, cmd FindUser) Result {
	lastEdited := cmd.LastEdited
	if lastEdited == models.SearchFieldNone {
		lastEdited = c.session.LastEdited()
	} else {
		c.session.SetLastEdited(lastEdited)
	}

	record, err := c.resolver.Resolve(ctx, cmd.IDInput, cmd.EmailInput, lastEdited)
	if err != nil {
		res := c.failure(err)
		res.Message = IndicatorFailure + " Error: " + res.Error.Message
		return res
	}

	if err := c.session.Install(ctx, record); err != nil {
		c.logger.Warn().Err(err).Str("user_id", record.ID).Msg("loaded user not persisted")
	}

	return Result{
		OK:        true,
		Indicator: IndicatorSuccess,
		Message:   fmt.Sprintf("%s Loaded user %s", IndicatorSuccess, record.ID),
	}
}

func (c *Console) restore(ctx context.Context) Result {
	found, err := c.session.Restore(ctx)
	if err != nil {
		return c.failure(err)
	}
	if !found {
		return Result{OK: true, Message: "no saved user"}
	}
	return Result{OK: true, Indicator: IndicatorSuccess, Message: IndicatorSuccess + " Restored user " + c.currentUserID()}
}

func (c *Console) updateTokens(ctx context.Context, cmd UpdateTokens) Result {
	applied, err := c.engine.UpdateTokenBalance(ctx, c.currentUserID(), cmd.Amount)
	if err != nil {
		return c.failure(err)
	}
	if !applied {
		return Result{OK: true}
	}
	return Result{OK: true, Indicator: IndicatorSuccess, Message: IndicatorSuccess + " Updated!"}
}

func (c *Console) listOptions(cmd ListOptions) Result {
	opts := c.engine.Options(cmd.Key)
	if opts == nil {
		return c.failure(domainerrors.NewValidationError("feature has no options", cmd.Key))
	}
	return Result{OK: true, Options: buildOptions(opts)}
}

func (c *Console) toggleCollapse(ctx context.Context) Result {
	panel, err := c.session.PanelState(ctx)
	if err != nil {
		return c.failure(err)
	}
	return c.outcome(c.session.SetCollapsed(ctx, !panel.Collapsed), "")
}

func (c *Console) featureOutcome(value models.FeatureValue, err error) Result {
	if err != nil {
		return c.failure(err)
	}
	return Result{
		OK:        true,
		Indicator: IndicatorSuccess,
		Message:   value.String(),
		Value:     &value,
	}
}

func (c *Console) outcome(err error, success string) Result {
	if err != nil {
		return c.failure(err)
	}
	res := Result{OK: true}
	if success != "" {
		res.Indicator = IndicatorSuccess
		res.Message = IndicatorSuccess + " " + success
	}
	return res
}

func (c *Console) failure(err error) Result {
	domainErr, ok := domainerrors.GetDomainError(err)
	if !ok {
		domainErr = domainerrors.NewInternalError("unexpected error", err)
	}
	return Result{
		Indicator: IndicatorFailure,
		Message:   IndicatorFailure + " " + domainErr.Message,
		Error:     domainErr,
	}
}

func (c *Console) currentUserID() string {
	if user := c.session.Current(); user != nil {
		return user.ID
	}
	return ""
}

func (c *Console) view(ctx context.Context, idInput, emailInput string) View {
	panel, err := c.session.PanelState(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read panel state")
	}

	return View{
		Environment: c.engine.Profile().Name,
		User:        buildUserView(c.session.Current(), c.engine),
		Panel:       panel,
		SearchHint:  SearchHint(idInput, emailInput, c.session.LastEdited()),
	}
}

func (c *Console) acquire(key string) bool {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()

	if _, ok := c.busy[key]; ok {
		return false
	}
	c.busy[key] = struct{}{}
	return true
}

func (c *Console) release(key string) {
	c.busyMu.Lock()
	defer c.busyMu.Unlock()
	delete(c.busy, key)
}

// controlKey names the control a command occupies while it runs. Feature controls are
// per key so edits of different features proceed in parallel.
func controlKey(cmd Command) (string, bool) {
	switch cmd := cmd.(type) {
	case EditSearch, Show, ListOptions:
		return "", false
	case ToggleFeature:
		return cmd.Action() + ":" + cmd.Key, true
	case SetFeature:
		return cmd.Action() + ":" + cmd.Key, true
	case SetFeatureFromOption:
		return ActionSetFeature + ":" + cmd.Key, true
	default:
		return cmd.Action(), true
	}
}
