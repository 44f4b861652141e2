package console

import "github.com/unifiedui/admin-console/internal/domain/models"

// Command is an operator action. The set of commands is closed; Dispatch handles every variant.
type Command interface {
	// Action names the control the command came from.
	Action() string
	command()
}

// Action names.
const (
	ActionEditSearch     = "edit-search"
	ActionFindUser       = "find-user"
	ActionShow           = "show"
	ActionReset          = "reset"
	ActionClose          = "close"
	ActionSubscribe      = "activate-sub"
	ActionUpdateTokens   = "update-tokens"
	ActionToggleFeature  = "toggle-feature"
	ActionSetFeature     = "update-feature-value"
	ActionSetFromOption  = "set-feature-from-option"
	ActionToggleCollapse = "toggle-collapse"
	ActionSetCollapsed   = "set-collapsed"
	ActionMovePanel      = "move-panel"
	ActionRestoreSession = "restore"
	ActionListOptions    = "list-options"
)

// EditSearch records that the operator typed into one of the search inputs.
type EditSearch struct {
	Field      models.SearchField
	IDInput    string
	EmailInput string
}

// FindUser resolves a user from the search inputs and loads it.
type FindUser struct {
	IDInput    string
	EmailInput string
	// LastEdited overrides the remembered search field when set.
	LastEdited models.SearchField
}

// Show returns the current view without changing anything.
type Show struct{}

// Reset unloads the current user.
type Reset struct{}

// Close unloads the current user and clears the session scope.
type Close struct{}

// RestoreSession reloads the user kept in the session scope.
type RestoreSession struct{}

// GrantSubscription grants the environment's product to the loaded user.
type GrantSubscription struct{}

// UpdateTokens sets the loaded user's token balance from operator text.
type UpdateTokens struct {
	Amount string
}

// ToggleFeature flips a feature of the loaded user.
type ToggleFeature struct {
	Key string
}

// SetFeature writes a feature value of the loaded user.
type SetFeature struct {
	Key   string
	Value models.FeatureValue
}

// SetFeatureFromOption writes one of a feature's configured options.
type SetFeatureFromOption struct {
	Key    string
	Option string
}

// ListOptions returns the configured options of a feature.
type ListOptions struct {
	Key string
}

// ToggleCollapse flips the panel's collapsed flag.
type ToggleCollapse struct{}

// SetCollapsed sets the panel's collapsed flag.
type SetCollapsed struct {
	Collapsed bool
}

// MovePanel stores a new panel position.
type MovePanel struct {
	Position models.Position
}

func (EditSearch) Action() string           { return ActionEditSearch }
func (FindUser) Action() string             { return ActionFindUser }
func (Show) Action() string                 { return ActionShow }
func (Reset) Action() string                { return ActionReset }
func (Close) Action() string                { return ActionClose }
func (RestoreSession) Action() string       { return ActionRestoreSession }
func (GrantSubscription) Action() string    { return ActionSubscribe }
func (UpdateTokens) Action() string         { return ActionUpdateTokens }
func (ToggleFeature) Action() string        { return ActionToggleFeature }
func (SetFeature) Action() string           { return ActionSetFeature }
func (SetFeatureFromOption) Action() string { return ActionSetFromOption }
func (ListOptions) Action() string          { return ActionListOptions }
func (ToggleCollapse) Action() string       { return ActionToggleCollapse }
func (SetCollapsed) Action() string         { return ActionSetCollapsed }
func (MovePanel) Action() string            { return ActionMovePanel }

func (EditSearch) command()           {}
func (FindUser) command()             {}
func (Show) command()                 {}
func (Reset) command()                {}
func (Close) command()                {}
func (RestoreSession) command()       {}
func (GrantSubscription) command()    {}
func (UpdateTokens) command()         {}
func (ToggleFeature) command()        {}
func (SetFeature) command()           {}
func (SetFeatureFromOption) command() {}
func (ListOptions) command()          {}
func (ToggleCollapse) command()       {}
func (SetCollapsed) command()         {}
func (MovePanel) command()            {}
