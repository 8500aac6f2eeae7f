// Package prompt asks the user for the values publish cannot infer: the
// bump kind and a GitHub token.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/relkit/publish/internal/bump"
	oerrors "github.com/relkit/publish/internal/errors"
)

// Provider supplies interactive input.
type Provider interface {
	// SelectBump asks which bump to release. options lists every kind with
	// the version it produces.
	SelectBump(ctx context.Context, current string, options []bump.Option) (bump.Kind, error)

	// Secret asks for a value without echoing it.
	Secret(ctx context.Context, message string) (string, error)
}

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// Terminal prompts on the controlling terminal.
type Terminal struct{}

var _ Provider = Terminal{}

// SelectBump implements Provider.
func (Terminal) SelectBump(ctx context.Context, current string, options []bump.Option) (bump.Kind, error) {
	opts := make([]huh.Option[string], 0, len(options))
	for _, o := range options {
		opts = append(opts, huh.NewOption(o.Title, string(o.Kind)))
	}

	var choice string
	sel := huh.NewSelect[string]().
		Title("Choose which new version to release").
		Description("current version " + current).
		Options(opts...).
		Value(&choice)

	if err := run(ctx, sel); err != nil {
		return "", err
	}

	return bump.Parse(choice)
}

// Secret implements Provider.
func (Terminal) Secret(ctx context.Context, message string) (string, error) {
	var value string
	in := huh.NewInput().
		Title(message).
		EchoMode(huh.EchoModePassword).
		Value(&value)

	if err := run(ctx, in); err != nil {
		return "", err
	}

	return value, nil
}

func run(ctx context.Context, field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

// NonInteractive fails every prompt. It is used in CI and when stdin is not
// a terminal.
type NonInteractive struct{}

var _ Provider = NonInteractive{}

// SelectBump implements Provider.
func (NonInteractive) SelectBump(context.Context, string, []bump.Option) (bump.Kind, error) {
	return "", oerrors.NewInputRequiredError(
		"no bump given and prompting is disabled",
		"pass the bump as an argument, e.g. publish minor",
	)
}

// Secret implements Provider.
func (NonInteractive) Secret(_ context.Context, message string) (string, error) {
	return "", oerrors.NewInputRequiredError(
		message+" (prompting is disabled)",
		"set GITHUB_TOKEN or pass --github-token",
	)
}

// Scripted answers prompts from fixed values.
type Scripted struct {
	Bump  bump.Kind
	Token string

	// Asked records the prompts shown, in order.
	Asked []string
}

var _ Provider = (*Scripted)(nil)

// SelectBump implements Provider.
func (s *Scripted) SelectBump(ctx context.Context, current string, options []bump.Option) (bump.Kind, error) {
	s.Asked = append(s.Asked, "bump")
	if s.Bump == "" {
		return NonInteractive{}.SelectBump(ctx, current, options)
	}
	return s.Bump, nil
}

// Secret implements Provider.
func (s *Scripted) Secret(ctx context.Context, message string) (string, error) {
	s.Asked = append(s.Asked, message)
	if s.Token == "" {
		return NonInteractive{}.Secret(ctx, message)
	}
	return s.Token, nil
}

// Choose returns the terminal provider when interaction is allowed.
func Choose(ci, tty bool) Provider {
	if ci || !tty {
		return NonInteractive{}
	}
	return Terminal{}
}
