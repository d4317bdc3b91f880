package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/budgetivoire/budgetivoire/internal/settings"
)

const (
	dbTimeout     = 5 * time.Second
	adviceTimeout = 30 * time.Second

	maxPINAttempts = 3
)

var errTooManyAttempts = errors.New("too many incorrect PIN attempts")

// signIn runs before the main program: it unlocks a registered profile with
// its PIN, or offers to register or continue as a guest.
func signIn(ctx context.Context, svc *settings.Service) (settings.Settings, error) {
	st, err := svc.Get(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	if st.Onboarded && !st.Guest {
		return unlock(ctx, svc, st.Name)
	}

	choice := "guest"
	if st.Guest {
		choice = "continue"
	}

	err = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Bienvenue sur BudgetIvoire").
			Options(
				huh.NewOption("Continuer en invité", "guest"),
				huh.NewOption("Créer mon profil", "register"),
			).
			Value(&choice),
	)).RunWithContext(ctx)
	if err != nil {
		return settings.Settings{}, err
	}

	if choice == "register" {
		return register(ctx, svc)
	}

	return svc.EnterGuest(ctx)
}

func unlock(ctx context.Context, svc *settings.Service, name string) (settings.Settings, error) {
	for attempt := 1; attempt <= maxPINAttempts; attempt++ {
		var pin string

		title := "Code PIN"
		if attempt > 1 {
			title = fmt.Sprintf("Code PIN incorrect, essai %d/%d", attempt, maxPINAttempts)
		}

		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Bonjour " + name).
				EchoMode(huh.EchoModePassword).
				CharLimit(4).
				Value(&pin),
		)).RunWithContext(ctx)
		if err != nil {
			return settings.Settings{}, err
		}

		st, err := svc.Login(ctx, pin)
		if errors.Is(err, settings.ErrInvalidPIN) {
			continue
		}

		return st, err
	}

	return settings.Settings{}, errTooManyAttempts
}

func register(ctx context.Context, svc *settings.Service) (settings.Settings, error) {
	var name, phone, pin string

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Nom").Value(&name).Validate(required),
		huh.NewInput().Title("Téléphone").Placeholder("07 00 00 00 00").Value(&phone).Validate(required),
		huh.NewInput().
			Title("Code PIN").
			Description("4 chiffres").
			EchoMode(huh.EchoModePassword).
			CharLimit(4).
			Value(&pin).
			Validate(fourDigits),
	)).RunWithContext(ctx)
	if err != nil {
		return settings.Settings{}, err
	}

	return svc.Register(ctx, name, phone, pin)
}

func required(s string) error {
	if s == "" {
		return errors.New("champ obligatoire")
	}

	return nil
}

func fourDigits(s string) error {
	if len(s) != 4 || strings.Trim(s, "0123456789") != "" {
		return errors.New("4 chiffres")
	}

	return nil
}
