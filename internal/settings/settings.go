package settings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound        = errors.New("settings not found")
	ErrInvalidPIN      = errors.New("incorrect PIN")
	ErrMalformedPIN    = errors.New("PIN must be 4 digits")
	ErrMissingField    = errors.New("name, phone and PIN are required")
	ErrGuestRestricted = errors.New("not available in guest mode")
	ErrNotRegistered   = errors.New("no registered profile")
	ErrInvalidLanguage = errors.New("unsupported language")
	ErrUnknownProvider = errors.New("unknown account provider")
)

type Language string

const (
	LanguageFrench Language = "fr"
	LanguageDioula Language = "dioula"
)

// Providers are the external accounts a registered profile may link.
var Providers = []string{"ORANGE_MONEY", "WAVE", "MTN_MOMO", "MOOV_MONEY", "BANK"}

const guestName = "Invité"

type Settings struct {
	Name                 string
	Currency             string
	PINHash              string
	Onboarded            bool
	Guest                bool
	City                 string
	Phone                string
	ConfirmationGate     bool
	NotificationsEnabled bool
	DarkMode             bool
	Language             Language
	LinkedAccounts       []string
}

// Defaults is what an empty store reports.
func Defaults() Settings {
	return Settings{
		Currency:             "FCFA",
		City:                 "Abidjan",
		NotificationsEnabled: true,
		Language:             LanguageFrench,
	}
}

// Profile is the slice of settings the entry workflow depends on.
type Profile struct {
	Guest            bool
	ConfirmationGate bool
}

func (s Settings) Profile() Profile {
	return Profile{Guest: s.Guest, ConfirmationGate: s.ConfirmationGate}
}

func (s Settings) validate() error {
	if s.Language != LanguageFrench && s.Language != LanguageDioula {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, s.Language)
	}

	for _, acc := range s.LinkedAccounts {
		if !slices.Contains(Providers, acc) {
			return fmt.Errorf("%w: %q", ErrUnknownProvider, acc)
		}
	}

	if s.Guest && len(s.LinkedAccounts) > 0 {
		return fmt.Errorf("linking accounts: %w", ErrGuestRestricted)
	}

	return nil
}

//go:generate mockgen -source=settings.go -destination=repository_mock.go -package=settings
type Repository interface {
	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (Settings, error) {
	st, err := s.repo.LoadSettings(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}

	if err != nil {
		return Settings{}, fmt.Errorf("loading settings: %w", err)
	}

	return st, nil
}

// Update stores the editable preferences. Identity fields (PIN, guest flag,
// onboarding) keep their stored values.
func (s *Service) Update(ctx context.Context, next Settings) (Settings, error) {
	cur, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	next.PINHash = cur.PINHash
	next.Guest = cur.Guest
	next.Onboarded = cur.Onboarded

	if cur.Guest {
		next.Phone = cur.Phone
	}

	if err := next.validate(); err != nil {
		return Settings{}, err
	}

	if err := s.repo.SaveSettings(ctx, next); err != nil {
		return Settings{}, fmt.Errorf("saving settings: %w", err)
	}

	return next, nil
}

// Register creates the local profile, replacing any guest session.
func (s *Service) Register(ctx context.Context, name, phone, pin string) (Settings, error) {
	name, phone = strings.TrimSpace(name), strings.TrimSpace(phone)
	if name == "" || phone == "" || pin == "" {
		return Settings{}, ErrMissingField
	}

	hash, err := hashPIN(pin)
	if err != nil {
		return Settings{}, err
	}

	st, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	st.Name = name
	st.Phone = phone
	st.PINHash = hash
	st.Onboarded = true
	st.Guest = false

	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return Settings{}, fmt.Errorf("saving settings: %w", err)
	}

	return st, nil
}

// EnterGuest switches to the guest profile. Guests have no PIN, no phone and
// no linked accounts.
func (s *Service) EnterGuest(ctx context.Context) (Settings, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	st.Name = guestName
	st.Phone = ""
	st.PINHash = ""
	st.City = "Abidjan"
	st.Onboarded = true
	st.Guest = true
	st.LinkedAccounts = nil

	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return Settings{}, fmt.Errorf("saving settings: %w", err)
	}

	return st, nil
}

// Login checks pin against the registered profile.
func (s *Service) Login(ctx context.Context, pin string) (Settings, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	if !st.Onboarded || st.Guest || st.PINHash == "" {
		return Settings{}, ErrNotRegistered
	}

	if err := bcrypt.CompareHashAndPassword([]byte(st.PINHash), []byte(pin)); err != nil {
		return Settings{}, ErrInvalidPIN
	}

	return st, nil
}

// ChangePIN replaces the PIN after checking the current one.
func (s *Service) ChangePIN(ctx context.Context, current, next string) error {
	st, err := s.Login(ctx, current)
	if err != nil {
		return err
	}

	if st.PINHash, err = hashPIN(next); err != nil {
		return err
	}

	if err := s.repo.SaveSettings(ctx, st); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	return nil
}

func hashPIN(pin string) (string, error) {
	if len(pin) != 4 || strings.Trim(pin, "0123456789") != "" {
		return "", ErrMalformedPIN
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing PIN: %w", err)
	}

	return string(hash), nil
}
