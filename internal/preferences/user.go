package preferences

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	keyHasCompletedOnboarding            = "hasCompletedOnboarding"
	keyHasCompletedUpdateBoardingGermany = "hasCompletedUpdateBoardingGermany"
	keyHasCompletedUpdateBoardingCheckIn = "hasCompletedUpdateBoardingCheckIn"
	keyLastPhoneCalls                    = "lastPhoneCalls"
	keySeenMessages                      = "seenMessages"
	keyTracingSettingEnabled             = "tracingSettingEnabled"
	keyLastTracingDisabledDate           = "lastTracingDisabledDate"
	keyDidMarkAsInfected                 = "didMarkAsInfected"
	keyLastPushed                        = "lastPushed"
)

// OnboardingHandler is told about every write of the onboarding flag
type OnboardingHandler func(completed bool)

// UserStorage exposes the user's persisted state through typed accessors
type UserStorage struct {
	store *Store

	// Guards read-modify-write sequences and the subscriber
	mu           sync.Mutex
	onOnboarding OnboardingHandler

	now func() time.Time
}

func NewUserStorage(store *Store) *UserStorage {
	return &UserStorage{
		store: store,
		now:   time.Now,
	}
}

// OnOnboardingChanged registers the single subscriber for the onboarding flag,
// replacing any previous one. Pass nil to unsubscribe.
func (u *UserStorage) OnOnboardingChanged(fn OnboardingHandler) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.onOnboarding = fn
}

func (u *UserStorage) HasCompletedOnboarding() (bool, error) {
	return u.store.Bool(keyHasCompletedOnboarding, false)
}

// SetHasCompletedOnboarding persists the flag, marks the update boardings as
// seen and then calls the subscriber once before returning.
func (u *UserStorage) SetHasCompletedOnboarding(completed bool) error {
	handler, err := u.setOnboarding(completed)
	if err != nil {
		return err
	}

	// Called outside the lock so the handler may read the storage again
	if handler != nil {
		handler(completed)
	}
	return nil
}

func (u *UserStorage) setOnboarding(completed bool) (OnboardingHandler, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.store.SetBool(keyHasCompletedOnboarding, completed); err != nil {
		return nil, err
	}
	// A fresh onboarding already covers the content of the update boardings
	if err := u.store.SetBool(keyHasCompletedUpdateBoardingGermany, true); err != nil {
		return nil, err
	}
	if err := u.store.SetBool(keyHasCompletedUpdateBoardingCheckIn, true); err != nil {
		return nil, err
	}
	return u.onOnboarding, nil
}

func (u *UserStorage) HasCompletedUpdateBoardingGermany() (bool, error) {
	return u.store.Bool(keyHasCompletedUpdateBoardingGermany, false)
}

func (u *UserStorage) HasCompletedUpdateBoardingCheckIn() (bool, error) {
	return u.store.Bool(keyHasCompletedUpdateBoardingCheckIn, false)
}

// RegisterPhoneCall records a call to the hotline identified by id. Only the
// most recent call is kept.
func (u *UserStorage) RegisterPhoneCall(id int) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	calls := map[string]time.Time{
		strconv.Itoa(id): u.now(),
	}
	return u.store.Set(keyLastPhoneCalls, calls)
}

func (u *UserStorage) LastPhoneCall(id int) (time.Time, bool, error) {
	calls, err := u.phoneCalls()
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := calls[strconv.Itoa(id)]
	return t, ok, nil
}

func (u *UserStorage) phoneCalls() (map[string]time.Time, error) {
	calls := map[string]time.Time{}
	if err := u.store.Get(keyLastPhoneCalls, &calls); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return calls, nil
}

func (u *UserStorage) RegisterSeenMessage(id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	seen, err := u.seenMessages()
	if err != nil {
		return err
	}
	if slices.Contains(seen, id) {
		return nil
	}
	return u.store.Set(keySeenMessages, append(seen, id))
}

func (u *UserStorage) RegisterSeenMessageUUID(id uuid.UUID) error {
	return u.RegisterSeenMessage(id.String())
}

func (u *UserStorage) HasSeenMessage(id string) (bool, error) {
	seen, err := u.seenMessages()
	if err != nil {
		return false, err
	}
	return slices.Contains(seen, id), nil
}

func (u *UserStorage) HasSeenMessageUUID(id uuid.UUID) (bool, error) {
	return u.HasSeenMessage(id.String())
}

func (u *UserStorage) seenMessages() ([]string, error) {
	var seen []string
	if err := u.store.Get(keySeenMessages, &seen); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return seen, nil
}

func (u *UserStorage) TracingSettingEnabled() (bool, error) {
	return u.store.Bool(keyTracingSettingEnabled, true)
}

// SetTracingSettingEnabled records when tracing was switched off, and clears
// that date again when it is switched back on.
func (u *UserStorage) SetTracingSettingEnabled(enabled bool) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.store.SetBool(keyTracingSettingEnabled, enabled); err != nil {
		return err
	}
	if enabled {
		return u.store.Delete(keyLastTracingDisabledDate)
	}
	return u.store.SetTime(keyLastTracingDisabledDate, u.now())
}

func (u *UserStorage) LastTracingDisabledDate() (time.Time, bool, error) {
	return u.store.Time(keyLastTracingDisabledDate)
}

func (u *UserStorage) DidMarkAsInfected() (bool, error) {
	return u.store.Bool(keyDidMarkAsInfected, false)
}

func (u *UserStorage) SetDidMarkAsInfected(v bool) error {
	return u.store.SetBool(keyDidMarkAsInfected, v)
}

func (u *UserStorage) LastPushed() (time.Time, bool, error) {
	return u.store.Time(keyLastPushed)
}

func (u *UserStorage) SetLastPushed(t time.Time) error {
	return u.store.SetTime(keyLastPushed, t)
}

// Summary returns a printable view of the stored user state
func (u *UserStorage) Summary() (map[string]string, error) {
	out := make(map[string]string)

	bools := []struct {
		name string
		get  func() (bool, error)
	}{
		{keyHasCompletedOnboarding, u.HasCompletedOnboarding},
		{keyHasCompletedUpdateBoardingGermany, u.HasCompletedUpdateBoardingGermany},
		{keyHasCompletedUpdateBoardingCheckIn, u.HasCompletedUpdateBoardingCheckIn},
		{keyTracingSettingEnabled, u.TracingSettingEnabled},
		{keyDidMarkAsInfected, u.DidMarkAsInfected},
	}
	for _, b := range bools {
		v, err := b.get()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", b.name, err)
		}
		out[b.name] = strconv.FormatBool(v)
	}

	times := []struct {
		name string
		get  func() (time.Time, bool, error)
	}{
		{keyLastTracingDisabledDate, u.LastTracingDisabledDate},
		{keyLastPushed, u.LastPushed},
	}
	for _, tm := range times {
		v, ok, err := tm.get()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", tm.name, err)
		}
		if ok {
			out[tm.name] = v.Format(time.RFC3339)
		} else {
			out[tm.name] = "-"
		}
	}

	return out, nil
}
