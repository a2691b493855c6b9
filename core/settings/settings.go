// Package settings persists user preferences as a flat JSON document.
package settings

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// settings document keys
const (
	KeyAPIKey               = "api_key"
	KeyShowRubricCategories = "show_rubric_categories"
	KeyShowRubric           = "show_rubric"
	KeyDarkModeEnabled      = "dark_mode_enabled"
	KeyWindowSize           = "window_size"
	KeyLastSelection        = "last_selection"
	KeyEnvImported          = "env_imported"
	KeyWindowGeometry       = "window_geometry"
	KeyTourCompleted        = "tour_completed"
)

var ErrInvalidValue = errors.New("invalid value for setting")

type (
	Selection struct {
		Grade      string `json:"grade"`
		Subject    string `json:"subject"`
		Assignment string `json:"assignment"`
	}

	// Settings is the preference document. Keys it does not know about are kept in Extra
	// and written back untouched.
	Settings struct {
		APIKey               string
		ShowRubricCategories bool
		ShowRubric           bool
		DarkModeEnabled      bool
		WindowSize           [2]int
		LastSelection        Selection
		EnvImported          bool
		WindowGeometry       *string // opaque serialized layout, null until first shutdown
		TourCompleted        bool

		Extra map[string]json.RawMessage
	}
)

// MaskSecret hides all but the last 4 characters of secret.
func MaskSecret(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 4:
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

// Defaults returns a fresh default document.
func Defaults() Settings {
	return Settings{
		ShowRubricCategories: true,
		ShowRubric:           true,
		WindowSize:           [2]int{1000, 700},
	}
}

// fields maps every known key to a pointer on the matching field of s.
func (s *Settings) fields() map[string]interface{} {
	return map[string]interface{}{
		KeyAPIKey:               &s.APIKey,
		KeyShowRubricCategories: &s.ShowRubricCategories,
		KeyShowRubric:           &s.ShowRubric,
		KeyDarkModeEnabled:      &s.DarkModeEnabled,
		KeyWindowSize:           &s.WindowSize,
		KeyLastSelection:        &s.LastSelection,
		KeyEnvImported:          &s.EnvImported,
		KeyWindowGeometry:       &s.WindowGeometry,
		KeyTourCompleted:        &s.TourCompleted,
	}
}

// IsKnownKey reports whether key maps to a typed field.
func IsKnownKey(key string) bool {
	_, ok := new(Settings).fields()[key]
	return ok
}

// Keys returns every key present in s (known and extra), sorted.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.fields())+len(s.Extra))
	for k := range s.fields() {
		keys = append(keys, k)
	}
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c := s
	if s.WindowGeometry != nil {
		geom := *s.WindowGeometry
		c.WindowGeometry = &geom
	}
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// Value returns the value stored under key, if any.
// Known keys always exist; a null window geometry is returned as a nil interface.
func (s *Settings) Value(key string) (interface{}, bool) {
	if ptr, ok := s.fields()[key]; ok {
		v := reflect.ValueOf(ptr).Elem()
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return nil, true
			}
			return v.Elem().Interface(), true
		}
		return v.Interface(), true
	}
	raw, ok := s.Extra[key]
	if !ok {
		return nil, false
	}
	var val interface{}
	if err := json.Unmarshal(raw, &val); err != nil {
		return nil, false
	}
	return val, true
}

// SetValue stores value under key. A value that does not fit a known key's type is rejected
// and leaves s untouched.
func (s *Settings) SetValue(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(ErrInvalidValue, "%s: %v", key, err)
	}
	return s.setRaw(key, data)
}

func (s *Settings) setRaw(key string, data json.RawMessage) error {
	ptr, ok := s.fields()[key]
	if !ok {
		if s.Extra == nil {
			s.Extra = make(map[string]json.RawMessage)
		}
		s.Extra[key] = append(json.RawMessage(nil), data...)
		return nil
	}

	field := reflect.ValueOf(ptr).Elem()
	if string(data) == "null" && field.Kind() != reflect.Ptr {
		return errors.Wrapf(ErrInvalidValue, "%s cannot be null", key)
	}
	if field.Kind() == reflect.Array {
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return errors.Wrapf(ErrInvalidValue, "%s: %v", key, err)
		}
		if len(elems) != field.Len() {
			return errors.Wrapf(ErrInvalidValue, "%s must have %d elements, got %d", key, field.Len(), len(elems))
		}
	}
	tmp := reflect.New(field.Type())
	if err := json.Unmarshal(data, tmp.Interface()); err != nil {
		return errors.Wrapf(ErrInvalidValue, "%s: %v", key, err)
	}
	field.Set(tmp.Elem())
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(s.Extra)+len(s.fields()))
	for k, v := range s.Extra {
		doc[k] = v
	}
	for k, ptr := range s.fields() {
		doc[k] = ptr
	}
	return json.Marshal(doc)
}

// UnmarshalJSON overlays data on s: keys absent from data keep their current value.
// Known keys holding a value of the wrong type are reported through a *DecodeError
// after every other key has been applied.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc == nil {
		return errors.New("settings document must be a JSON object")
	}

	var decodeErr *DecodeError
	for k, raw := range doc {
		if err := s.setRaw(k, raw); err != nil {
			if decodeErr == nil {
				decodeErr = &DecodeError{}
			}
			decodeErr.Keys = append(decodeErr.Keys, k)
		}
	}
	if decodeErr != nil {
		sort.Strings(decodeErr.Keys)
		return decodeErr
	}
	return nil
}

// DecodeError lists persisted keys whose values were ignored.
type DecodeError struct {
	Keys []string
}

func (e *DecodeError) Error() string {
	return "ignored invalid values for settings: " + strings.Join(e.Keys, ", ")
}
