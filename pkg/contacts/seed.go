package contacts

import (
	"bytes"
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/notifykit/pkg/notifications"
)

type seedContact struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	FCMToken string `yaml:"fcm_token"`
}

// ParseSeed reads a YAML map of user id to contact details:
//
//	user-1:
//	  email: ann@example.com
//	  phone: "+15550100"
//	  fcm_token: tok-1
func ParseSeed(data []byte) (map[string]notifications.Contact, error) {
	var raw map[string]seedContact
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Join(ErrInvalidSeed, err)
	}

	users := make(map[string]notifications.Contact, len(raw))
	for id, c := range raw {
		if id == "" {
			return nil, errors.Join(ErrInvalidSeed, ErrInvalidUserID)
		}
		users[id] = notifications.Contact{Email: c.Email, PhoneNumber: c.Phone, FCMToken: c.FCMToken}
	}
	return users, nil
}

// LoadSeedFile builds a MemoryDirectory from a seed file.
func LoadSeedFile(path string) (*MemoryDirectory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidSeed, err)
	}
	users, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}
	return NewMemoryDirectory(users), nil
}
