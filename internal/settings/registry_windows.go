//go:build windows

package settings

import (
	"errors"

	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"golang.org/x/sys/windows/registry"
)

const agreedValue = "AgreedToTerms"

// RegistryStore keeps Settings under HKCU\Software\<product>.
type RegistryStore struct {
	path string
}

func NewRegistryStore(productName string) *RegistryStore {
	return &RegistryStore{path: `Software\` + productName}
}

func (s *RegistryStore) Load() (Settings, error) {
	var st Settings

	k, err := registry.OpenKey(registry.CURRENT_USER, s.path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return st, nil
		}
		return st, errdefs.Wrap(errdefs.ErrTypeSettings, "failed to open settings key", err)
	}
	defer k.Close()

	v, _, err := k.GetIntegerValue(agreedValue)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return st, nil
		}
		return st, errdefs.Wrap(errdefs.ErrTypeSettings, "failed to read settings", err)
	}
	st.AgreedToTerms = v != 0
	return st, nil
}

func (s *RegistryStore) Save(st Settings) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, s.path, registry.SET_VALUE)
	if err != nil {
		return errdefs.Wrap(errdefs.ErrTypeSettings, "failed to create settings key", err)
	}
	defer k.Close()

	var v uint32
	if st.AgreedToTerms {
		v = 1
	}
	if err := k.SetDWordValue(agreedValue, v); err != nil {
		return errdefs.Wrap(errdefs.ErrTypeSettings, "failed to write settings", err)
	}
	return nil
}

func platformStore(productName string) Store {
	return NewRegistryStore(productName)
}
