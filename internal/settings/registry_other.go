//go:build !windows

package settings

func platformStore(string) Store {
	return nil
}
