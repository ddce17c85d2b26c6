package commands

import "fmt"

// ConfigList prints every config key with its value.
func (a *App) ConfigList() error {
	for _, entry := range a.Config.List() {
		fmt.Fprintf(a.Out, "%s: %s\n", entry.Key, entry.Value)
	}
	return nil
}

// ConfigGet prints the value of key.
func (a *App) ConfigGet(key string) error {
	value, err := a.Config.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, value)
	return nil
}

// ConfigSet changes key and saves the config file.
func (a *App) ConfigSet(key, value string) error {
	if err := a.Config.Set(key, value); err != nil {
		return err
	}
	if err := a.Config.Save(a.ConfigPath); err != nil {
		return err
	}
	a.Logger.Info("config updated", "key", key, "path", a.ConfigPath)
	return nil
}
