package main

import (
	"encoding/json"
	"fmt"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/settings"
)

func (cli *commandLine) printSettings() error {
	doc := cli.store.Settings()
	doc.APIKey = settings.MaskSecret(doc.APIKey)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s\n%s\n", cli.store.Path(), data)
	return nil
}

// setAPIKey stores key and saves the document right away.
func (cli *commandLine) setAPIKey(key string) error {
	key = core.CleanString(key)
	if key == "" {
		return core.NewArgumentError("empty API key")
	}
	if err := cli.store.Set(settings.KeyAPIKey, key); err != nil {
		return err
	}
	if err := cli.store.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "API key %s saved\n", settings.MaskSecret(key))
	return nil
}
