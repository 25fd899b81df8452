package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
)

// takes a save path and a variable number of strings and writes them to file separated by new lines
func WriteToFile(savePath string, content ...string) error {
	singleString := ""
	for i, c := range content {
		if i == 0 {
			singleString = c
			continue
		}
		singleString = fmt.Sprintf("%s\n%s", singleString, c)
	}
	if err := ensureDir(savePath); err != nil {
		return err
	}
	return os.WriteFile(savePath, []byte(singleString), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	if err := ensureDir(savePath); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON marshals v with indentation and writes it to savePath
func WriteJSON(savePath string, v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling: %w", err)
	}
	return WriteToFile(savePath, string(bs))
}

func ensureDir(savePath string) error {
	dir := path.Dir(savePath)
	if _, err := os.Stat(dir); err != nil {
		return os.MkdirAll(dir, os.ModePerm)
	}
	return nil
}
