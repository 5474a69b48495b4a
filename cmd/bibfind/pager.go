package main

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// pipePager runs the configured pager command with text on stdin. The command
// is split on whitespace; the first word must resolve on PATH.
func pipePager(pagerCmd, text string) error {
	fields := strings.Fields(pagerCmd)
	if len(fields) == 0 {
		return errors.New("no pager configured")
	}
	path, err := exec.LookPath(fields[0])
	if err != nil {
		return err
	}
	cmd := exec.Command(path, fields[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
