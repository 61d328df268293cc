package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistration(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"match", "detect", "batch", "serve", "catalog", "purchases"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestCatalogSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range catalogCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"migrate", "import", "stats"} {
		assert.True(t, names[want], "catalog subcommand %q not registered", want)
	}
}
