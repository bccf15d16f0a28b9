package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/postpanda/mailmerge/pkg/mailer"
)

func TestIsValidAddress(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@sub.example.co.uk",
		"user+tag@example.org",
		"  padded@example.com  ",
	}
	for _, addr := range valid {
		require.True(t, mailer.IsValidAddress(addr), "expected valid: %q", addr)
	}

	invalid := []string{
		"",
		"   ",
		"plainstring",
		"missing-domain@",
		"@missing-local.com",
		"no-tld@example",
		"two@@example.com",
		"spaces in@example.com",
		"user@exam ple.com",
	}
	for _, addr := range invalid {
		require.False(t, mailer.IsValidAddress(addr), "expected invalid: %q", addr)
	}
}
