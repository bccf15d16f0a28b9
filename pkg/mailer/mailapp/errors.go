package mailapp

import "errors"

var (
	// ErrNotAvailable is returned on operating systems without an
	// open-URL facility the channel can use.
	ErrNotAvailable = errors.New("mailapp: mail app integration is not available on this operating system")

	// ErrOutlookUnavailable is returned when the outlook provider is
	// selected outside macOS; the AppleScript bridge exists only there.
	ErrOutlookUnavailable = errors.New("mailapp: Outlook drafts via AppleScript are only available on macOS")

	// ErrAutomationDenied is returned when macOS refuses the automation
	// request because the permission was never granted.
	ErrAutomationDenied = errors.New("mailapp: not authorized to control Microsoft Outlook")
)
