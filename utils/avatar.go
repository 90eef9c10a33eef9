package utils

import (
	"fmt"
	"net/url"
)

// DefaultAvatarURL builds the fallback profile picture from the user's
// initials, matching the ui-avatars style the frontend expects.
func DefaultAvatarURL(firstName, lastName string) string {
	name := url.QueryEscape(firstName + " " + lastName)
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=0D8ABC&color=fff", name)
}
